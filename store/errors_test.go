package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"enoent", errors.New("open /tmp/x: no such file or directory"), ErrNotFound},
		{"s3 missing key", errors.New("api error NoSuchKey: the specified key does not exist"), ErrNotFound},
		{"eacces", errors.New("open /etc/x: permission denied"), ErrPermissionDenied},
		{"s3 forbidden", errors.New("api error AccessDenied: Forbidden"), ErrAccessDenied},
		{"enospc", errors.New("write /tmp/x: no space left on device"), ErrDiskFull},
		{"deadline", errors.New("context deadline exceeded"), ErrTimeout},
		{"slowdown", errors.New("api error SlowDown: please reduce request rate"), ErrThrottled},
		{"no creds", errors.New("NoCredentialProviders: no valid providers in chain"), ErrAuth},
		{"refused", errors.New("dial tcp 127.0.0.1:9000: connection refused"), ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := wrap(tt.err, "write", "some/path")
			if !errors.Is(wrapped, tt.want) {
				t.Errorf("wrap(%v) does not match %v", tt.err, tt.want)
			}
		})
	}
}

func TestWrap_NilPassthrough(t *testing.T) {
	if err := wrap(nil, "write", "p"); err != nil {
		t.Errorf("wrap(nil) = %v, want nil", err)
	}
}

func TestStorageError_Chain(t *testing.T) {
	underlying := errors.New("api error NoSuchKey: gone")
	err := wrap(fmt.Errorf("get object: %w", underlying), "read", "bucket/key")

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("errors.Is(err, ErrNotFound) = false")
	}
	if !errors.Is(err, underlying) {
		t.Errorf("underlying error lost from the chain")
	}

	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("errors.As(*StorageError) = false")
	}
	if se.Path != "bucket/key" {
		t.Errorf("path = %q, want %q", se.Path, "bucket/key")
	}
}
