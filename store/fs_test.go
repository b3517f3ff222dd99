package store

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/qrdrive-io/qrdrive/types"
)

func TestFrameName(t *testing.T) {
	tests := []struct {
		base  string
		index int
		want  string
	}{
		{"notes.txt", 0, "notes.txt.0.png"},
		{"notes.txt", 12, "notes.txt.12.png"},
		{"archive", 3, "archive.3.png"},
	}
	for _, tt := range tests {
		if got := FrameName(tt.base, tt.index); got != tt.want {
			t.Errorf("FrameName(%q, %d) = %q, want %q", tt.base, tt.index, got, tt.want)
		}
	}
}

func TestFS_FrameRoundTrip(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS() error: %v", err)
	}
	ctx := context.Background()

	data := []byte{0x89, 'P', 'N', 'G', 0x01, 0x02}
	if err := s.WriteFrame(ctx, "doc.txt", 0, data); err != nil {
		t.Fatalf("WriteFrame() error: %v", err)
	}

	got, err := s.ReadFrame(ctx, "doc.txt", 0)
	if err != nil {
		t.Fatalf("ReadFrame() error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("ReadFrame() = %v, want %v", got, data)
	}
}

func TestFS_MissingFrameIsNotFound(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS() error: %v", err)
	}

	_, err = s.ReadFrame(context.Background(), "doc.txt", 7)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadFrame() error = %v, want ErrNotFound", err)
	}
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("error %v is not a *StorageError", err)
	}
	if se.Op != "read" {
		t.Errorf("op = %q, want %q", se.Op, "read")
	}
}

func TestFS_ManifestRoundTrip(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS() error: %v", err)
	}
	ctx := context.Background()

	m := NewManifest("doc.txt", 3, 1273, 25, types.ECHigh, true, false)
	if err := s.WriteManifest(ctx, "doc.txt", m); err != nil {
		t.Fatalf("WriteManifest() error: %v", err)
	}

	got, err := s.ReadManifest(ctx, "doc.txt")
	if err != nil {
		t.Fatalf("ReadManifest() error: %v", err)
	}
	if got.Frames != 3 || got.Capacity != 1273 || got.Tier != 25 {
		t.Errorf("manifest = %+v, want frames=3 capacity=1273 tier=25", got)
	}
	if got.Level != types.ECHigh || !got.Binary || got.Archived {
		t.Errorf("manifest flags = %+v, want level=H binary archived=false", got)
	}
	if got.FormatVersion != types.Version {
		t.Errorf("format version = %q, want %q", got.FormatVersion, types.Version)
	}
}

func TestFS_MissingManifestIsNotFound(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS() error: %v", err)
	}
	if _, err := s.ReadManifest(context.Background(), "doc.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadManifest() error = %v, want ErrNotFound", err)
	}
}

func TestNewFS_CreatesRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "frames")
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS() error: %v", err)
	}
	if s.Root() != dir {
		t.Errorf("Root() = %q, want %q", s.Root(), dir)
	}
	if err := s.WriteFrame(context.Background(), "x", 0, []byte("y")); err != nil {
		t.Errorf("WriteFrame() into created root error: %v", err)
	}
}
