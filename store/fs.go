package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/qrdrive-io/qrdrive/types"
)

// FS stores frames as files under a root directory.
type FS struct {
	root string
}

// NewFS creates a filesystem store rooted at dir, creating the
// directory if needed.
func NewFS(dir string) (*FS, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, wrap(err, "init", dir)
	}
	return &FS{root: dir}, nil
}

// Root returns the store's root directory.
func (s *FS) Root() string { return s.root }

// FramePath returns the on-disk path for a frame index.
func (s *FS) FramePath(base string, index int) string {
	return filepath.Join(s.root, FrameName(base, index))
}

// WriteFrame implements Store.
func (s *FS) WriteFrame(_ context.Context, base string, index int, data []byte) error {
	path := s.FramePath(base, index)
	return wrap(os.WriteFile(path, data, 0o644), "write", path)
}

// ReadFrame implements Store.
func (s *FS) ReadFrame(_ context.Context, base string, index int) ([]byte, error) {
	path := s.FramePath(base, index)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrap(err, "read", path)
	}
	return data, nil
}

// WriteManifest implements Store.
func (s *FS) WriteManifest(_ context.Context, base string, m *types.Manifest) error {
	data, err := EncodeManifest(m)
	if err != nil {
		return err
	}
	path := filepath.Join(s.root, ManifestName(base))
	return wrap(os.WriteFile(path, data, 0o644), "write", path)
}

// ReadManifest implements Store.
func (s *FS) ReadManifest(_ context.Context, base string) (*types.Manifest, error) {
	path := filepath.Join(s.root, ManifestName(base))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrap(err, "read", path)
	}
	return DecodeManifest(data)
}

// Verify FS implements Store.
var _ Store = (*FS)(nil)
