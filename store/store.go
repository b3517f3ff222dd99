package store

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/qrdrive-io/qrdrive/types"
)

// FrameExt is the image file extension frames are stored under.
const FrameExt = ".png"

// ManifestSuffix is appended to the base name for the manifest sidecar.
const ManifestSuffix = ".manifest.mp"

// FrameName returns the persistent name for frame index under base,
// per the FORMAT.md convention: <base>.<index>.png, zero-based,
// contiguous.
func FrameName(base string, index int) string {
	return fmt.Sprintf("%s.%d%s", base, index, FrameExt)
}

// ManifestName returns the manifest sidecar name for base.
func ManifestName(base string) string {
	return base + ManifestSuffix
}

// Store persists frame images and the optional manifest sidecar.
//
// Implementations classify failures via the package sentinels; a read
// of a missing frame or manifest returns an error matching ErrNotFound.
type Store interface {
	// WriteFrame writes the rendered image for one frame index.
	WriteFrame(ctx context.Context, base string, index int, data []byte) error

	// ReadFrame reads the rendered image for one frame index.
	ReadFrame(ctx context.Context, base string, index int) ([]byte, error)

	// WriteManifest writes the manifest sidecar for a frame set.
	WriteManifest(ctx context.Context, base string, m *types.Manifest) error

	// ReadManifest reads the manifest sidecar for a frame set.
	ReadManifest(ctx context.Context, base string) (*types.Manifest, error)
}

// EncodeManifest serializes a manifest for the sidecar file.
func EncodeManifest(m *types.Manifest) ([]byte, error) {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return data, nil
}

// DecodeManifest deserializes a manifest sidecar file.
func DecodeManifest(data []byte) (*types.Manifest, error) {
	var m types.Manifest
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// NewManifest builds a manifest describing a freshly saved frame set.
func NewManifest(base string, frames, capBytes, tier int, level types.ECLevel, binary, archived bool) *types.Manifest {
	return &types.Manifest{
		FormatVersion: types.Version,
		Name:          base,
		Frames:        frames,
		Capacity:      capBytes,
		Level:         level,
		Tier:          tier,
		Binary:        binary,
		Archived:      archived,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
}
