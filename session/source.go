package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/qrdrive-io/qrdrive/store"
)

// Source supplies raw decoded frame strings for arrival positions.
type Source interface {
	// Next returns the frame text for arrival position pos. ok is
	// false when the source is exhausted for that position. A rejected
	// frame causes Next to be called again with the same pos.
	Next(ctx context.Context, pos int) (raw string, ok bool, err error)

	// Strict reports whether the source enumerates frames by index,
	// making the arrival position authoritative: an index mismatch is
	// then a hard decode error rather than a decision.
	Strict() bool
}

// StoreSource enumerates frames from a Store by the FORMAT.md naming
// convention, stopping at the first missing index.
type StoreSource struct {
	store store.Store
	codec Codec
	base  string
}

// NewStoreSource creates an enumerated source over base in st.
func NewStoreSource(st store.Store, codec Codec, base string) *StoreSource {
	return &StoreSource{store: st, codec: codec, base: base}
}

// Next implements Source.
func (s *StoreSource) Next(ctx context.Context, pos int) (string, bool, error) {
	data, err := s.store.ReadFrame(ctx, s.base, pos)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	raw, err := decodeOne(s.codec, data, store.FrameName(s.base, pos))
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

// Strict implements Source. Enumerated positions are filename-derived
// and authoritative.
func (s *StoreSource) Strict() bool { return true }

// ImageSource consumes a fixed list of captured images in presentation
// order, for unordered scan sessions. A rejected frame consumes the
// next image for the same arrival position.
type ImageSource struct {
	codec  Codec
	paths  []string
	cursor int
}

// NewImageSource creates a capture-order source over the image paths.
func NewImageSource(codec Codec, paths []string) *ImageSource {
	return &ImageSource{codec: codec, paths: paths}
}

// Next implements Source.
func (s *ImageSource) Next(_ context.Context, _ int) (string, bool, error) {
	if s.cursor >= len(s.paths) {
		return "", false, nil
	}
	path := s.paths[s.cursor]
	s.cursor++

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return "", false, fmt.Errorf("read image %q: %w", path, err)
	}
	raw, err := decodeOne(s.codec, data, path)
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

// Strict implements Source. Capture order carries no authority.
func (s *ImageSource) Strict() bool { return false }

// decodeOne decodes an image expected to carry exactly one frame.
func decodeOne(codec Codec, data []byte, name string) (string, error) {
	payloads, err := codec.Decode(data)
	if err != nil {
		return "", fmt.Errorf("decode %q: %w", name, err)
	}
	if len(payloads) != 1 {
		return "", fmt.Errorf("%w: %q yielded %d payloads, want 1", ErrDecodeAmbiguous, name, len(payloads))
	}
	return payloads[0], nil
}
