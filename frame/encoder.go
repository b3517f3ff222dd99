package frame

import (
	"encoding/base64"
	"path/filepath"
	"strings"

	"github.com/qrdrive-io/qrdrive/archive"
	"github.com/qrdrive-io/qrdrive/types"
)

// IsText reports whether content can be carried in a frame without a
// text-safe transform: printable ASCII plus TAB, LF, and CR. Anything
// else takes the base64 path.
func IsText(content []byte) bool {
	for _, b := range content {
		if b >= 0x20 && b <= 0x7E {
			continue
		}
		switch b {
		case '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

// buildHeader renders the frame-0 header prefix per FORMAT.md.
func buildHeader(meta types.HeaderMeta) string {
	var b strings.Builder
	if meta.Binary {
		b.WriteString(MarkerBase64)
	}
	if meta.Archived {
		b.WriteString(MarkerArchive)
	}
	b.WriteString(MarkerFileOpen)
	b.WriteString(meta.Name)
	b.WriteString(MarkerFileClose)
	return b.String()
}

// Encode transforms content into the ordered frame sequence for one
// file. name supplies the embedded basename (directory stripped,
// extension kept). Every emitted frame's total length is bounded by
// capacity; emission order is the canonical index order.
//
// When wantArchive is set the content is zip-wrapped first; archived
// content always takes the base64 path.
func Encode(content []byte, name string, capacity int, wantArchive bool) ([]string, types.HeaderMeta, error) {
	meta := types.HeaderMeta{Name: filepath.Base(name)}
	if strings.Contains(meta.Name, MarkerFileClose) {
		return nil, meta, &Error{Kind: ErrorHeader, Msg: "filename contains reserved marker"}
	}

	if wantArchive {
		packed, err := archive.Pack(meta.Name, content)
		if err != nil {
			return nil, meta, &Error{Kind: ErrorEncoding, Msg: "archive pack failed", Err: err}
		}
		content = packed
		meta.Archived = true
	}

	var stream string
	if meta.Archived || !IsText(content) {
		meta.Binary = true
		stream = base64.StdEncoding.EncodeToString(content)
	} else {
		stream = string(content)
	}

	return slice(stream, buildHeader(meta), capacity, meta)
}

// slice greedily packs the encoded stream into frames. The buffer for
// frame 0 starts as header + index marker; each subsequent buffer
// starts as its own index marker. Markers are emitted whole before
// slicing begins, so boundaries never split them.
func slice(stream, header string, capacity int, meta types.HeaderMeta) ([]string, types.HeaderMeta, error) {
	var frames []string
	var b strings.Builder

	b.WriteString(header)
	b.WriteString(countMarker(0))
	if b.Len() >= capacity {
		return nil, meta, &Error{
			Kind: ErrorCapacity,
			Msg:  "capacity cannot hold the frame header and any content",
		}
	}

	index := 0
	for i := 0; i < len(stream); i++ {
		b.WriteByte(stream[i])
		if b.Len() == capacity {
			frames = append(frames, b.String())
			index++
			b.Reset()
			b.WriteString(countMarker(index))
			if b.Len() >= capacity {
				return nil, meta, &Error{
					Kind: ErrorCapacity,
					Msg:  "capacity cannot hold the index marker and any content",
				}
			}
		}
	}

	// The final partial frame, however short, is still emitted.
	if b.Len() > 0 {
		frames = append(frames, b.String())
	}
	return frames, meta, nil
}
