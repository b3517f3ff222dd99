// Package frame implements the frame text grammar and the frame
// encoder per FORMAT.md.
//
// All markers are literal ASCII substrings; parsing is an ordered
// optional-prefix strip, never index arithmetic, so the grammar is
// independently testable.
package frame

import (
	"strconv"
	"strings"

	"github.com/qrdrive-io/qrdrive/types"
)

// Grammar markers per FORMAT.md.
const (
	// MarkerBase64 flags base64-encoded content (frame 0 only).
	MarkerBase64 = "b64:"
	// MarkerArchive flags zip-wrapped content (frame 0 only).
	MarkerArchive = ":z:"
	// MarkerFileOpen opens the embedded basename (frame 0 only).
	MarkerFileOpen = "::f::"
	// MarkerFileClose closes the embedded basename.
	MarkerFileClose = "::/f::"
	// markerCount is the index marker prefix; the full marker is
	// "::c" <decimal-index> "::".
	markerCount      = "::c"
	markerCountClose = "::"
)

// countMarker renders the index marker for frame i.
func countMarker(i int) string {
	return markerCount + strconv.Itoa(i) + markerCountClose
}

// stripLiteral removes a literal marker prefix.
// ok is false when s does not begin with the marker.
func stripLiteral(s, marker string) (rest string, ok bool) {
	if strings.HasPrefix(s, marker) {
		return s[len(marker):], true
	}
	return s, false
}

// StripHeader strips the optional frame-0 header prefix in grammar
// order: "b64:", then ":z:", then "::f::"<basename>"::/f::". Any of
// the markers may be absent; absence is not an error on frame 0.
//
// Returns the header metadata and the remainder of the frame.
func StripHeader(s string) (types.HeaderMeta, string, error) {
	var meta types.HeaderMeta

	s, meta.Binary = stripLiteral(s, MarkerBase64)
	s, meta.Archived = stripLiteral(s, MarkerArchive)

	rest, ok := stripLiteral(s, MarkerFileOpen)
	if !ok {
		return meta, s, nil
	}
	end := strings.Index(rest, MarkerFileClose)
	if end < 0 {
		return meta, s, &Error{Kind: ErrorHeader, Msg: "unterminated filename header"}
	}
	meta.Name = rest[:end]
	return meta, rest[end+len(MarkerFileClose):], nil
}

// StripIndex strips a leading "::c"<digits>"::" index marker.
// Returns nil when the marker is missing or malformed; a frame with
// no index is legal at the grammar level (the reassembler decides
// what it means).
func StripIndex(s string) (*int, string) {
	rest, ok := stripLiteral(s, markerCount)
	if !ok {
		return nil, s
	}
	end := strings.Index(rest, markerCountClose)
	if end <= 0 {
		return nil, s
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil || n < 0 {
		return nil, s
	}
	return &n, rest[end+len(markerCountClose):]
}

// Parse tokenizes one raw frame string. first selects whether the
// frame-0 header prefix is expected before the index marker.
func Parse(s string, first bool) (types.Frame, error) {
	var f types.Frame

	if first {
		meta, rest, err := StripHeader(s)
		if err != nil {
			return f, err
		}
		f.Binary = meta.Binary
		f.Archived = meta.Archived
		f.Name = meta.Name
		s = rest
	}

	f.Declared, s = StripIndex(s)
	f.Payload = s
	return f, nil
}
