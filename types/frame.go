package types

// Frame is one parsed capacity-bounded unit of the encoded stream.
// Produced by frame.Parse from the raw text payload of a single QR code.
type Frame struct {
	// Declared is the index parsed from the "::cN::" marker.
	// Nil when the marker is missing or malformed.
	Declared *int
	// Payload is the frame content after the index marker (and, for
	// frame 0, after the header prefix) is stripped.
	Payload string
	// Binary is true when the frame-0 header carried the "b64:" marker.
	// Only meaningful on frame 0.
	Binary bool
	// Archived is true when the frame-0 header carried the ":z:" marker.
	// Only meaningful on frame 0.
	Archived bool
	// Name is the basename extracted from the frame-0 header, empty
	// when the header carried no filename.
	Name string
}

// HeaderMeta is the stream-level metadata learned from frame 0.
type HeaderMeta struct {
	Binary   bool
	Archived bool
	Name     string
}
