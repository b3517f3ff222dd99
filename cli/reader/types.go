// Package reader provides the read-side data access layer for the
// qrdrive CLI.
//
// This package isolates all read operations from session internals.
// All read-only commands use this wrapper exclusively; nothing here
// mutates a store.
package reader

// InspectManifestResponse is the deep view of a stored frame set.
type InspectManifestResponse struct {
	Name      string `json:"name"`
	Frames    int    `json:"frames"`
	Capacity  int    `json:"capacity"`
	Tier      int    `json:"tier"`
	Level     string `json:"level"`
	Binary    bool   `json:"binary"`
	Archived  bool   `json:"archived"`
	CreatedAt string `json:"created_at"`
}

// InspectFrameResponse is the deep view of one encoded frame image.
type InspectFrameResponse struct {
	Path string `json:"path"`
	// Payloads is the number of QR payloads found in the image.
	// Anything other than 1 means the capture is unusable as a frame.
	Payloads int `json:"payloads"`
	// Declared is the index parsed from the "::cN::" marker, nil when
	// the marker is absent.
	Declared *int `json:"declared"`
	// Name, Binary, and Archived are the header fields. Only present
	// when the image carries a frame-0 header.
	Name     string `json:"name,omitempty"`
	Binary   bool   `json:"binary"`
	Archived bool   `json:"archived"`
	// SliceBytes is the length of the payload after marker stripping.
	SliceBytes int `json:"slice_bytes"`
}

// ListFrameItem is one frame file of a stored set.
type ListFrameItem struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}
