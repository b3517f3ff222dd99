package types

// Manifest is the optional sidecar written beside a frame set at save
// time (<base>.manifest.mp, msgpack-encoded per FORMAT.md).
//
// Loaders must treat a missing manifest as normal: frame sets printed
// by other tools, or by older versions, carry none. When present it is
// advisory only — the frame headers remain authoritative.
type Manifest struct {
	// FormatVersion is types.Version at save time.
	FormatVersion string `msgpack:"format_version"`
	// Name is the base output name the frames were saved under.
	Name string `msgpack:"name"`
	// Frames is the number of frames in the set.
	Frames int `msgpack:"frames"`
	// Capacity is the resolved capacity in bytes per frame.
	Capacity int `msgpack:"capacity"`
	// Level is the error-correction level the codes were written with.
	Level ECLevel `msgpack:"level"`
	// Tier is the optical-codec version tier implied by Capacity.
	Tier int `msgpack:"tier"`
	// Binary is true when the content was base64-wrapped.
	Binary bool `msgpack:"binary"`
	// Archived is true when the content was zip-wrapped first.
	Archived bool `msgpack:"archived"`
	// CreatedAt is the save timestamp, RFC 3339.
	CreatedAt string `msgpack:"created_at"`
}
