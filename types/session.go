package types

// SessionMode identifies the pipeline a session runs.
type SessionMode string

// Session modes. Save encodes a file to frames; Load decodes an
// enumerated frame store; Scan decodes unordered captures.
const (
	ModeSave SessionMode = "save"
	ModeLoad SessionMode = "load"
	ModeScan SessionMode = "scan"
)

// SessionMeta carries session identity for log context.
// Every log entry within one encode or decode session includes these
// fields.
type SessionMeta struct {
	SessionID string
	Mode      SessionMode
}
