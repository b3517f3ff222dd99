package frame

import "fmt"

// ErrorKind classifies frame encoding and parsing errors.
type ErrorKind int

const (
	// ErrorCapacity indicates a capacity too small to carry the frame
	// markers plus at least one content byte.
	ErrorCapacity ErrorKind = iota
	// ErrorHeader indicates a malformed frame-0 header.
	ErrorHeader
	// ErrorEncoding indicates content that cannot be represented
	// losslessly. Should not occur given the binary fallback, but is
	// checked per FORMAT.md.
	ErrorEncoding
)

// Error represents a frame encoding or parsing error.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
