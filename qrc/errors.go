package qrc

// CodecError wraps a failure inside the optical codec so callers can
// tell codec faults apart from input or storage faults.
type CodecError struct {
	// Op is the codec operation that failed: "encode", "render", or
	// "decode".
	Op string
	// Err is the underlying codec error.
	Err error
}

func (e *CodecError) Error() string {
	return "qr " + e.Op + ": " + e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}
