package assemble

import (
	"errors"
	"fmt"
)

// Sentinel errors for reassembly failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrIndexMismatch indicates a frame whose declared index does not
	// match its arrival position. Recoverable through the decision
	// boundary for unordered sources, fatal for enumerated sources.
	ErrIndexMismatch = errors.New("frame index mismatch")

	// ErrDecisionPending indicates an Offer or Complete call while a
	// prior frame still awaits an Accept/Reject decision.
	ErrDecisionPending = errors.New("frame decision pending")

	// ErrSessionComplete indicates a frame offered after the session
	// was completed.
	ErrSessionComplete = errors.New("reassembly session already complete")

	// ErrNoFrames indicates completion with no frames accepted.
	ErrNoFrames = errors.New("no frames accepted")

	// ErrCorruptPayload indicates a collected payload that cannot be
	// base64-decoded despite the binary flag.
	ErrCorruptPayload = errors.New("corrupt base64 payload")

	// ErrUnpackFailed indicates an archive that could not be unpacked.
	// The intermediate archive file is retained for inspection.
	ErrUnpackFailed = errors.New("archive unpack failed")
)

// MismatchError reports a declared-vs-arrival index conflict on an
// enumerated source, where the filename-derived position makes the
// marker redundant and a conflict means corruption or wrong-file input.
type MismatchError struct {
	// Position is the arrival position the frame was offered at.
	Position int
	// Declared is the index parsed from the frame's marker.
	Declared int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("frame declares index %d at position %d", e.Declared, e.Position)
}

// Is reports whether the error matches ErrIndexMismatch.
func (e *MismatchError) Is(target error) bool {
	return errors.Is(ErrIndexMismatch, target)
}
