// Package assemble implements the frame reassembly state machine and
// the output materializer.
//
// One Assembler per decode session. Frames are offered one at a time
// in whatever order they become available; each is validated against
// the running state and merged on acceptance. When a frame's position
// is ambiguous the Assembler yields a Pending decision to its caller
// instead of reading input itself, so the core is testable without a
// terminal.
package assemble

import (
	"path/filepath"
	"strings"

	"github.com/qrdrive-io/qrdrive/frame"
)

// State is the reassembly session state.
type State int

// Session states. A session moves Empty → Accumulating → Complete;
// Complete is terminal.
const (
	StateEmpty State = iota
	StateAccumulating
	StateComplete
)

// Decision resolves a Pending frame.
type Decision int

const (
	// DecisionAccept merges the pending frame's payload at the current
	// position despite the mismatch or missing marker.
	DecisionAccept Decision = iota
	// DecisionReject discards the pending frame entirely; the caller
	// must re-acquire a frame for the same arrival position.
	DecisionReject
)

// Pending is a frame held for an Accept/Reject decision.
// Exactly one of the two conditions holds: the frame declared an index
// that conflicts with its arrival position, or it carried no index
// marker at all.
type Pending struct {
	// Position is the arrival position the frame was offered at.
	Position int
	// Declared is the conflicting index parsed from the frame's
	// marker. Nil when NoCount is true.
	Declared *int
	// NoCount is true when the frame carried no index marker.
	NoCount bool

	payload string
}

// Options configures an Assembler.
type Options struct {
	// NameOverride, when non-empty, replaces the base of the embedded
	// filename; only the extension is taken from the frame-0 header.
	NameOverride string
	// Strict marks an enumerated source, where the arrival position is
	// filename-derived and authoritative: a declared-index conflict is
	// a hard error rather than a decision, and a missing marker is
	// accepted silently.
	Strict bool
}

// Assembler consumes decoded frame strings and accumulates the logical
// payload. Not safe for concurrent use; a session owns its state
// exclusively.
type Assembler struct {
	opts    Options
	state   State
	payload strings.Builder

	binary   bool
	archived bool
	outName  string

	next    int
	pending *Pending
}

// New creates an empty reassembly session.
func New(opts Options) *Assembler {
	return &Assembler{opts: opts, outName: opts.NameOverride}
}

// State returns the current session state.
func (a *Assembler) State() State { return a.state }

// Position returns the next arrival position, i.e. the count of frames
// accepted so far.
func (a *Assembler) Position() int { return a.next }

// Offer presents one raw decoded frame string at the next arrival
// position.
//
// Returns (nil, nil) when the frame was accepted outright. Returns a
// non-nil Pending when the frame needs an Accept/Reject decision; the
// caller must call Resolve before offering another frame. On a strict
// source a declared-index conflict returns a *MismatchError instead.
func (a *Assembler) Offer(raw string) (*Pending, error) {
	switch {
	case a.state == StateComplete:
		return nil, ErrSessionComplete
	case a.pending != nil:
		return nil, ErrDecisionPending
	}

	f, err := frame.Parse(raw, a.next == 0)
	if err != nil {
		return nil, err
	}
	if a.next == 0 {
		a.binary = f.Binary
		a.archived = f.Archived
		a.applyName(f.Name)
	}

	switch {
	case f.Declared != nil && *f.Declared == a.next:
		a.accept(f.Payload)
		return nil, nil

	case f.Declared == nil:
		if a.opts.Strict {
			// Filename-derived position is authoritative; a missing
			// marker carries no conflicting claim.
			a.accept(f.Payload)
			return nil, nil
		}
		a.pending = &Pending{Position: a.next, NoCount: true, payload: f.Payload}
		return a.pending, nil

	default:
		if a.opts.Strict {
			return nil, &MismatchError{Position: a.next, Declared: *f.Declared}
		}
		a.pending = &Pending{Position: a.next, Declared: f.Declared, payload: f.Payload}
		return a.pending, nil
	}
}

// Resolve applies a decision to the pending frame. Accept merges the
// held payload at the pending position; Reject discards it and leaves
// the session state untouched so the caller can retry the position.
func (a *Assembler) Resolve(d Decision) error {
	if a.pending == nil {
		return ErrNoFrames
	}
	p := a.pending
	a.pending = nil
	if d == DecisionAccept {
		a.accept(p.payload)
	}
	return nil
}

// Result is the fully reassembled logical stream plus its header
// metadata, consumed exactly once by Materialize.
type Result struct {
	// Payload is the collected stream in acceptance order, still in
	// its text-safe form.
	Payload string
	// Binary is true when the payload is base64-encoded.
	Binary bool
	// Archived is true when the decoded bytes are a zip archive.
	Archived bool
	// Name is the resolved output name. May be empty when frame 0
	// carried no filename and no override was supplied.
	Name string
	// Frames is the number of frames accepted.
	Frames int
}

// Complete signals that no more frames are coming and seals the
// session. Fails if a decision is still outstanding or no frame was
// ever accepted.
func (a *Assembler) Complete() (Result, error) {
	if a.pending != nil {
		return Result{}, ErrDecisionPending
	}
	if a.state == StateEmpty {
		return Result{}, ErrNoFrames
	}
	a.state = StateComplete
	return Result{
		Payload:  a.payload.String(),
		Binary:   a.binary,
		Archived: a.archived,
		Name:     a.outName,
		Frames:   a.next,
	}, nil
}

func (a *Assembler) accept(payload string) {
	a.payload.WriteString(payload)
	a.next++
	a.state = StateAccumulating
}

// applyName resolves the output name from the embedded frame-0 name
// and the caller override. The override base wins; only the extension
// is taken from the embedded name.
func (a *Assembler) applyName(embedded string) {
	if embedded == "" {
		return
	}
	if a.opts.NameOverride == "" {
		a.outName = embedded
		return
	}
	a.outName = a.opts.NameOverride + filepath.Ext(embedded)
}
