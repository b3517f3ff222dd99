// Package session orchestrates encode and decode sessions end to end:
// capacity resolution, framing, QR rendering, storage, reassembly, and
// output materialization.
//
// Each invocation owns its state exclusively; there is no shared
// mutable state between sessions. The only suspension point is the
// per-frame Accept/Reject decision, modeled through the Decider
// boundary so the core never reads a terminal.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/qrdrive-io/qrdrive/assemble"
	"github.com/qrdrive-io/qrdrive/qrc"
	"github.com/qrdrive-io/qrdrive/types"
)

// Sentinel errors for session failure classification.
var (
	// ErrInputNotFound indicates the source path or frame 0 is absent.
	// Fatal; the session aborts with nothing written.
	ErrInputNotFound = errors.New("input not found")

	// ErrDecodeAmbiguous indicates an image that yielded zero or more
	// than one QR payload where exactly one frame was expected.
	ErrDecodeAmbiguous = errors.New("ambiguous decode")

	// ErrAborted indicates the user declined to continue at the
	// confirmation point.
	ErrAborted = errors.New("session aborted")

	// ErrFrameCountMismatch indicates the assembled frame count differs
	// from the count a manifest sidecar declares for the set. Typically
	// a truncated copy of the frame set.
	ErrFrameCountMismatch = errors.New("frame count does not match manifest")
)

// newMeta mints the identity for a fresh session.
func newMeta(mode types.SessionMode) types.SessionMeta {
	return types.SessionMeta{SessionID: uuid.NewString(), Mode: mode}
}

// Codec is the narrow optical-codec boundary the session core
// requires: one frame's text to one image, and one image back to the
// payloads found in it.
type Codec interface {
	// Encode renders frame text into an image at the given
	// error-correction level and version tier.
	Encode(text string, level types.ECLevel, tier int) ([]byte, error)

	// Decode returns every payload found in an encoded image. Zero or
	// multiple results are tolerated by the interface; the session
	// surfaces them as ErrDecodeAmbiguous.
	Decode(image []byte) ([]string, error)
}

// QRCodec is the production Codec backed by the qrc package.
type QRCodec struct {
	// PixelDensity is the module width in pixels (default 10).
	PixelDensity int
	// Fill is the dark color. Color name or hex; empty means black.
	Fill string
	// Background is the light color. Empty means white.
	Background string
}

// Encode implements Codec.
func (c *QRCodec) Encode(text string, level types.ECLevel, tier int) ([]byte, error) {
	return qrc.EncodePNG(text, qrc.Options{
		Level:        level,
		Tier:         tier,
		PixelDensity: c.PixelDensity,
		Fill:         c.Fill,
		Background:   c.Background,
	})
}

// Decode implements Codec.
func (c *QRCodec) Decode(image []byte) ([]string, error) {
	return qrc.DecodePNG(image)
}

// Verify QRCodec implements Codec.
var _ Codec = (*QRCodec)(nil)

// Decider supplies the Accept/Reject decision for an ambiguous frame.
// Decide blocks the session pipeline until a decision is available.
type Decider interface {
	Decide(ctx context.Context, pending assemble.Pending) (assemble.Decision, error)
}

// AutoAccept accepts every ambiguous frame. Suitable for automated
// pipelines that trust their capture order.
type AutoAccept struct{}

// Decide implements Decider.
func (AutoAccept) Decide(context.Context, assemble.Pending) (assemble.Decision, error) {
	return assemble.DecisionAccept, nil
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, pending assemble.Pending) (assemble.Decision, error)

// Decide implements Decider.
func (f DeciderFunc) Decide(ctx context.Context, pending assemble.Pending) (assemble.Decision, error) {
	return f(ctx, pending)
}
