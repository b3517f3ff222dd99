// Package qrc adapts the optical QR codec behind the narrow interface
// the framing core requires: text in, PNG out, and back.
//
// Encoding goes through skip2/go-qrcode with a forced version tier so
// the rendered code matches the tier the capacity resolver chose.
// Decoding goes through the gozxing multi reader and returns every
// payload found in the image; zero or multiple results are tolerated
// here and surfaced by the caller.
package qrc

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for captured images
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/skip2/go-qrcode"

	"github.com/qrdrive-io/qrdrive/types"
)

// DefaultPixelDensity is the rendered width of one QR module in pixels.
const DefaultPixelDensity = 10

// Options configures QR rendering.
type Options struct {
	// Level is the error-correction strength.
	Level types.ECLevel
	// Tier is the forced QR version. Zero lets the codec pick the
	// smallest version that fits.
	Tier int
	// PixelDensity is the module width in pixels (default 10).
	PixelDensity int
	// Fill is the dark color (default black). Color name or hex.
	Fill string
	// Background is the light color (default white). Color name or hex.
	Background string
}

// recoveryLevel maps the frame-format level to the codec's constant.
func recoveryLevel(level types.ECLevel) qrcode.RecoveryLevel {
	switch level {
	case types.ECMedium:
		return qrcode.Medium
	case types.ECHigh:
		return qrcode.High
	default:
		return qrcode.Low
	}
}

// EncodePNG renders one frame's text into a PNG image.
func EncodePNG(text string, opts Options) ([]byte, error) {
	var (
		q   *qrcode.QRCode
		err error
	)
	if opts.Tier > 0 {
		q, err = qrcode.NewWithForcedVersion(text, opts.Tier, recoveryLevel(opts.Level))
	} else {
		q, err = qrcode.New(text, recoveryLevel(opts.Level))
	}
	if err != nil {
		return nil, &CodecError{Op: "encode", Err: err}
	}

	if opts.Fill != "" {
		c, err := ParseColor(opts.Fill)
		if err != nil {
			return nil, err
		}
		q.ForegroundColor = c
	}
	if opts.Background != "" {
		c, err := ParseColor(opts.Background)
		if err != nil {
			return nil, err
		}
		q.BackgroundColor = c
	}

	px := opts.PixelDensity
	if px <= 0 {
		px = DefaultPixelDensity
	}
	// Negative size scales the image so each module is px pixels wide.
	data, err := q.PNG(-px)
	if err != nil {
		return nil, &CodecError{Op: "render", Err: err}
	}
	return data, nil
}

// DecodeAll returns every QR payload found in the image, in detection
// order. An image with no detectable code yields an empty slice, not
// an error; the caller decides what zero or multiple payloads mean.
func DecodeAll(img image.Image) ([]string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, &CodecError{Op: "decode", Err: fmt.Errorf("prepare bitmap: %w", err)}
	}

	reader := zxqr.NewQRCodeMultiReader()
	results, err := reader.DecodeMultiple(bmp, nil)
	if err != nil {
		if _, ok := err.(gozxing.NotFoundException); ok {
			return nil, nil
		}
		return nil, &CodecError{Op: "decode", Err: err}
	}

	payloads := make([]string, 0, len(results))
	for _, r := range results {
		payloads = append(payloads, r.GetText())
	}
	return payloads, nil
}

// DecodePNG decodes an encoded image file (PNG or JPEG) and returns
// every QR payload found in it.
func DecodePNG(data []byte) ([]string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &CodecError{Op: "decode", Err: fmt.Errorf("parse image: %w", err)}
	}
	return DecodeAll(img)
}
