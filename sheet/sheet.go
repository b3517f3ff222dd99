// Package sheet lays rendered frame images out onto printable PDF
// sheets. Layout is a presentation concern only; the frame images are
// produced and named by the store before layout begins.
package sheet

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/qrdrive-io/qrdrive/capacity"
	"github.com/qrdrive-io/qrdrive/types"
)

// PageSize selects a printable medium.
type PageSize string

// Supported page sizes.
const (
	Letter      PageSize = "letter"
	IndexCard   PageSize = "index"
	PlayingCard PageSize = "playing_card"
)

// ParsePageSize parses a user-supplied page size string.
func ParsePageSize(s string) (PageSize, error) {
	switch strings.ToLower(s) {
	case "letter":
		return Letter, nil
	case "index", "index_card":
		return IndexCard, nil
	case "playing_card", "playing", "card":
		return PlayingCard, nil
	default:
		return "", fmt.Errorf("invalid page size: %q (must be letter, index, or playing_card)", s)
	}
}

const inch = 72.0 // points

// layout describes the geometry of one page size, in points.
type layout struct {
	width, height float64
	margin        float64
	imageSize     float64
	perRow        int
	perPage       int
}

func layoutFor(size PageSize) layout {
	switch size {
	case IndexCard:
		return layout{
			width: 3 * inch, height: 5 * inch,
			margin:    0.25 * inch,
			imageSize: 2.5 * inch,
			perRow:    1, perPage: 1,
		}
	case PlayingCard:
		return layout{
			width: 2.5 * inch, height: 3.5 * inch,
			margin:    0.25 * inch,
			imageSize: 2 * inch,
			perRow:    1, perPage: 1,
		}
	default:
		return layout{
			width: 8.5 * inch, height: 11 * inch,
			margin:    0.5 * inch,
			imageSize: 3.5 * inch,
			perRow:    2, perPage: 4,
		}
	}
}

// playingCardCeilings caps capacity on the playing-card medium, whose
// 2-inch print area cannot carry a legible high-tier code. Applied
// before capacity resolution.
var playingCardCeilings = map[types.ECLevel]int{
	types.ECLow:    1732,
	types.ECMedium: 1370,
	types.ECHigh:   742,
}

// ClampCapacity limits a requested capacity to what the page medium
// prints legibly. Returns the capacity and whether clamping occurred.
// Only the playing-card medium imposes a cap.
func ClampCapacity(size PageSize, requested int, level types.ECLevel) (int, bool) {
	ceiling, ok := playingCardCeilings[level]
	if size != PlayingCard || !ok || requested <= ceiling {
		return requested, false
	}
	return ceiling, true
}

// Constraint returns the physical legibility constraint for the page
// size, for capacity resolution: the printed image edge and the
// smallest module width that still scans reliably off paper.
func Constraint(size PageSize) *capacity.Physical {
	l := layoutFor(size)
	// Two points per module is the floor for consumer scanners at
	// print resolution.
	return &capacity.Physical{AvailableSize: l.imageSize, MinModuleSize: 2}
}

// Write lays the frame images out onto a PDF at pdfPath. title is the
// output name printed as the headline of every page; framePaths are
// the rendered images in index order.
func Write(pdfPath, title string, framePaths []string, size PageSize) error {
	if len(framePaths) == 0 {
		return fmt.Errorf("no frame images to lay out")
	}

	l := layoutFor(size)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: l.width, Ht: l.height},
	})
	pdf.SetAutoPageBreak(false, 0)

	total := len(framePaths)
	for i, path := range framePaths {
		slot := i % l.perPage
		if slot == 0 {
			pdf.AddPage()
			drawHeadline(pdf, l, title)
		}

		col := slot % l.perRow
		row := slot / l.perRow
		x := l.margin + float64(col)*(l.imageSize+l.margin)
		y := headlineBottom(l) + float64(row)*(l.imageSize+l.margin+labelHeight)

		// Label above each code: "i/n", one-based like the printed page.
		pdf.SetFont("Courier", "", 12)
		pdf.Text(x, y+10, fmt.Sprintf("%d/%d", i+1, total))

		pdf.ImageOptions(path, x, y+labelHeight, l.imageSize, l.imageSize, false,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("lay out pdf: %w", err)
	}
	if err := pdf.OutputFileAndClose(pdfPath); err != nil {
		return fmt.Errorf("write pdf %q: %w", pdfPath, err)
	}
	return nil
}

const labelHeight = 14.0

func drawHeadline(pdf *fpdf.Fpdf, l layout, title string) {
	pdf.SetFont("Courier", "B", 18)
	w := pdf.GetStringWidth(title)
	pdf.Text((l.width-w)/2, l.margin+14, title)
}

func headlineBottom(l layout) float64 {
	return l.margin + 18 + l.margin
}
