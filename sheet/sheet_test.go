package sheet

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/qrdrive-io/qrdrive/types"
)

func TestParsePageSize(t *testing.T) {
	tests := []struct {
		in      string
		want    PageSize
		wantErr bool
	}{
		{in: "letter", want: Letter},
		{in: "Letter", want: Letter},
		{in: "index", want: IndexCard},
		{in: "index_card", want: IndexCard},
		{in: "playing_card", want: PlayingCard},
		{in: "a4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePageSize(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePageSize(%q) = nil error, want error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePageSize(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePageSize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampCapacity(t *testing.T) {
	tests := []struct {
		name      string
		size      PageSize
		req       int
		level     types.ECLevel
		want      int
		wantClamp bool
	}{
		{"playing card low", PlayingCard, 2900, types.ECLow, 1732, true},
		{"playing card medium", PlayingCard, 2331, types.ECMedium, 1370, true},
		{"playing card high", PlayingCard, 1273, types.ECHigh, 742, true},
		{"playing card under ceiling", PlayingCard, 500, types.ECLow, 500, false},
		{"letter unclamped", Letter, 2900, types.ECLow, 2900, false},
		{"index unclamped", IndexCard, 2900, types.ECHigh, 2900, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := ClampCapacity(tt.size, tt.req, tt.level)
			if got != tt.want {
				t.Errorf("ClampCapacity() = %d, want %d", got, tt.want)
			}
			if clamped != tt.wantClamp {
				t.Errorf("clamped = %v, want %v", clamped, tt.wantClamp)
			}
		})
	}
}

func TestConstraint(t *testing.T) {
	for _, size := range []PageSize{Letter, IndexCard, PlayingCard} {
		c := Constraint(size)
		if c == nil || c.AvailableSize <= 0 || c.MinModuleSize <= 0 {
			t.Errorf("Constraint(%q) = %+v, want positive sizes", size, c)
		}
	}
	if Constraint(Letter).AvailableSize <= Constraint(PlayingCard).AvailableSize {
		t.Error("letter print area not larger than playing card")
	}
}

// writeTestPNG writes a small solid PNG standing in for a rendered frame.
func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	img.Set(1, 1, color.Black)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 5; i++ {
		p := filepath.Join(dir, "frame.png")
		if i > 0 {
			p = filepath.Join(dir, "frame2.png")
		}
		writeTestPNG(t, p)
		paths = append(paths, p)
	}

	for _, size := range []PageSize{Letter, IndexCard, PlayingCard} {
		t.Run(string(size), func(t *testing.T) {
			out := filepath.Join(dir, string(size)+".pdf")
			if err := Write(out, "notes.txt", paths, size); err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("ReadFile() error: %v", err)
			}
			if !bytes.HasPrefix(data, []byte("%PDF")) {
				t.Errorf("output is not a PDF (starts % x)", data[:4])
			}
		})
	}
}

func TestWrite_NoFrames(t *testing.T) {
	if err := Write(filepath.Join(t.TempDir(), "x.pdf"), "x", nil, Letter); err == nil {
		t.Error("Write() = nil error for empty frame list")
	}
}
