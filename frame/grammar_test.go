package frame

import (
	"errors"
	"testing"
)

func TestStripHeader_FullPrefix(t *testing.T) {
	meta, rest, err := StripHeader("b64::z:::f::report.pdf::/f::::c0::AAAA")
	if err != nil {
		t.Fatalf("StripHeader failed: %v", err)
	}
	if !meta.Binary {
		t.Error("Binary = false, want true")
	}
	if !meta.Archived {
		t.Error("Archived = false, want true")
	}
	if meta.Name != "report.pdf" {
		t.Errorf("Name = %q, want %q", meta.Name, "report.pdf")
	}
	if rest != "::c0::AAAA" {
		t.Errorf("rest = %q, want %q", rest, "::c0::AAAA")
	}
}

func TestStripHeader_MarkersOptional(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantBinary   bool
		wantArchived bool
		wantName     string
		wantRest     string
	}{
		{"no markers at all", "::c0::hello", false, false, "", "::c0::hello"},
		{"binary only", "b64:::f::a.bin::/f::::c0::QQ==", true, false, "a.bin", "::c0::QQ=="},
		{"filename only", "::f::notes.txt::/f::::c0::hi", false, false, "notes.txt", "::c0::hi"},
		{"empty filename", "::f::::/f::::c0::x", false, false, "", "::c0::x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, rest, err := StripHeader(tt.in)
			if err != nil {
				t.Fatalf("StripHeader failed: %v", err)
			}
			if meta.Binary != tt.wantBinary {
				t.Errorf("Binary = %v, want %v", meta.Binary, tt.wantBinary)
			}
			if meta.Archived != tt.wantArchived {
				t.Errorf("Archived = %v, want %v", meta.Archived, tt.wantArchived)
			}
			if meta.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", meta.Name, tt.wantName)
			}
			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestStripHeader_UnterminatedFilename(t *testing.T) {
	_, _, err := StripHeader("::f::broken.txt::c0::data")
	if err == nil {
		t.Fatal("expected error for unterminated filename header")
	}
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if fe.Kind != ErrorHeader {
		t.Errorf("Kind = %v, want ErrorHeader", fe.Kind)
	}
}

func TestStripIndex(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantIdx  int
		wantNil  bool
		wantRest string
	}{
		{"index zero", "::c0::payload", 0, false, "payload"},
		{"multi digit", "::c42::xy", 42, false, "xy"},
		{"no marker", "payload", 0, true, "payload"},
		{"empty digits", "::c::payload", 0, true, "::c::payload"},
		{"non-numeric", "::cab::payload", 0, true, "::cab::payload"},
		{"negative", "::c-1::payload", 0, true, "::c-1::payload"},
		{"marker only", "::c7::", 7, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, rest := StripIndex(tt.in)
			if tt.wantNil {
				if idx != nil {
					t.Errorf("idx = %d, want nil", *idx)
				}
			} else {
				if idx == nil {
					t.Fatal("idx = nil, want value")
				}
				if *idx != tt.wantIdx {
					t.Errorf("idx = %d, want %d", *idx, tt.wantIdx)
				}
			}
			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestParse_FirstFrame(t *testing.T) {
	f, err := Parse("b64:::f::img.png::/f::::c0::iVBOR", true)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !f.Binary {
		t.Error("Binary = false, want true")
	}
	if f.Name != "img.png" {
		t.Errorf("Name = %q, want %q", f.Name, "img.png")
	}
	if f.Declared == nil || *f.Declared != 0 {
		t.Errorf("Declared = %v, want 0", f.Declared)
	}
	if f.Payload != "iVBOR" {
		t.Errorf("Payload = %q, want %q", f.Payload, "iVBOR")
	}
}

func TestParse_LaterFrame(t *testing.T) {
	f, err := Parse("::c3::chunk", false)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if f.Declared == nil || *f.Declared != 3 {
		t.Errorf("Declared = %v, want 3", f.Declared)
	}
	if f.Payload != "chunk" {
		t.Errorf("Payload = %q, want %q", f.Payload, "chunk")
	}
}
