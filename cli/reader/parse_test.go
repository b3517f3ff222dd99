package reader

import "testing"

func TestParseFrameName(t *testing.T) {
	tests := []struct {
		filename  string
		wantBase  string
		wantIndex int
		wantOK    bool
	}{
		{"notes.txt.0.png", "notes.txt", 0, true},
		{"notes.txt.12.png", "notes.txt", 12, true},
		{"archive.zip.3.png", "archive.zip", 3, true},
		{"dotted.name.tar.gz.7.png", "dotted.name.tar.gz", 7, true},
		{"noindex.png", "", 0, false},
		{"notes.txt.-1.png", "", 0, false},
		{"notes.txt.abc.png", "", 0, false},
		{"notes.txt.0.jpg", "", 0, false},
		{"notes.txt.manifest.mp", "", 0, false},
		{".0.png", "", 0, false},
		{"", "", 0, false},
	}

	for _, tt := range tests {
		base, index, ok := ParseFrameName(tt.filename)
		if ok != tt.wantOK {
			t.Errorf("ParseFrameName(%q) ok = %v, want %v", tt.filename, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if base != tt.wantBase || index != tt.wantIndex {
			t.Errorf("ParseFrameName(%q) = (%q, %d), want (%q, %d)",
				tt.filename, base, index, tt.wantBase, tt.wantIndex)
		}
	}
}
