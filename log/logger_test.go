package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/qrdrive-io/qrdrive/types"
)

func TestLogger_SessionContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(types.SessionMeta{SessionID: "sess-001", Mode: types.ModeSave}).WithOutput(&buf)

	l.Info("frames written", map[string]any{"frames": 3})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["session_id"] != "sess-001" {
		t.Errorf("session_id = %v, want sess-001", entry["session_id"])
	}
	if entry["mode"] != "save" {
		t.Errorf("mode = %v, want save", entry["mode"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if entry["message"] != "frames written" {
		t.Errorf("message = %v, want %q", entry["message"], "frames written")
	}
}

func TestSugaredLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(types.SessionMeta{SessionID: "sess-002", Mode: types.ModeScan}).WithOutput(&buf)

	l.Sugar().Infof("decoded %d of %d", 2, 5)

	if !strings.Contains(buf.String(), "decoded 2 of 5") {
		t.Errorf("sugared output missing formatted message: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "sess-002") {
		t.Errorf("sugared output missing session context: %q", buf.String())
	}
}
