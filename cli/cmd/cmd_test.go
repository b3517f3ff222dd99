package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/qrdrive-io/qrdrive/qrc"
	"github.com/qrdrive-io/qrdrive/session"
	"github.com/qrdrive-io/qrdrive/store"
)

// testApp builds an app with the session commands and a no-op exit
// handler so cli.Exit does not terminate the test process.
func testApp() *cli.App {
	return &cli.App{
		Name:           "qrdrive",
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			SaveCommand(),
			LoadCommand(),
			ScanCommand(),
			InspectCommand(),
			ListCommand(),
			VersionCommand("", "test"),
		},
	}
}

func TestExitCode(t *testing.T) {
	storageErr := &store.StorageError{Kind: store.ErrDiskFull, Op: "write_frame", Err: errors.New("boom")}
	codecErr := &qrc.CodecError{Op: "encode", Err: errors.New("content too long")}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitSuccess},
		{"storage", storageErr, exitStorageError},
		{"wrapped storage", fmt.Errorf("store frame 3: %w", storageErr), exitStorageError},
		{"codec", codecErr, exitCodecError},
		{"wrapped codec", fmt.Errorf("render frame 0: %w", codecErr), exitCodecError},
		{"ambiguous decode", fmt.Errorf("x: %w", session.ErrDecodeAmbiguous), exitCodecError},
		{"input not found", session.ErrInputNotFound, exitInputError},
		{"aborted", session.ErrAborted, exitInputError},
		{"plain", errors.New("anything else"), exitInputError},
	}

	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("%s: exitCode() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestPick(t *testing.T) {
	if got := pick("flag", "config"); got != "flag" {
		t.Errorf("pick() = %q, want flag", got)
	}
	if got := pick("", "config"); got != "config" {
		t.Errorf("pick() = %q, want config", got)
	}
	if got := pickInt(0, 520); got != 520 {
		t.Errorf("pickInt() = %d, want 520", got)
	}
	if got := pickInt(100, 520); got != 100 {
		t.Errorf("pickInt() = %d, want 100", got)
	}
}

func TestLoadConfig_ExplicitMissingIsError(t *testing.T) {
	app := testApp()
	err := app.Run([]string{"qrdrive", "save", "--config", "/nonexistent/qrdrive.yaml", "--yes", "x.txt"})
	if err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestBuildStore_UnknownBackend(t *testing.T) {
	app := testApp()
	err := app.Run([]string{"qrdrive", "load", "--backend", "ftp", "base.txt"})
	if err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	chdir(t, t.TempDir())

	content := []byte("command line round trip content")
	src := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	frameDir := t.TempDir()
	outDir := t.TempDir()
	app := testApp()

	err := app.Run([]string{"qrdrive", "save", "--yes", "--quiet",
		"--backend", "fs", "--path", frameDir, "--capacity", "106", src})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(frameDir, "notes.txt.0.png")); err != nil {
		t.Fatalf("frame 0 not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(frameDir, "notes.txt.manifest.mp")); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}

	err = app.Run([]string{"qrdrive", "load", "--quiet",
		"--backend", "fs", "--path", frameDir, "--out", outDir, "notes.txt"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(outDir, "notes.txt"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("output = %q, want %q", got, content)
	}
}

func TestLoad_TruncatedSetFailsManifestCheck(t *testing.T) {
	chdir(t, t.TempDir())

	src := filepath.Join(t.TempDir(), "ledger.txt")
	content := []byte("enough content to need more than one frame at capacity 106, padded out a bit further")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	frameDir := t.TempDir()
	app := testApp()
	err := app.Run([]string{"qrdrive", "save", "--yes", "--quiet",
		"--backend", "fs", "--path", frameDir, "--capacity", "106", src})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	frames, err := filepath.Glob(filepath.Join(frameDir, "ledger.txt.*.png"))
	if err != nil || len(frames) < 2 {
		t.Fatalf("want >= 2 frames, have %d (%v)", len(frames), err)
	}
	// Drop the last frame; the manifest still declares the full count.
	if err := os.Remove(frames[len(frames)-1]); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}

	err = app.Run([]string{"qrdrive", "load", "--quiet",
		"--backend", "fs", "--path", frameDir, "--out", t.TempDir(), "ledger.txt"})
	var coder cli.ExitCoder
	if !errors.As(err, &coder) || coder.ExitCode() != exitInputError {
		t.Errorf("err = %v, want exit code %d", err, exitInputError)
	}
}

func TestSave_PageModeWritesPDF(t *testing.T) {
	chdir(t, t.TempDir())

	src := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(src, []byte("pdf content"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	outDir := t.TempDir()
	app := testApp()
	err := app.Run([]string{"qrdrive", "save", "--yes", "--quiet",
		"--page", "letter", "--out", outDir, src})
	if err != nil {
		t.Fatalf("save --page: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "doc.txt.pdf"))
	if err != nil {
		t.Fatalf("pdf not written: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		t.Error("output is not a PDF")
	}
}

func TestSave_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	app := testApp()
	err := app.Run([]string{"qrdrive", "save", "--yes", "--quiet",
		"--backend", "fs", "--path", t.TempDir(), "/nonexistent/ghost.txt"})

	var coder cli.ExitCoder
	if !errors.As(err, &coder) || coder.ExitCode() != exitInputError {
		t.Errorf("err = %v, want exit code %d", err, exitInputError)
	}
}

func TestScan_AutoAcceptRoundTrip(t *testing.T) {
	chdir(t, t.TempDir())

	content := []byte("scanned back from images")
	src := filepath.Join(t.TempDir(), "memo.txt")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	frameDir := t.TempDir()
	outDir := t.TempDir()
	app := testApp()

	err := app.Run([]string{"qrdrive", "save", "--yes", "--quiet",
		"--backend", "fs", "--path", frameDir, "--capacity", "106", src})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	frames, err := filepath.Glob(filepath.Join(frameDir, "memo.txt.*.png"))
	if err != nil || len(frames) == 0 {
		t.Fatalf("no frames found: %v", err)
	}
	// Glob order is lexical; with < 10 frames that matches index order.
	args := append([]string{"qrdrive", "scan", "--quiet", "--auto-accept", "--out", outDir}, frames...)
	if err := app.Run(args); err != nil {
		t.Fatalf("scan: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(outDir, "memo.txt"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("output = %q, want %q", got, content)
	}
}

func TestCommandWiring(t *testing.T) {
	app := testApp()
	for _, name := range []string{"save", "load", "scan", "inspect", "list", "version"} {
		if app.Command(name) == nil {
			t.Errorf("command %q not registered", name)
		}
	}
}

// chdir changes the working directory for the duration of the test,
// restoring the original directory on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("Chdir() restore error: %v", err)
		}
	})
}
