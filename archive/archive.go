// Package archive packs one logical file into a single-entry zip
// archive and unpacks it again. Multi-file archives are out of scope:
// a frame set carries exactly one logical file per FORMAT.md.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qrdrive-io/qrdrive/iox"
)

// Ext is the conventional archive extension appended to output names
// before unpacking.
const Ext = ".zip"

// ErrEmptyArchive indicates an archive with no entries.
var ErrEmptyArchive = errors.New("archive contains no entries")

// Pack wraps content into a zip archive with a single entry named name.
func Pack(name string, content []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	entry, err := w.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create archive entry %q: %w", name, err)
	}
	if _, err := entry.Write(content); err != nil {
		return nil, fmt.Errorf("write archive entry %q: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Unpack extracts every entry of the archive at srcPath into destDir
// and returns the extracted paths. Entry names are flattened to their
// basename so a hostile archive cannot escape destDir.
func Unpack(srcPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open archive %q: %w", srcPath, err)
	}
	defer iox.DiscardClose(r)

	if len(r.File) == 0 {
		return nil, ErrEmptyArchive
	}

	var extracted []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		out := filepath.Join(destDir, sanitizeName(f.Name))
		if err := extractEntry(f, out); err != nil {
			return extracted, err
		}
		extracted = append(extracted, out)
	}
	if len(extracted) == 0 {
		return nil, ErrEmptyArchive
	}
	return extracted, nil
}

func extractEntry(f *zip.File, out string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %q: %w", f.Name, err)
	}
	defer iox.DiscardClose(rc)

	dst, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %q: %w", out, err)
	}
	if _, err := io.Copy(dst, rc); err != nil {
		_ = dst.Close()
		return fmt.Errorf("extract %q: %w", f.Name, err)
	}
	return dst.Close()
}

// sanitizeName strips directories and parent references from an entry
// name.
func sanitizeName(name string) string {
	name = filepath.Base(filepath.Clean(name))
	if name == "." || name == ".." || strings.HasPrefix(name, "..") {
		return "entry"
	}
	return name
}
