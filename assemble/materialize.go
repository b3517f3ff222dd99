package assemble

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qrdrive-io/qrdrive/archive"
)

// fallbackName is used when neither frame 0 nor the caller supplied an
// output name.
const fallbackName = "unknownfile.txt"

// Output describes the materialized file(s).
type Output struct {
	// Path is the final output path. For archived streams this is the
	// first extracted file.
	Path string
	// Bytes is the size of the decoded logical stream.
	Bytes int
	// Extracted lists every file unpacked from an archived stream.
	// Nil for plain streams.
	Extracted []string
}

// Materialize reverses the content transforms of a completed session
// and writes the final bytes under destDir.
//
// Binary payloads are base64-decoded first. Archived payloads are
// written under the archive extension, unpacked in place, and the
// intermediate archive removed; on unpack failure the archive file is
// retained and ErrUnpackFailed returned.
func Materialize(res Result, destDir string) (*Output, error) {
	name := res.Name
	if name == "" {
		name = fallbackName
	}

	var data []byte
	if res.Binary {
		decoded, err := base64.StdEncoding.DecodeString(res.Payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
		}
		data = decoded
	} else {
		data = []byte(res.Payload)
	}

	if res.Archived {
		return unpackArchive(name, data, destDir)
	}

	path := filepath.Join(destDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write output %q: %w", path, err)
	}
	return &Output{Path: path, Bytes: len(data)}, nil
}

func unpackArchive(name string, data []byte, destDir string) (*Output, error) {
	archivePath := filepath.Join(destDir, name+archive.Ext)
	if err := os.WriteFile(archivePath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write archive %q: %w", archivePath, err)
	}

	extracted, err := archive.Unpack(archivePath, destDir)
	if err != nil {
		// Retain the archive so the user can unpack it by hand.
		return nil, fmt.Errorf("%w: %s: %v", ErrUnpackFailed, archivePath, err)
	}
	_ = os.Remove(archivePath)

	return &Output{Path: extracted[0], Bytes: len(data), Extracted: extracted}, nil
}
