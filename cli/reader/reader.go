package reader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/qrdrive-io/qrdrive/frame"
	"github.com/qrdrive-io/qrdrive/qrc"
	"github.com/qrdrive-io/qrdrive/store"
)

// InspectManifest reads the manifest sidecar for a stored frame set.
func InspectManifest(ctx context.Context, st store.Store, base string) (*InspectManifestResponse, error) {
	m, err := st.ReadManifest(ctx, base)
	if err != nil {
		return nil, err
	}
	return &InspectManifestResponse{
		Name:      m.Name,
		Frames:    m.Frames,
		Capacity:  m.Capacity,
		Tier:      m.Tier,
		Level:     string(m.Level),
		Binary:    m.Binary,
		Archived:  m.Archived,
		CreatedAt: m.CreatedAt,
	}, nil
}

// InspectFrame decodes one encoded frame image and reports what the
// payload declares. The header is parsed only when present, so the
// same call works for frame 0 and later frames.
func InspectFrame(path string) (*InspectFrameResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read frame image %q: %w", path, err)
	}

	payloads, err := qrc.DecodePNG(data)
	if err != nil {
		return nil, err
	}

	resp := &InspectFrameResponse{Path: path, Payloads: len(payloads)}
	if len(payloads) != 1 {
		return resp, nil
	}

	hasHeader := strings.HasPrefix(payloads[0], frame.MarkerBase64) ||
		strings.HasPrefix(payloads[0], frame.MarkerArchive) ||
		strings.HasPrefix(payloads[0], frame.MarkerFileOpen)
	f, err := frame.Parse(payloads[0], hasHeader)
	if err != nil {
		return nil, err
	}

	resp.Declared = f.Declared
	resp.Name = f.Name
	resp.Binary = f.Binary
	resp.Archived = f.Archived
	resp.SliceBytes = len(f.Payload)
	return resp, nil
}

// ListFrames lists the frame files of a stored set under dir, sorted
// by index. An empty base lists every frame file in the directory.
func ListFrames(dir, base string) ([]ListFrameItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame directory %q: %w", dir, err)
	}

	var items []ListFrameItem
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, idx, ok := ParseFrameName(e.Name())
		if !ok || (base != "" && b != base) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, ListFrameItem{
			Index: idx,
			Path:  filepath.Join(dir, e.Name()),
			Bytes: info.Size(),
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Index < items[j].Index })
	return items, nil
}
