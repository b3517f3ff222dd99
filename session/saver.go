package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qrdrive-io/qrdrive/capacity"
	"github.com/qrdrive-io/qrdrive/frame"
	"github.com/qrdrive-io/qrdrive/log"
	"github.com/qrdrive-io/qrdrive/metrics"
	"github.com/qrdrive-io/qrdrive/notify"
	"github.com/qrdrive-io/qrdrive/store"
	"github.com/qrdrive-io/qrdrive/types"
)

// SaverConfig configures an encode session.
type SaverConfig struct {
	// SourcePath is the file to encode (required).
	SourcePath string
	// NameOverride replaces the base of the embedded output name; the
	// source file's extension is kept.
	NameOverride string
	// Capacity is the requested bytes-per-frame bound.
	Capacity int
	// Level is the error-correction strength.
	Level types.ECLevel
	// Archive zip-wraps the file before framing.
	Archive bool
	// Physical is the optional print-medium legibility constraint.
	Physical *capacity.Physical
	// ForceCapacity suppresses the physical downgrade.
	ForceCapacity bool
	// Store receives the rendered frames and manifest (required).
	Store store.Store
	// Codec renders frame text to images (required).
	Codec Codec
	// Confirm, when set, is asked once with the frame count before
	// anything is written; returning false aborts the session.
	Confirm func(frames int) bool
	// Collector receives session metrics. Nil disables collection.
	Collector *metrics.Collector
	// Notifier publishes the completion event. Nil disables
	// notification.
	Notifier notify.Notifier
}

// SaveResult is the outcome of an encode session.
type SaveResult struct {
	Meta types.SessionMeta
	// Base is the output base name the frames were stored under.
	Base string
	// Frames is the number of frames written.
	Frames int
	// Capacity and Tier are the resolved values actually used.
	Capacity int
	Tier     int
	// Clamped and Downgraded report capacity adjustments.
	Clamped    bool
	Downgraded bool
	// Binary and Archived are the header flags of the stream.
	Binary   bool
	Archived bool
	// Bytes is the source file size.
	Bytes int64
}

// Saver runs one encode session.
type Saver struct {
	config SaverConfig
	meta   types.SessionMeta
	logger *log.Logger
}

// NewSaver creates an encode session.
func NewSaver(cfg SaverConfig) (*Saver, error) {
	if cfg.SourcePath == "" {
		return nil, errors.New("saver requires a source path")
	}
	if cfg.Store == nil {
		return nil, errors.New("saver requires a store")
	}
	if cfg.Codec == nil {
		return nil, errors.New("saver requires a codec")
	}
	if !cfg.Level.Valid() {
		return nil, fmt.Errorf("invalid error-correction level: %q", cfg.Level)
	}
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", cfg.Capacity)
	}

	meta := newMeta(types.ModeSave)
	return &Saver{
		config: cfg,
		meta:   meta,
		logger: log.NewLogger(meta),
	}, nil
}

// Meta returns the session identity.
func (s *Saver) Meta() types.SessionMeta { return s.meta }

// Execute runs the session end to end: resolve capacity, slice the
// file into frames, render each frame, and persist frames plus
// manifest. Nothing is written when the confirmation callback
// declines.
func (s *Saver) Execute(ctx context.Context) (*SaveResult, error) {
	content, err := os.ReadFile(s.config.SourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, s.config.SourcePath)
		}
		return nil, fmt.Errorf("read source %q: %w", s.config.SourcePath, err)
	}
	s.config.Collector.AddBytesIn(int64(len(content)))

	base := s.outputBase()
	res := capacity.Resolve(s.config.Capacity, s.config.Level, s.config.Physical, s.config.ForceCapacity)
	if res.Clamped {
		s.logger.Warn("capacity clamped to level ceiling", map[string]any{
			"requested": s.config.Capacity,
			"effective": res.Capacity,
			"level":     string(s.config.Level),
		})
	}
	if res.Downgraded {
		s.logger.Warn("capacity downgraded for print legibility", map[string]any{
			"effective": res.Capacity,
			"tier":      res.Tier,
		})
	}

	frames, meta, err := frame.Encode(content, base, res.Capacity, s.config.Archive)
	if err != nil {
		return nil, fmt.Errorf("encode frames: %w", err)
	}

	s.logger.Info("encoded stream", map[string]any{
		"frames":   len(frames),
		"capacity": res.Capacity,
		"tier":     res.Tier,
		"binary":   meta.Binary,
		"archived": meta.Archived,
	})

	if s.config.Confirm != nil && !s.config.Confirm(len(frames)) {
		return nil, ErrAborted
	}

	for i, f := range frames {
		img, err := s.config.Codec.Encode(f, s.config.Level, res.Tier)
		if err != nil {
			return nil, fmt.Errorf("render frame %d: %w", i, err)
		}
		if err := s.config.Store.WriteFrame(ctx, base, i, img); err != nil {
			s.config.Collector.IncStoreWriteFailure()
			return nil, fmt.Errorf("store frame %d: %w", i, err)
		}
		s.config.Collector.IncStoreWriteSuccess()
		s.config.Collector.IncFrameEncoded()
	}

	manifest := store.NewManifest(base, len(frames), res.Capacity, res.Tier,
		s.config.Level, meta.Binary, meta.Archived)
	if err := s.config.Store.WriteManifest(ctx, base, manifest); err != nil {
		s.config.Collector.IncStoreWriteFailure()
		return nil, fmt.Errorf("store manifest: %w", err)
	}
	s.config.Collector.IncStoreWriteSuccess()

	result := &SaveResult{
		Meta:       s.meta,
		Base:       base,
		Frames:     len(frames),
		Capacity:   res.Capacity,
		Tier:       res.Tier,
		Clamped:    res.Clamped,
		Downgraded: res.Downgraded,
		Binary:     meta.Binary,
		Archived:   meta.Archived,
		Bytes:      int64(len(content)),
	}
	s.publish(ctx, result)
	return result, nil
}

// outputBase resolves the base name frames are embedded with and
// stored under: the override keeps the source extension, matching the
// name resolution on the decode side.
func (s *Saver) outputBase() string {
	base := filepath.Base(s.config.SourcePath)
	if s.config.NameOverride == "" {
		return base
	}
	return s.config.NameOverride + filepath.Ext(base)
}

// publish sends the completion event, best effort.
func (s *Saver) publish(ctx context.Context, res *SaveResult) {
	if s.config.Notifier == nil {
		return
	}
	event := notify.NewEvent(s.meta, "success", res.Frames, int(res.Bytes),
		store.FrameName(res.Base, 0))
	if err := s.config.Notifier.Publish(ctx, event); err != nil {
		s.logger.Warn("completion notification failed", map[string]any{
			"error": err.Error(),
		})
	}
}
