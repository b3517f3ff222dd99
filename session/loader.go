package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/qrdrive-io/qrdrive/assemble"
	"github.com/qrdrive-io/qrdrive/log"
	"github.com/qrdrive-io/qrdrive/metrics"
	"github.com/qrdrive-io/qrdrive/notify"
	"github.com/qrdrive-io/qrdrive/types"
)

// LoaderConfig configures a decode session.
type LoaderConfig struct {
	// Source supplies frames (required).
	Source Source
	// NameOverride replaces the base of the embedded output name.
	NameOverride string
	// OutDir is the directory the output file is written to. Empty
	// means the current directory.
	OutDir string
	// Decider resolves ambiguous frames (required for non-strict
	// sources; strict sources never ask).
	Decider Decider
	// Mode labels the session (load for enumerated sources, scan for
	// capture). Zero defaults by source strictness.
	Mode types.SessionMode
	// ExpectedFrames is the frame count a manifest sidecar declares for
	// the set, when one exists. The assembled count is validated against
	// it before materializing. Nil disables the check; frame sets
	// without a manifest are normal.
	ExpectedFrames *int
	// Collector receives session metrics. Nil disables collection.
	Collector *metrics.Collector
	// Notifier publishes the completion event. Nil disables
	// notification.
	Notifier notify.Notifier
}

// LoadResult is the outcome of a decode session.
type LoadResult struct {
	Meta types.SessionMeta
	// Path is the final output path.
	Path string
	// Extracted lists unpacked files for archived streams.
	Extracted []string
	// Frames is the number of frames accepted.
	Frames int
	// Bytes is the decoded output size.
	Bytes int
	// Binary and Archived are the header flags learned from frame 0.
	Binary   bool
	Archived bool
}

// Loader runs one decode session.
type Loader struct {
	config LoaderConfig
	meta   types.SessionMeta
	logger *log.Logger
}

// NewLoader creates a decode session.
func NewLoader(cfg LoaderConfig) (*Loader, error) {
	if cfg.Source == nil {
		return nil, errors.New("loader requires a source")
	}
	if cfg.Decider == nil && !cfg.Source.Strict() {
		return nil, errors.New("loader requires a decider for unordered sources")
	}

	mode := cfg.Mode
	if mode == "" {
		mode = types.ModeScan
		if cfg.Source.Strict() {
			mode = types.ModeLoad
		}
	}

	meta := newMeta(mode)
	return &Loader{
		config: cfg,
		meta:   meta,
		logger: log.NewLogger(meta),
	}, nil
}

// Meta returns the session identity.
func (l *Loader) Meta() types.SessionMeta { return l.meta }

// Execute consumes frames until the source is exhausted, then
// materializes the output. A missing frame 0 is fatal; later gaps end
// the session normally. Ambiguous frames suspend on the Decider until
// a decision arrives; a rejected frame is retried at the same arrival
// position with the source's next offering.
func (l *Loader) Execute(ctx context.Context) (*LoadResult, error) {
	asm := assemble.New(assemble.Options{
		NameOverride: l.config.NameOverride,
		Strict:       l.config.Source.Strict(),
	})

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pos := asm.Position()
		raw, ok, err := l.config.Source.Next(ctx, pos)
		if err != nil {
			l.config.Collector.IncStoreReadFailure()
			return nil, err
		}
		if !ok {
			if pos == 0 {
				return nil, fmt.Errorf("%w: no frame at index 0", ErrInputNotFound)
			}
			break
		}
		l.config.Collector.IncStoreReadSuccess()

		pending, err := asm.Offer(raw)
		if err != nil {
			if errors.Is(err, assemble.ErrIndexMismatch) {
				l.config.Collector.IncIndexMismatch()
			}
			return nil, fmt.Errorf("frame at position %d: %w", pos, err)
		}
		if pending == nil {
			l.config.Collector.IncFrameDecoded()
			continue
		}

		// Ambiguous frame: suspend on the decision boundary.
		if !pending.NoCount {
			l.config.Collector.IncIndexMismatch()
		}
		l.logger.Warn("frame needs a decision", map[string]any{
			"position": pending.Position,
			"declared": declaredField(pending),
			"no_count": pending.NoCount,
		})

		decision, err := l.config.Decider.Decide(ctx, *pending)
		if err != nil {
			return nil, fmt.Errorf("decision for position %d: %w", pos, err)
		}
		if err := asm.Resolve(decision); err != nil {
			return nil, err
		}
		if decision == assemble.DecisionAccept {
			l.config.Collector.IncFrameDecoded()
		} else {
			l.config.Collector.IncDecodeRetry()
			l.logger.Info("frame rejected, retrying position", map[string]any{
				"position": pos,
			})
		}
	}

	res, err := asm.Complete()
	if err != nil {
		return nil, err
	}

	if want := l.config.ExpectedFrames; want != nil && res.Frames != *want {
		return nil, fmt.Errorf("%w: assembled %d, manifest declares %d",
			ErrFrameCountMismatch, res.Frames, *want)
	}

	out, err := assemble.Materialize(res, l.config.OutDir)
	if err != nil {
		return nil, err
	}
	l.config.Collector.AddBytesOut(int64(out.Bytes))

	l.logger.Info("output materialized", map[string]any{
		"path":   out.Path,
		"frames": res.Frames,
		"bytes":  out.Bytes,
	})

	result := &LoadResult{
		Meta:      l.meta,
		Path:      out.Path,
		Extracted: out.Extracted,
		Frames:    res.Frames,
		Bytes:     out.Bytes,
		Binary:    res.Binary,
		Archived:  res.Archived,
	}
	l.publish(ctx, result)
	return result, nil
}

func declaredField(p *assemble.Pending) any {
	if p.Declared == nil {
		return nil
	}
	return *p.Declared
}

// publish sends the completion event, best effort.
func (l *Loader) publish(ctx context.Context, res *LoadResult) {
	if l.config.Notifier == nil {
		return
	}
	event := notify.NewEvent(l.meta, "success", res.Frames, res.Bytes, res.Path)
	if err := l.config.Notifier.Publish(ctx, event); err != nil {
		l.logger.Warn("completion notification failed", map[string]any{
			"error": err.Error(),
		})
	}
}
