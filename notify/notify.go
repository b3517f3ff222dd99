// Package notify publishes session completion events to downstream
// systems. Notification is best-effort: a publish failure is logged by
// the caller and never changes the session outcome.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/qrdrive-io/qrdrive/types"
)

// SessionCompletedEvent is the payload published when a session
// finishes.
type SessionCompletedEvent struct {
	FormatVersion string `json:"format_version"`
	EventType     string `json:"event_type"` // always "session_completed"
	SessionID     string `json:"session_id"`
	Mode          string `json:"mode"` // save, load, scan
	Outcome       string `json:"outcome"`
	Frames        int    `json:"frames"`
	Bytes         int    `json:"bytes"`
	OutputPath    string `json:"output_path,omitempty"`
	Timestamp     string `json:"timestamp"` // RFC 3339
}

// NewEvent builds a completion event for a session.
func NewEvent(meta types.SessionMeta, outcome string, frames, bytes int, outputPath string) *SessionCompletedEvent {
	return &SessionCompletedEvent{
		FormatVersion: types.Version,
		EventType:     "session_completed",
		SessionID:     meta.SessionID,
		Mode:          string(meta.Mode),
		Outcome:       outcome,
		Frames:        frames,
		Bytes:         bytes,
		OutputPath:    outputPath,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
}

// Notifier publishes session completion events to a downstream system.
// Implementations must be safe for single-use per session.
type Notifier interface {
	// Publish sends a session completion event. Must respect context
	// cancellation and deadlines.
	Publish(ctx context.Context, event *SessionCompletedEvent) error

	// Close releases notifier resources.
	Close() error
}

// Config selects and configures a notifier. Zero Type means none.
type Config struct {
	// Type is "webhook" or "redis".
	Type string
	// URL is the webhook endpoint or Redis connection URL.
	URL string
	// Channel is the Redis pub/sub channel (redis only).
	Channel string
	// Headers are custom HTTP headers (webhook only).
	Headers map[string]string
	// Timeout is the per-publish timeout.
	Timeout time.Duration
	// Retries is the number of retry attempts. Nil uses the notifier
	// default.
	Retries *int
}

// New builds a notifier from config. A zero Type returns (nil, nil):
// notification is optional.
func New(cfg Config) (Notifier, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case "webhook":
		wcfg := WebhookConfig{
			URL:     cfg.URL,
			Headers: cfg.Headers,
			Timeout: cfg.Timeout,
			Retries: DefaultRetries,
		}
		if cfg.Retries != nil {
			wcfg.Retries = *cfg.Retries
		}
		return NewWebhook(wcfg)
	case "redis":
		rcfg := RedisConfig{
			URL:     cfg.URL,
			Channel: cfg.Channel,
			Timeout: cfg.Timeout,
			Retries: DefaultRetries,
		}
		if cfg.Retries != nil {
			rcfg.Retries = *cfg.Retries
		}
		return NewRedis(rcfg)
	default:
		return nil, fmt.Errorf("unknown notifier type: %q (must be webhook or redis)", cfg.Type)
	}
}

// DefaultRetries is the default number of retry attempts for both
// notifier backends.
const DefaultRetries = 3

// backoff returns the exponential delay before retry attempt i (1-based).
func backoff(i int) time.Duration {
	return time.Duration(1<<uint(i-1)) * 500 * time.Millisecond
}
