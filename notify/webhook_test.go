package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/qrdrive-io/qrdrive/iox"
	"github.com/qrdrive-io/qrdrive/types"
)

func testEvent() *SessionCompletedEvent {
	return &SessionCompletedEvent{
		FormatVersion: types.Version,
		EventType:     "session_completed",
		SessionID:     "sess-001",
		Mode:          "save",
		Outcome:       "success",
		Frames:        4,
		Bytes:         9000,
		OutputPath:    "frames/notes.txt.0.png",
		Timestamp:     "2026-08-24T12:00:00Z",
	}
}

func TestWebhookPublish_Success(t *testing.T) {
	var received SessionCompletedEvent
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	n, err := NewWebhook(WebhookConfig{URL: ts.URL, Retries: 0})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(n)

	if err := n.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if received.SessionID != "sess-001" {
		t.Errorf("expected sess-001, got %s", received.SessionID)
	}
	if received.EventType != "session_completed" {
		t.Errorf("expected session_completed, got %s", received.EventType)
	}
	if received.Frames != 4 {
		t.Errorf("expected 4 frames, got %d", received.Frames)
	}
}

func TestWebhookPublish_CustomHeaders(t *testing.T) {
	var authHeader string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	n, err := NewWebhook(WebhookConfig{
		URL:     ts.URL,
		Headers: map[string]string{"Authorization": "Bearer test-token"},
		Retries: 0,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(n)

	if err := n.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if authHeader != "Bearer test-token" {
		t.Errorf("expected Bearer test-token, got %s", authHeader)
	}
}

func TestWebhookPublish_RetriesOnFailure(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := attempts.Add(1)
		if n < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	n, err := NewWebhook(WebhookConfig{URL: ts.URL, Retries: 3, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(n)

	if err := n.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish should succeed after retries: %v", err)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestWebhookPublish_4xxNotRetried(t *testing.T) {
	var attempts atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	n, err := NewWebhook(WebhookConfig{URL: ts.URL, Retries: 3})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(n)

	err = n.Publish(context.Background(), testEvent())
	if err == nil {
		t.Fatal("publish should fail on 4xx")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusBadRequest {
		t.Errorf("expected StatusError 400, got %v", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("expected 1 attempt (no retries on 4xx), got %d", got)
	}
}

func TestWebhookPublish_ContextCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	n, err := NewWebhook(WebhookConfig{URL: ts.URL, Retries: 5})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer iox.DiscardClose(n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Publish(ctx, testEvent()); err == nil {
		t.Fatal("publish should fail with canceled context")
	}
}

func TestNewWebhook_Validation(t *testing.T) {
	if _, err := NewWebhook(WebhookConfig{}); err == nil {
		t.Error("expected error for missing URL")
	}
	if _, err := NewWebhook(WebhookConfig{URL: "http://x", Retries: -1}); err == nil {
		t.Error("expected error for negative retries")
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	n, err := New(Config{})
	if err != nil || n != nil {
		t.Errorf("New(zero) = (%v, %v), want (nil, nil)", n, err)
	}

	if _, err := New(Config{Type: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown type")
	}

	n, err = New(Config{Type: "webhook", URL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("New(webhook) error: %v", err)
	}
	if _, ok := n.(*Webhook); !ok {
		t.Errorf("New(webhook) = %T, want *Webhook", n)
	}
	_ = n.Close()
}
