package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

// asyncReceive starts a goroutine that reads one message from the
// subscriber and sends it to the returned channel. Must be called
// BEFORE Publish to avoid deadlocking miniredis's synchronous pub/sub
// delivery.
func asyncReceive(sub *miniredis.Subscriber) <-chan miniredis.PubsubMessage {
	ch := make(chan miniredis.PubsubMessage, 1)
	go func() {
		ch <- <-sub.Messages()
	}()
	return ch
}

func waitMessage(t *testing.T, ch <-chan miniredis.PubsubMessage) miniredis.PubsubMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for pub/sub message")
		return miniredis.PubsubMessage{} // unreachable
	}
}

func TestRedisPublish_Success(t *testing.T) {
	mr := miniredis.RunT(t)

	n, err := NewRedis(RedisConfig{URL: "redis://" + mr.Addr(), Retries: 0})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = n.Close() }()

	sub := mr.NewSubscriber()
	defer sub.Close()
	sub.Subscribe(DefaultRedisChannel)
	msgs := asyncReceive(sub)

	if err := n.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	msg := waitMessage(t, msgs)
	var received SessionCompletedEvent
	if err := json.Unmarshal([]byte(msg.Message), &received); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if received.SessionID != "sess-001" {
		t.Errorf("expected sess-001, got %s", received.SessionID)
	}
	if received.Mode != "save" {
		t.Errorf("expected save, got %s", received.Mode)
	}
}

func TestRedisPublish_CustomChannel(t *testing.T) {
	mr := miniredis.RunT(t)

	n, err := NewRedis(RedisConfig{
		URL:     "redis://" + mr.Addr(),
		Channel: "custom:events",
		Retries: 0,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = n.Close() }()

	sub := mr.NewSubscriber()
	defer sub.Close()
	sub.Subscribe("custom:events")
	msgs := asyncReceive(sub)

	if err := n.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	msg := waitMessage(t, msgs)
	if msg.Channel != "custom:events" {
		t.Errorf("expected custom:events, got %s", msg.Channel)
	}
}

func TestRedisPublish_FailureAfterRetries(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	n, err := NewRedis(RedisConfig{
		URL:     "redis://" + addr,
		Timeout: 200 * time.Millisecond,
		Retries: 1,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = n.Close() }()

	if err := n.Publish(context.Background(), testEvent()); err == nil {
		t.Fatal("publish should fail against a closed server")
	}
}

func TestNewRedis_Validation(t *testing.T) {
	if _, err := NewRedis(RedisConfig{}); err == nil {
		t.Error("expected error for missing URL")
	}
	if _, err := NewRedis(RedisConfig{URL: "not a url"}); err == nil {
		t.Error("expected error for invalid URL")
	}
	if _, err := NewRedis(RedisConfig{URL: "redis://localhost:6379", Retries: -1}); err == nil {
		t.Error("expected error for negative retries")
	}
}
