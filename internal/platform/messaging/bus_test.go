package messaging

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"agrilink/internal/shared/events"
)

func TestBusDeliversToSubscribedTopic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewBus(slog.Default())
	received := make(chan events.Envelope, 1)
	err := bus.Subscribe(ctx, "trust.notifications", "test-cg", func(_ context.Context, envelope events.Envelope) error {
		received <- envelope
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sent := events.Envelope{EventID: "evt_1", EventType: "data_shared", RecipientID: "user_field_mgr_1"}
	if err := bus.Publish(ctx, "trust.notifications", sent); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-received:
		if got.EventID != sent.EventID || got.EventType != sent.EventType {
			t.Fatalf("unexpected envelope: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestBusPublishToUnknownTopicIsNoop(t *testing.T) {
	bus := NewBus(slog.Default())
	if err := bus.Publish(context.Background(), "nobody.listens", events.Envelope{EventID: "evt_1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func TestBusCancelledSubscriberStopsReceiving(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	bus := NewBus(slog.Default())
	received := make(chan events.Envelope, 1)
	if err := bus.Subscribe(ctx, "trust.notifications", "test-cg", func(_ context.Context, envelope events.Envelope) error {
		received <- envelope
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	cancel()
	// Wait for the consumer goroutine to unregister itself.
	deadline := time.Now().Add(2 * time.Second)
	for {
		bus.mu.RLock()
		remaining := len(bus.subscribers["trust.notifications"])
		bus.mu.RUnlock()
		if remaining == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("subscriber was not removed after cancellation")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := bus.Publish(context.Background(), "trust.notifications", events.Envelope{EventID: "evt_2"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	select {
	case got := <-received:
		t.Fatalf("expected no delivery after cancel, got %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}
