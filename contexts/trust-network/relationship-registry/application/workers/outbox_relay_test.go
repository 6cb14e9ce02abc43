package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"agrilink/contexts/trust-network/relationship-registry/ports"
	"agrilink/internal/shared/events"
)

type fakeOutbox struct {
	pending []ports.OutboxMessage
	sent    []string
	sentAt  time.Time
}

func (f *fakeOutbox) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit < len(f.pending) {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutbox) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	f.sent = append(f.sent, outboxID)
	f.sentAt = sentAt
	return nil
}

type capturePublisher struct {
	topics    []string
	envelopes []ports.EventEnvelope
	failAfter int
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.failAfter > 0 && len(p.envelopes) >= p.failAfter {
		return errors.New("bus unavailable")
	}
	p.topics = append(p.topics, topic)
	p.envelopes = append(p.envelopes, event)
	return nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func outboxMessage(t *testing.T, outboxID string, envelope events.Envelope) ports.OutboxMessage {
	t.Helper()
	payload, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return ports.OutboxMessage{OutboxID: outboxID, EventType: envelope.EventType, Payload: payload}
}

func TestOutboxRelayPublishesAndMarksSent(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	outbox := &fakeOutbox{pending: []ports.OutboxMessage{
		outboxMessage(t, "out_1", events.Envelope{EventID: "evt_1", EventType: "relationship_created", RecipientID: "user_lorry_1"}),
		outboxMessage(t, "out_2", events.Envelope{EventID: "evt_2", EventType: "invitation_sent", RecipientEmail: "new@agrilink.example"}),
	}}
	publisher := &capturePublisher{}

	relay := OutboxRelay{
		Outbox:    outbox,
		Publisher: publisher,
		Clock:     fixedClock{at: now},
		Topic:     "trust.notifications",
		BatchSize: 10,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if len(publisher.envelopes) != 2 {
		t.Fatalf("expected 2 published envelopes, got %d", len(publisher.envelopes))
	}
	for _, topic := range publisher.topics {
		if topic != "trust.notifications" {
			t.Fatalf("unexpected topic %q", topic)
		}
	}
	if publisher.envelopes[0].EventID != "evt_1" || publisher.envelopes[1].EventID != "evt_2" {
		t.Fatalf("envelopes published out of order: %+v", publisher.envelopes)
	}
	if len(outbox.sent) != 2 || outbox.sent[0] != "out_1" || outbox.sent[1] != "out_2" {
		t.Fatalf("expected both rows marked sent, got %v", outbox.sent)
	}
	if !outbox.sentAt.Equal(now) {
		t.Fatalf("expected sent at %v, got %v", now, outbox.sentAt)
	}
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	outbox := &fakeOutbox{pending: []ports.OutboxMessage{
		outboxMessage(t, "out_1", events.Envelope{EventID: "evt_1", EventType: "relationship_created"}),
		outboxMessage(t, "out_2", events.Envelope{EventID: "evt_2", EventType: "relationship_terminated"}),
	}}
	publisher := &capturePublisher{failAfter: 1}

	relay := OutboxRelay{Outbox: outbox, Publisher: publisher, Clock: fixedClock{at: time.Now().UTC()}}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatal("expected publish failure to surface")
	}

	if len(outbox.sent) != 1 || outbox.sent[0] != "out_1" {
		t.Fatalf("expected only the delivered row marked sent, got %v", outbox.sent)
	}
}

func TestOutboxRelayRejectsUndecodablePayload(t *testing.T) {
	outbox := &fakeOutbox{pending: []ports.OutboxMessage{
		{OutboxID: "out_bad", EventType: "relationship_created", Payload: []byte("{not json")},
	}}
	publisher := &capturePublisher{}

	relay := OutboxRelay{Outbox: outbox, Publisher: publisher, Clock: fixedClock{at: time.Now().UTC()}}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatal("expected decode failure to surface")
	}
	if len(publisher.envelopes) != 0 {
		t.Fatalf("expected nothing published, got %d", len(publisher.envelopes))
	}
	if len(outbox.sent) != 0 {
		t.Fatalf("expected nothing marked sent, got %v", outbox.sent)
	}
}
