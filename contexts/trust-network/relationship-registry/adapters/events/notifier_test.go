package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"agrilink/contexts/trust-network/relationship-registry/ports"
)

type capturePublisher struct {
	topics    []string
	envelopes []ports.EventEnvelope
	fail      bool
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.fail {
		return errors.New("bus unavailable")
	}
	p.topics = append(p.topics, topic)
	p.envelopes = append(p.envelopes, event)
	return nil
}

func TestNotifyPublishesEnvelopeToNotificationTopic(t *testing.T) {
	publisher := &capturePublisher{}
	notifier := NewNotifier(publisher, slog.Default())

	err := notifier.Notify(context.Background(), ports.Notification{
		UserID: "user_lorry_1",
		Email:  "lorry@agrilink.example",
		Kind:   "relationship_created",
		Payload: map[string]any{
			"relationship_id": "rel_1",
		},
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if len(publisher.envelopes) != 1 {
		t.Fatalf("expected 1 envelope, got %d", len(publisher.envelopes))
	}
	if publisher.topics[0] != "trust.notifications" {
		t.Fatalf("unexpected topic %q", publisher.topics[0])
	}
	envelope := publisher.envelopes[0]
	if envelope.EventType != "relationship_created" ||
		envelope.RecipientID != "user_lorry_1" ||
		envelope.RecipientEmail != "lorry@agrilink.example" ||
		envelope.SourceService != "relationship-registry" {
		t.Fatalf("envelope fields not mapped: %+v", envelope)
	}
	if envelope.EventID == "" {
		t.Fatal("expected a generated event id")
	}
	payload, ok := envelope.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload not carried: %+v", envelope.Payload)
	}
	if payload["relationship_id"] != "rel_1" {
		t.Fatalf("payload not carried: %+v", envelope.Payload)
	}
}

func TestNotifySurfacesPublishFailure(t *testing.T) {
	notifier := NewNotifier(&capturePublisher{fail: true}, slog.Default())

	err := notifier.Notify(context.Background(), ports.Notification{
		UserID: "user_lorry_1",
		Kind:   "relationship_created",
	})
	if err == nil {
		t.Fatal("expected publish failure to surface")
	}
}
