package postgresadapter

import (
	"context"
	"encoding/json"
	"time"

	"agrilink/contexts/trust-network/relationship-registry/ports"

	"github.com/google/uuid"
)

// OutboxNotifier implements ports.Notifier by enqueueing the notification
// envelope as a pending outbox row. The worker relay publishes it later.
type OutboxNotifier struct {
	Repository *Repository
	Source     string
}

func NewOutboxNotifier(repository *Repository) *OutboxNotifier {
	return &OutboxNotifier{
		Repository: repository,
		Source:     "relationship-registry",
	}
}

func (n *OutboxNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	now := time.Now().UTC()
	envelope := ports.EventEnvelope{
		EventID:        uuid.NewString(),
		EventType:      notification.Kind,
		SourceService:  n.Source,
		OccurredAtUTC:  now,
		RecipientID:    notification.UserID,
		RecipientEmail: notification.Email,
		EntityType:     "notification",
		EntityID:       uuid.NewString(),
		PayloadVersion: 1,
		Payload:        notification.Payload,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	return n.Repository.EnqueueOutbox(ctx, envelope.EventID, notification.Kind, payload, now)
}
