package events

import (
	"context"
	"log/slog"
	"time"

	"agrilink/contexts/trust-network/data-sharing/ports"

	"github.com/google/uuid"
)

const notificationTopic = "trust.notifications"

// Notifier publishes notification envelopes straight to the message bus.
// Used where no transactional outbox is available (in-memory wiring).
type Notifier struct {
	Publisher ports.EventPublisher
	Source    string
	Logger    *slog.Logger
}

func NewNotifier(publisher ports.EventPublisher, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		Publisher: publisher,
		Source:    "data-sharing",
		Logger:    logger,
	}
}

func (n *Notifier) Notify(ctx context.Context, notification ports.Notification) error {
	envelope := ports.EventEnvelope{
		EventID:        uuid.NewString(),
		EventType:      notification.Kind,
		SourceService:  n.Source,
		OccurredAtUTC:  time.Now().UTC(),
		RecipientID:    notification.UserID,
		EntityType:     "notification",
		EntityID:       uuid.NewString(),
		PayloadVersion: 1,
		Payload:        notification.Payload,
	}
	if err := n.Publisher.Publish(ctx, notificationTopic, envelope); err != nil {
		return err
	}
	n.Logger.Debug("notification published",
		"event", "notification_published",
		"module", "trust-network/data-sharing",
		"layer", "adapter",
		"kind", notification.Kind,
		"recipient_id", notification.UserID,
	)
	return nil
}
