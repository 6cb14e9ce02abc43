package commands

import (
	"context"
	"log/slog"

	"agrilink/contexts/trust-network/relationship-registry/ports"
)

// notifyBestEffort dispatches a fire-and-forget notification. A delivery
// failure never fails the mutating operation that triggered it.
func notifyBestEffort(ctx context.Context, notifier ports.Notifier, logger *slog.Logger, notification ports.Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, notification); err != nil {
		logger.Warn("notification dispatch failed",
			"event", "notification_dispatch_failed",
			"module", moduleName,
			"layer", "application",
			"kind", notification.Kind,
			"user_id", notification.UserID,
			"error", err.Error(),
		)
	}
}
