package commands

import (
	"context"
	"log/slog"

	"agrilink/contexts/trust-network/accesspolicy"
	domainerrors "agrilink/contexts/trust-network/data-sharing/domain/errors"
	"agrilink/contexts/trust-network/data-sharing/domain/services"
	"agrilink/contexts/trust-network/data-sharing/ports"
)

const moduleName = "trust-network/data-sharing"

func requireActiveFarmAdmin(ctx context.Context, users ports.UserDirectory, userID string) (ports.UserView, error) {
	user, found, err := users.FindUserByID(ctx, userID)
	if err != nil {
		return ports.UserView{}, err
	}
	if !found {
		return ports.UserView{}, domainerrors.ErrUserNotFound
	}
	if user.Role != accesspolicy.RoleFarmAdmin {
		return ports.UserView{}, domainerrors.ErrInvalidRole
	}
	if user.Status != accesspolicy.UserStatusActive {
		return ports.UserView{}, domainerrors.ErrUnauthorized
	}
	return user, nil
}

// collectActiveLinks resolves the farm admin's active counterparties with
// their roles, the input SnapshotVisibility works from.
func collectActiveLinks(
	ctx context.Context,
	relationships ports.RelationshipDirectory,
	users ports.UserDirectory,
	farmAdminID string,
) ([]services.ActiveLink, error) {
	rels, err := relationships.ListActiveByUser(ctx, farmAdminID)
	if err != nil {
		return nil, err
	}
	links := make([]services.ActiveLink, 0, len(rels))
	for _, rel := range rels {
		counterpartyID := rel.ServiceProviderID
		if counterpartyID == farmAdminID {
			counterpartyID = rel.FarmAdminID
		}
		user, found, err := users.FindUserByID(ctx, counterpartyID)
		if err != nil {
			return nil, err
		}
		if !found || user.Status != accesspolicy.UserStatusActive {
			continue
		}
		links = append(links, services.ActiveLink{
			UserID: counterpartyID,
			Role:   user.Role,
			Type:   rel.Type,
		})
	}
	return links, nil
}

func notifyBestEffort(ctx context.Context, notifier ports.Notifier, logger *slog.Logger, notification ports.Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, notification); err != nil {
		logger.Warn("notification delivery failed",
			"event", "notification_failed",
			"module", moduleName,
			"layer", "application",
			"kind", notification.Kind,
			"user_id", notification.UserID,
			"error", err,
		)
	}
}
