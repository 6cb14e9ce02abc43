package commands

import (
	"context"
	"log/slog"
	"strings"

	"agrilink/contexts/trust-network/accesspolicy"
	application "agrilink/contexts/trust-network/relationship-registry/application"
	"agrilink/contexts/trust-network/relationship-registry/domain/entities"
	domainerrors "agrilink/contexts/trust-network/relationship-registry/domain/errors"
	"agrilink/contexts/trust-network/relationship-registry/ports"
)

type TerminateRelationshipCommand struct {
	RelationshipID string
	ActorUserID    string
	Reason         string
}

// TerminateRelationshipUseCase transitions Active to Terminated. Terminated
// is absorbing: terminating again fails with ErrInvalidStateTransition.
type TerminateRelationshipUseCase struct {
	Relationships ports.RelationshipRepository
	Notifier      ports.Notifier
	Clock         ports.Clock
	Logger        *slog.Logger
}

func (u TerminateRelationshipUseCase) Execute(ctx context.Context, cmd TerminateRelationshipCommand) (entities.BusinessRelationship, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.RelationshipID) == "" || strings.TrimSpace(cmd.ActorUserID) == "" {
		return entities.BusinessRelationship{}, domainerrors.ErrInvalidRequest
	}

	relationship, err := u.Relationships.GetRelationship(ctx, cmd.RelationshipID)
	if err != nil {
		return entities.BusinessRelationship{}, err
	}
	if cmd.ActorUserID != relationship.FarmAdminID && cmd.ActorUserID != relationship.ServiceProviderID {
		logger.Warn("relationship termination denied",
			"event", "relationship_terminate_unauthorized",
			"module", moduleName,
			"layer", "application",
			"relationship_id", cmd.RelationshipID,
			"caller_id", cmd.ActorUserID,
		)
		return entities.BusinessRelationship{}, domainerrors.ErrUnauthorized
	}
	if relationship.Status != accesspolicy.RelationshipStatusActive {
		return entities.BusinessRelationship{}, domainerrors.ErrInvalidStateTransition
	}

	updated, err := u.Relationships.UpdateRelationshipStatus(
		ctx,
		cmd.RelationshipID,
		accesspolicy.RelationshipStatusActive,
		accesspolicy.RelationshipStatusTerminated,
		strings.TrimSpace(cmd.Reason),
		u.Clock.Now().UTC(),
	)
	if err != nil {
		return entities.BusinessRelationship{}, err
	}

	logger.Info("relationship terminated",
		"event", "relationship_terminated",
		"module", moduleName,
		"layer", "application",
		"relationship_id", updated.ID,
		"farm_admin_id", updated.FarmAdminID,
		"service_provider_id", updated.ServiceProviderID,
	)

	payload := map[string]any{
		"relationship_id":   updated.ID,
		"relationship_type": string(updated.Type),
	}
	if updated.StatusReason != "" {
		payload["reason"] = updated.StatusReason
	}
	for _, userID := range []string{updated.FarmAdminID, updated.ServiceProviderID} {
		notifyBestEffort(ctx, u.Notifier, logger, ports.Notification{
			UserID:  userID,
			Kind:    ports.NotificationRelationshipTerminated,
			Payload: payload,
		})
	}
	return updated, nil
}
