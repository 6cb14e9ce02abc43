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

type ResolveRequestCommand struct {
	RelationshipID string
	FarmAdminID    string
	Approve        bool
	Reason         string
}

// ResolveRequestUseCase lets the owning farm admin approve or reject a
// pending relationship request. Rejection terminates the relationship and is
// final: the same triple can be recreated only because the terminated row no
// longer counts against uniqueness.
type ResolveRequestUseCase struct {
	Relationships ports.RelationshipRepository
	Notifier      ports.Notifier
	Clock         ports.Clock
	Logger        *slog.Logger
}

func (u ResolveRequestUseCase) Execute(ctx context.Context, cmd ResolveRequestCommand) (entities.BusinessRelationship, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.RelationshipID) == "" || strings.TrimSpace(cmd.FarmAdminID) == "" {
		return entities.BusinessRelationship{}, domainerrors.ErrInvalidRequest
	}

	relationship, err := u.Relationships.GetRelationship(ctx, cmd.RelationshipID)
	if err != nil {
		return entities.BusinessRelationship{}, err
	}
	if relationship.FarmAdminID != cmd.FarmAdminID {
		logger.Warn("relationship resolution denied",
			"event", "relationship_resolve_unauthorized",
			"module", moduleName,
			"layer", "application",
			"relationship_id", cmd.RelationshipID,
			"caller_id", cmd.FarmAdminID,
		)
		return entities.BusinessRelationship{}, domainerrors.ErrUnauthorized
	}
	if relationship.Status != accesspolicy.RelationshipStatusPending {
		return entities.BusinessRelationship{}, domainerrors.ErrInvalidStateTransition
	}

	next := accesspolicy.RelationshipStatusActive
	kind := ports.NotificationRelationshipApproved
	if !cmd.Approve {
		next = accesspolicy.RelationshipStatusTerminated
		kind = ports.NotificationRelationshipRejected
	}

	updated, err := u.Relationships.UpdateRelationshipStatus(
		ctx,
		cmd.RelationshipID,
		accesspolicy.RelationshipStatusPending,
		next,
		strings.TrimSpace(cmd.Reason),
		u.Clock.Now().UTC(),
	)
	if err != nil {
		return entities.BusinessRelationship{}, err
	}

	logger.Info("relationship request resolved",
		"event", "relationship_request_resolved",
		"module", moduleName,
		"layer", "application",
		"relationship_id", updated.ID,
		"status", string(updated.Status),
	)

	payload := map[string]any{
		"relationship_id":   updated.ID,
		"farm_admin_id":     updated.FarmAdminID,
		"relationship_type": string(updated.Type),
		"status":            string(updated.Status),
	}
	if updated.StatusReason != "" {
		payload["reason"] = updated.StatusReason
	}
	notifyBestEffort(ctx, u.Notifier, logger, ports.Notification{
		UserID:  updated.ServiceProviderID,
		Kind:    kind,
		Payload: payload,
	})
	return updated, nil
}
