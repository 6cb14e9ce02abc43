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

type RequestRelationshipCommand struct {
	ServiceProviderID string
	FarmAdminID       string
	Type              accesspolicy.RelationshipType
	Message           string
}

// RequestRelationshipUseCase is the provider-initiated path: the relationship
// starts Pending and waits for the farm admin's decision.
type RequestRelationshipUseCase struct {
	Relationships ports.RelationshipRepository
	Users         ports.UserDirectory
	Notifier      ports.Notifier
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger
}

func (u RequestRelationshipUseCase) Execute(ctx context.Context, cmd RequestRelationshipCommand) (entities.BusinessRelationship, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.ServiceProviderID) == "" ||
		strings.TrimSpace(cmd.FarmAdminID) == "" ||
		!cmd.Type.IsValid() {
		return entities.BusinessRelationship{}, domainerrors.ErrInvalidRequest
	}

	if _, err := requireFarmAdmin(ctx, u.Users, cmd.FarmAdminID); err != nil {
		return entities.BusinessRelationship{}, err
	}
	provider, err := requireCounterparty(ctx, u.Users, cmd.ServiceProviderID, cmd.Type)
	if err != nil {
		return entities.BusinessRelationship{}, err
	}

	now := u.Clock.Now().UTC()
	relationshipID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.BusinessRelationship{}, err
	}
	relationship, err := entities.NewBusinessRelationship(
		relationshipID,
		cmd.FarmAdminID,
		cmd.ServiceProviderID,
		cmd.Type,
		accesspolicy.RelationshipStatusPending,
		cmd.Message,
		now,
	)
	if err != nil {
		return entities.BusinessRelationship{}, err
	}

	if err := u.Relationships.CreateRelationship(ctx, relationship); err != nil {
		if err == domainerrors.ErrDuplicateRelationship {
			logger.Warn("duplicate relationship request rejected",
				"event", "relationship_request_duplicate",
				"module", moduleName,
				"layer", "application",
				"farm_admin_id", cmd.FarmAdminID,
				"service_provider_id", cmd.ServiceProviderID,
				"relationship_type", string(cmd.Type),
			)
		}
		return entities.BusinessRelationship{}, err
	}

	logger.Info("relationship requested",
		"event", "relationship_requested",
		"module", moduleName,
		"layer", "application",
		"relationship_id", relationship.ID,
		"farm_admin_id", relationship.FarmAdminID,
		"service_provider_id", relationship.ServiceProviderID,
		"relationship_type", string(relationship.Type),
	)

	payload := map[string]any{
		"relationship_id":       relationship.ID,
		"service_provider_id":   provider.ID,
		"service_provider_name": provider.Name,
		"relationship_type":     string(relationship.Type),
	}
	if relationship.Message != "" {
		payload["message"] = relationship.Message
	}
	notifyBestEffort(ctx, u.Notifier, logger, ports.Notification{
		UserID:  relationship.FarmAdminID,
		Kind:    ports.NotificationRelationshipRequested,
		Payload: payload,
	})
	return relationship, nil
}
