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

type CreateRelationshipCommand struct {
	FarmAdminID       string
	ServiceProviderID string
	Type              accesspolicy.RelationshipType
}

// CreateRelationshipUseCase is the farm-admin-initiated path: the
// relationship starts Active immediately.
type CreateRelationshipUseCase struct {
	Relationships ports.RelationshipRepository
	Users         ports.UserDirectory
	Notifier      ports.Notifier
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger
}

func (u CreateRelationshipUseCase) Execute(ctx context.Context, cmd CreateRelationshipCommand) (entities.BusinessRelationship, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.FarmAdminID) == "" ||
		strings.TrimSpace(cmd.ServiceProviderID) == "" ||
		!cmd.Type.IsValid() {
		return entities.BusinessRelationship{}, domainerrors.ErrInvalidRequest
	}

	if _, err := requireFarmAdmin(ctx, u.Users, cmd.FarmAdminID); err != nil {
		return entities.BusinessRelationship{}, err
	}
	if _, err := requireCounterparty(ctx, u.Users, cmd.ServiceProviderID, cmd.Type); err != nil {
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
		accesspolicy.RelationshipStatusActive,
		"",
		now,
	)
	if err != nil {
		return entities.BusinessRelationship{}, err
	}

	if err := u.Relationships.CreateRelationship(ctx, relationship); err != nil {
		if err == domainerrors.ErrDuplicateRelationship {
			logger.Warn("duplicate relationship rejected",
				"event", "relationship_create_duplicate",
				"module", moduleName,
				"layer", "application",
				"farm_admin_id", cmd.FarmAdminID,
				"service_provider_id", cmd.ServiceProviderID,
				"relationship_type", string(cmd.Type),
			)
		}
		return entities.BusinessRelationship{}, err
	}

	logger.Info("relationship created",
		"event", "relationship_created",
		"module", moduleName,
		"layer", "application",
		"relationship_id", relationship.ID,
		"farm_admin_id", relationship.FarmAdminID,
		"service_provider_id", relationship.ServiceProviderID,
		"relationship_type", string(relationship.Type),
	)

	notifyBestEffort(ctx, u.Notifier, logger, ports.Notification{
		UserID: relationship.ServiceProviderID,
		Kind:   ports.NotificationRelationshipCreated,
		Payload: map[string]any{
			"relationship_id":   relationship.ID,
			"farm_admin_id":     relationship.FarmAdminID,
			"relationship_type": string(relationship.Type),
		},
	})
	return relationship, nil
}
