package queries

import (
	"context"
	"log/slog"
	"strings"

	application "agrilink/contexts/trust-network/relationship-registry/application"
	"agrilink/contexts/trust-network/relationship-registry/domain/entities"
	domainerrors "agrilink/contexts/trust-network/relationship-registry/domain/errors"
	"agrilink/contexts/trust-network/relationship-registry/ports"
)

type GetRelationshipUseCase struct {
	Relationships ports.RelationshipRepository
	Logger        *slog.Logger
}

func (u GetRelationshipUseCase) Execute(ctx context.Context, relationshipID string) (entities.BusinessRelationship, error) {
	if strings.TrimSpace(relationshipID) == "" {
		return entities.BusinessRelationship{}, domainerrors.ErrInvalidRequest
	}
	relationship, err := u.Relationships.GetRelationship(ctx, relationshipID)
	if err != nil {
		if err != domainerrors.ErrRelationshipNotFound {
			application.ResolveLogger(u.Logger).Error("relationship lookup failed",
				"event", "relationship_lookup_failed",
				"module", "trust-network/relationship-registry",
				"layer", "application",
				"relationship_id", relationshipID,
				"error", err.Error(),
			)
		}
		return entities.BusinessRelationship{}, err
	}
	return relationship, nil
}
