package queries

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"agrilink/contexts/trust-network/relationship-registry/domain/entities"
	domainerrors "agrilink/contexts/trust-network/relationship-registry/domain/errors"
	"agrilink/contexts/trust-network/relationship-registry/ports"
)

// ListRelationshipsUseCase returns the relationships a user participates in
// on either side of the edge, newest first.
type ListRelationshipsUseCase struct {
	Relationships ports.RelationshipRepository
	Logger        *slog.Logger
}

func (u ListRelationshipsUseCase) Execute(ctx context.Context, userID string) ([]entities.BusinessRelationship, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}

	asFarmAdmin, err := u.Relationships.ListRelationshipsByFarmAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	asProvider, err := u.Relationships.ListRelationshipsByServiceProvider(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]entities.BusinessRelationship, 0, len(asFarmAdmin)+len(asProvider))
	items = append(items, asFarmAdmin...)
	items = append(items, asProvider...)
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
