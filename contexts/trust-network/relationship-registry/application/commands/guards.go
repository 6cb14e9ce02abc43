package commands

import (
	"context"

	"agrilink/contexts/trust-network/accesspolicy"
	domainerrors "agrilink/contexts/trust-network/relationship-registry/domain/errors"
	"agrilink/contexts/trust-network/relationship-registry/domain/services"
	"agrilink/contexts/trust-network/relationship-registry/ports"
)

const moduleName = "trust-network/relationship-registry"

// requireFarmAdmin loads a user and verifies it is an active farm admin.
func requireFarmAdmin(ctx context.Context, users ports.UserDirectory, userID string) (ports.UserRecord, error) {
	user, found, err := users.FindUserByID(ctx, userID)
	if err != nil {
		return ports.UserRecord{}, err
	}
	if !found {
		return ports.UserRecord{}, domainerrors.ErrUserNotFound
	}
	if user.Role != accesspolicy.RoleFarmAdmin {
		return ports.UserRecord{}, domainerrors.ErrInvalidRole
	}
	if user.Status != accesspolicy.UserStatusActive {
		return ports.UserRecord{}, domainerrors.ErrUnauthorized
	}
	return user, nil
}

// requireCounterparty loads a user and verifies its role matches the
// relationship type under the fixed mapping.
func requireCounterparty(
	ctx context.Context,
	users ports.UserDirectory,
	userID string,
	relType accesspolicy.RelationshipType,
) (ports.UserRecord, error) {
	user, found, err := users.FindUserByID(ctx, userID)
	if err != nil {
		return ports.UserRecord{}, err
	}
	if !found {
		return ports.UserRecord{}, domainerrors.ErrUserNotFound
	}
	if !services.CompatibleRole(relType, user.Role) {
		return ports.UserRecord{}, domainerrors.ErrInvalidRole
	}
	if user.Status != accesspolicy.UserStatusActive {
		return ports.UserRecord{}, domainerrors.ErrUnauthorized
	}
	return user, nil
}
