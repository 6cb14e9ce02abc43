package application

import (
	"context"

	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/data-sharing/domain/entities"
	"agrilink/contexts/trust-network/data-sharing/domain/services"
	"agrilink/contexts/trust-network/data-sharing/ports"
)

// DataAccessAllowed decides whether the user may perform the access kind on
// the record. The owner always may, visibility entries are snapshots, so
// non-owners must both hold a sufficient level and still have an active
// relationship with the owner.
func DataAccessAllowed(
	ctx context.Context,
	users ports.UserDirectory,
	relationships ports.RelationshipDirectory,
	record entities.SharedRecord,
	userID string,
	kind services.AccessKind,
) (bool, error) {
	if userID == record.FarmAdminID {
		return true, nil
	}

	user, found, err := users.FindUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if !found || user.Status != accesspolicy.UserStatusActive {
		return false, nil
	}

	entry, ok := record.EntryFor(userID, user.Role)
	if !ok {
		return false, nil
	}
	if !services.LevelAllows(entry.Level, kind) {
		return false, nil
	}

	if _, active, err := relationships.ActiveBetween(ctx, userID, record.FarmAdminID); err != nil {
		return false, err
	} else if !active {
		return false, nil
	}
	return true, nil
}
