package queries

import (
	"context"
	"log/slog"
	"strings"

	application "agrilink/contexts/trust-network/access-control/application"
	domainerrors "agrilink/contexts/trust-network/access-control/domain/errors"
	"agrilink/contexts/trust-network/access-control/ports"
	"agrilink/contexts/trust-network/accesspolicy"
)

type ValidateRelationshipAccessQuery struct {
	UserID       string
	TargetUserID string
}

// ValidateRelationshipAccessUseCase reports whether a user may access
// another user's data. Access is granted to the user themselves, to app
// admins, and to either party of an active relationship. Lookup failures
// deny access.
type ValidateRelationshipAccessUseCase struct {
	Users         ports.UserDirectory
	Relationships ports.RelationshipDirectory
	Logger        *slog.Logger
}

func (u ValidateRelationshipAccessUseCase) Execute(ctx context.Context, query ValidateRelationshipAccessQuery) (bool, error) {
	logger := application.ResolveLogger(u.Logger)
	query.UserID = strings.TrimSpace(query.UserID)
	query.TargetUserID = strings.TrimSpace(query.TargetUserID)
	if query.UserID == "" || query.TargetUserID == "" {
		return false, domainerrors.ErrInvalidRequest
	}

	if query.UserID == query.TargetUserID {
		return true, nil
	}

	user, found, err := u.Users.FindUserByID(ctx, query.UserID)
	if err != nil {
		logLookupFailure(logger, "relationship_access_failed", query.UserID, err)
		return false, nil
	}
	if !found || user.Status != accesspolicy.UserStatusActive {
		return false, nil
	}
	if user.Role == accesspolicy.RoleAppAdmin {
		return true, nil
	}

	if _, ok, err := u.Relationships.ActiveBetween(ctx, query.UserID, query.TargetUserID); err != nil {
		logLookupFailure(logger, "relationship_access_failed", query.UserID, err)
		return false, nil
	} else if ok {
		return true, nil
	}

	// Field managers reach the farm admin's data through the relationship
	// that appointed them, whichever side asks.
	if user.Role == accesspolicy.RoleFieldManager || user.Role == accesspolicy.RoleFarmAdmin {
		links, err := u.Relationships.ListActiveByUser(ctx, query.UserID)
		if err != nil {
			logLookupFailure(logger, "relationship_access_failed", query.UserID, err)
			return false, nil
		}
		for _, link := range links {
			if link.Type != accesspolicy.RelationshipTypeFieldManager {
				continue
			}
			if link.FarmAdminID == query.TargetUserID || link.ServiceProviderID == query.TargetUserID {
				return true, nil
			}
		}
	}

	return false, nil
}
