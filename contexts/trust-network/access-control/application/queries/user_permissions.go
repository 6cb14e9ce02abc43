package queries

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	application "agrilink/contexts/trust-network/access-control/application"
	domainerrors "agrilink/contexts/trust-network/access-control/domain/errors"
	"agrilink/contexts/trust-network/access-control/ports"
	"agrilink/contexts/trust-network/accesspolicy"
)

type GetUserPermissionsQuery struct {
	UserID string
}

// GetUserPermissionsUseCase returns the effective permission strings for a
// user, the static role grants plus the relationship grants while at least
// one relationship is active. The result is deduplicated and sorted.
// Unknown or inactive users get an empty set.
type GetUserPermissionsUseCase struct {
	Users         ports.UserDirectory
	Relationships ports.RelationshipDirectory
	Logger        *slog.Logger
}

func (u GetUserPermissionsUseCase) Execute(ctx context.Context, query GetUserPermissionsQuery) ([]string, error) {
	logger := application.ResolveLogger(u.Logger)
	query.UserID = strings.TrimSpace(query.UserID)
	if query.UserID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}

	user, found, err := u.Users.FindUserByID(ctx, query.UserID)
	if err != nil {
		logLookupFailure(logger, "user_permissions_failed", query.UserID, err)
		return []string{}, nil
	}
	if !found || user.Status != accesspolicy.UserStatusActive {
		return []string{}, nil
	}

	set := map[string]struct{}{}
	for resource, actions := range accesspolicy.RolePermissions[user.Role] {
		for _, action := range actions {
			set[resource+":"+action] = struct{}{}
		}
	}

	active, err := u.Relationships.HasActiveRelationship(ctx, query.UserID)
	if err != nil {
		logLookupFailure(logger, "user_permissions_failed", query.UserID, err)
		active = false
	}
	if active {
		for _, grant := range accesspolicy.RelationshipGrants[user.Role] {
			set[grant] = struct{}{}
		}
	}

	permissions := make([]string, 0, len(set))
	for permission := range set {
		permissions = append(permissions, permission)
	}
	sort.Strings(permissions)
	return permissions, nil
}
