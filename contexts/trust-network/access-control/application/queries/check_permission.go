package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "agrilink/contexts/trust-network/access-control/application"
	domainerrors "agrilink/contexts/trust-network/access-control/domain/errors"
	"agrilink/contexts/trust-network/access-control/ports"
	"agrilink/contexts/trust-network/accesspolicy"
)

const moduleName = "trust-network/access-control"

// Decision reasons reported alongside permission checks.
const (
	ReasonGranted              = "permission_granted"
	ReasonUserNotFound         = "user_not_found"
	ReasonUserInactive         = "user_inactive"
	ReasonPermissionMissing    = "permission_missing"
	ReasonNoActiveRelationship = "no_active_relationship"
	ReasonLookupFailed         = "lookup_failed"
)

type CheckPermissionQuery struct {
	UserID   string
	Resource string
	Action   string
}

// PermissionDecision is the outcome of a permission check. Checks fail
// closed: any lookup failure yields Allowed=false with the failure reason
// instead of an error.
type PermissionDecision struct {
	UserID    string
	Resource  string
	Action    string
	Allowed   bool
	Reason    string
	CheckedAt time.Time
}

type CheckPermissionUseCase struct {
	Users         ports.UserDirectory
	Relationships ports.RelationshipDirectory
	Clock         ports.Clock
	Logger        *slog.Logger
}

func (u CheckPermissionUseCase) Execute(ctx context.Context, query CheckPermissionQuery) (PermissionDecision, error) {
	logger := application.ResolveLogger(u.Logger)
	query.UserID = strings.TrimSpace(query.UserID)
	query.Resource = strings.TrimSpace(query.Resource)
	query.Action = strings.TrimSpace(query.Action)
	if query.UserID == "" || query.Resource == "" || query.Action == "" {
		return PermissionDecision{}, domainerrors.ErrInvalidRequest
	}

	decision := PermissionDecision{
		UserID:    query.UserID,
		Resource:  query.Resource,
		Action:    query.Action,
		CheckedAt: u.Clock.Now().UTC(),
	}

	user, found, err := u.Users.FindUserByID(ctx, query.UserID)
	if err != nil {
		logLookupFailure(logger, "permission_check_failed", query.UserID, err)
		decision.Reason = ReasonLookupFailed
		return decision, nil
	}
	if !found {
		decision.Reason = ReasonUserNotFound
		return decision, nil
	}
	if user.Status != accesspolicy.UserStatusActive {
		decision.Reason = ReasonUserInactive
		return decision, nil
	}

	if !accesspolicy.RoleAllows(user.Role, query.Resource, query.Action) {
		decision.Reason = ReasonPermissionMissing
		return decision, nil
	}

	if accesspolicy.RelationshipResources[query.Resource] {
		active, err := u.Relationships.HasActiveRelationship(ctx, query.UserID)
		if err != nil {
			logLookupFailure(logger, "permission_check_failed", query.UserID, err)
			decision.Reason = ReasonLookupFailed
			return decision, nil
		}
		if !active {
			decision.Reason = ReasonNoActiveRelationship
			return decision, nil
		}
	}

	decision.Allowed = true
	decision.Reason = ReasonGranted
	return decision, nil
}

func logLookupFailure(logger *slog.Logger, event string, userID string, err error) {
	logger.Error("authorization lookup failed",
		"event", event,
		"module", moduleName,
		"layer", "application",
		"user_id", userID,
		"error", err,
	)
}
