package ports

import (
	"context"
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
)

// UserView is the slice of a platform user that authorization decisions need.
type UserView struct {
	ID     string
	Role   accesspolicy.Role
	Status accesspolicy.UserStatus
}

// RelationshipView is a read projection of an active business relationship.
type RelationshipView struct {
	ID                string
	FarmAdminID       string
	ServiceProviderID string
	Type              accesspolicy.RelationshipType
}

// UserDirectory resolves users for authorization checks.
type UserDirectory interface {
	FindUserByID(ctx context.Context, id string) (UserView, bool, error)
}

// RelationshipDirectory queries the relationship graph. Only Active
// relationships are visible through this port.
type RelationshipDirectory interface {
	HasActiveRelationship(ctx context.Context, userID string) (bool, error)
	ActiveBetween(ctx context.Context, userA, userB string) (RelationshipView, bool, error)
	ListActiveByUser(ctx context.Context, userID string) ([]RelationshipView, error)
}

// Clock abstracts time for deterministic decisions.
type Clock interface {
	Now() time.Time
}
