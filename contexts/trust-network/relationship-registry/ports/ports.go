package ports

import (
	"context"
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/relationship-registry/domain/entities"
	"agrilink/internal/shared/events"
)

// UserRecord is the projection of platform users this module reads and, on
// invitation acceptance, creates. User management itself is owned elsewhere.
type UserRecord struct {
	ID            string
	Email         string
	Name          string
	Role          accesspolicy.Role
	Status        accesspolicy.UserStatus
	EmailVerified bool
	CreatedAt     time.Time
}

// UserDirectory is the read side of the external user-management collaborator.
type UserDirectory interface {
	FindUserByID(ctx context.Context, userID string) (UserRecord, bool, error)
	FindUserByEmail(ctx context.Context, email string) (UserRecord, bool, error)
	FindUsersByRole(ctx context.Context, role accesspolicy.Role) ([]UserRecord, error)
}

// RelationshipRepository owns relationship persistence and its transaction
// boundaries.
type RelationshipRepository interface {
	// CreateRelationship must atomically enforce uniqueness of the
	// (farm admin, service provider, type) triple among non-terminated rows
	// and return ErrDuplicateRelationship on conflict.
	CreateRelationship(ctx context.Context, relationship entities.BusinessRelationship) error
	GetRelationship(ctx context.Context, relationshipID string) (entities.BusinessRelationship, error)
	ListRelationshipsByFarmAdmin(ctx context.Context, farmAdminID string) ([]entities.BusinessRelationship, error)
	ListRelationshipsByServiceProvider(ctx context.Context, serviceProviderID string) ([]entities.BusinessRelationship, error)
	// UpdateRelationshipStatus applies the transition only when the row is
	// still in the expected status; EstablishedAt is stamped on activation.
	UpdateRelationshipStatus(
		ctx context.Context,
		relationshipID string,
		expected accesspolicy.RelationshipStatus,
		next accesspolicy.RelationshipStatus,
		reason string,
		now time.Time,
	) (entities.BusinessRelationship, error)
}

// InvitationRepository owns invitation persistence. Invitations transition,
// they are never deleted.
type InvitationRepository interface {
	// CreateInvitation must atomically enforce at most one pending invitation
	// per invitee email and return ErrDuplicatePendingInvitation on conflict.
	CreateInvitation(ctx context.Context, invitation entities.Invitation) error
	GetInvitation(ctx context.Context, invitationID string) (entities.Invitation, error)
	FindPendingInvitationByEmail(ctx context.Context, email string) (entities.Invitation, bool, error)
	ListInvitationsByInviter(ctx context.Context, inviterID string) ([]entities.Invitation, error)
	UpdateInvitationStatus(
		ctx context.Context,
		invitationID string,
		expected accesspolicy.InvitationStatus,
		next accesspolicy.InvitationStatus,
		now time.Time,
	) (entities.Invitation, error)
	// AcceptInvitation persists the new user, the new relationship, and the
	// invitation transition to Accepted as one atomic unit.
	AcceptInvitation(
		ctx context.Context,
		invitationID string,
		user UserRecord,
		relationship entities.BusinessRelationship,
		acceptedAt time.Time,
	) error
}

// Notification kinds emitted by this module. Content and delivery mechanics
// belong to the notification collaborator.
const (
	NotificationRelationshipCreated    = "relationship_created"
	NotificationRelationshipRequested  = "relationship_requested"
	NotificationRelationshipApproved   = "relationship_approved"
	NotificationRelationshipRejected   = "relationship_rejected"
	NotificationRelationshipTerminated = "relationship_terminated"
	NotificationInvitationSent         = "invitation_sent"
	NotificationInvitationAccepted     = "invitation_accepted"
)

// Notification addresses a user by ID, or by email for recipients that do
// not have an account yet (invitations).
type Notification struct {
	UserID  string
	Email   string
	Kind    string
	Payload map[string]any
}

// Notifier is fire-and-forget: failures are logged by callers, never
// surfaced as operation failures.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// TokenIssuer produces an opaque token plus expiry for a given purpose. The
// token is not interpreted by this module.
type TokenIssuer interface {
	Issue(ctx context.Context, purpose string) (token string, expiresAt time.Time, err error)
}

// EventEnvelope reuses the canonical cross-service envelope contract.
type EventEnvelope = events.Envelope

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// OutboxMessage is a notification row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// Clock allows deterministic testing of expiry rules.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts entity identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
