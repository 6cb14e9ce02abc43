package ports

import (
	"context"
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/data-sharing/domain/entities"
	"agrilink/internal/shared/events"
)

// UserView is the slice of a platform user that sharing decisions need.
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

// UserDirectory resolves users for sharing and access checks.
type UserDirectory interface {
	FindUserByID(ctx context.Context, id string) (UserView, bool, error)
}

// RelationshipDirectory queries the relationship graph. Only Active
// relationships are visible through this port.
type RelationshipDirectory interface {
	ActiveBetween(ctx context.Context, userA, userB string) (RelationshipView, bool, error)
	ListActiveByUser(ctx context.Context, userID string) ([]RelationshipView, error)
}

// RecordRepository persists shared records.
type RecordRepository interface {
	CreateRecord(ctx context.Context, record entities.SharedRecord) error
	GetRecord(ctx context.Context, recordID string) (entities.SharedRecord, error)
	ListRecordsByFarmAdminAndType(ctx context.Context, farmAdminID string, dataType accesspolicy.DataType) ([]entities.SharedRecord, error)
	UpdateRecord(ctx context.Context, record entities.SharedRecord) error
}

// Notification kinds emitted by this module.
const (
	NotificationDataShared  = "data_shared"
	NotificationDataUpdated = "data_updated"
)

type Notification struct {
	UserID  string
	Kind    string
	Payload map[string]any
}

// Notifier delivers user notifications. Failures are logged, never fatal.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// EventEnvelope is the shared message shape on the platform bus.
type EventEnvelope = events.Envelope

type EventPublisher interface {
	Publish(ctx context.Context, topic string, envelope EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
