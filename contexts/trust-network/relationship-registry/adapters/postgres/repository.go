package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/relationship-registry/domain/entities"
	domainerrors "agrilink/contexts/trust-network/relationship-registry/domain/errors"
	"agrilink/contexts/trust-network/relationship-registry/ports"
	"agrilink/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Partial unique indexes owned by the schema migration:
//   trust_relationships_open_unique   ON (farm_admin_id, service_provider_id, relationship_type) WHERE status <> 'terminated'
//   trust_invitations_pending_unique  ON (invitee_email) WHERE status = 'pending'
//   platform_users_email_unique       ON (email)
const (
	constraintOpenRelationship  = "trust_relationships_open_unique"
	constraintPendingInvitation = "trust_invitations_pending_unique"
	constraintUserEmail         = "platform_users_email_unique"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// --- UserDirectory ---

func (r *Repository) FindUserByID(ctx context.Context, userID string) (ports.UserRecord, bool, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.UserRecord{}, false, nil
		}
		return ports.UserRecord{}, false, err
	}
	return row.toRecord(), true, nil
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (ports.UserRecord, bool, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("email = ?", entities.NormalizeEmail(email)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.UserRecord{}, false, nil
		}
		return ports.UserRecord{}, false, err
	}
	return row.toRecord(), true, nil
}

func (r *Repository) FindUsersByRole(ctx context.Context, role accesspolicy.Role) ([]ports.UserRecord, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).
		Where("role = ?", string(role)).
		Order("created_at ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.UserRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toRecord())
	}
	return items, nil
}

// --- RelationshipRepository ---

func (r *Repository) CreateRelationship(ctx context.Context, relationship entities.BusinessRelationship) error {
	row, err := relationshipModelFromEntity(relationship)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == constraintOpenRelationship {
				return domainerrors.ErrDuplicateRelationship
			}
			return domainerrors.ErrRepositoryInvariantBroke
		}
		return err
	}
	return nil
}

func (r *Repository) GetRelationship(ctx context.Context, relationshipID string) (entities.BusinessRelationship, error) {
	var row relationshipModel
	err := r.db.WithContext(ctx).
		Where("relationship_id = ?", relationshipID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.BusinessRelationship{}, domainerrors.ErrRelationshipNotFound
		}
		return entities.BusinessRelationship{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListRelationshipsByFarmAdmin(ctx context.Context, farmAdminID string) ([]entities.BusinessRelationship, error) {
	return r.listRelationships(ctx, "farm_admin_id = ?", farmAdminID)
}

func (r *Repository) ListRelationshipsByServiceProvider(ctx context.Context, serviceProviderID string) ([]entities.BusinessRelationship, error) {
	return r.listRelationships(ctx, "service_provider_id = ?", serviceProviderID)
}

func (r *Repository) listRelationships(ctx context.Context, where string, arg string) ([]entities.BusinessRelationship, error) {
	var rows []relationshipModel
	if err := r.db.WithContext(ctx).
		Where(where, arg).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.BusinessRelationship, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) UpdateRelationshipStatus(
	ctx context.Context,
	relationshipID string,
	expected accesspolicy.RelationshipStatus,
	next accesspolicy.RelationshipStatus,
	reason string,
	now time.Time,
) (entities.BusinessRelationship, error) {
	updates := map[string]any{
		"status":        string(next),
		"status_reason": reason,
		"updated_at":    now.UTC(),
	}
	if next == accesspolicy.RelationshipStatusActive {
		updates["established_at"] = now.UTC()
	}

	result := r.db.WithContext(ctx).
		Model(&relationshipModel{}).
		Where("relationship_id = ? AND status = ?", relationshipID, string(expected)).
		Updates(updates)
	if result.Error != nil {
		return entities.BusinessRelationship{}, result.Error
	}
	if result.RowsAffected == 0 {
		// Row missing or already transitioned by a concurrent caller.
		var row relationshipModel
		err := r.db.WithContext(ctx).
			Where("relationship_id = ?", relationshipID).
			First(&row).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.BusinessRelationship{}, domainerrors.ErrRelationshipNotFound
		}
		if err != nil {
			return entities.BusinessRelationship{}, err
		}
		return entities.BusinessRelationship{}, domainerrors.ErrInvalidStateTransition
	}
	return r.GetRelationship(ctx, relationshipID)
}

// --- InvitationRepository ---

func (r *Repository) CreateInvitation(ctx context.Context, invitation entities.Invitation) error {
	row := invitationModelFromEntity(invitation)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == constraintPendingInvitation {
				return domainerrors.ErrDuplicatePendingInvitation
			}
			return domainerrors.ErrRepositoryInvariantBroke
		}
		return err
	}
	return nil
}

func (r *Repository) GetInvitation(ctx context.Context, invitationID string) (entities.Invitation, error) {
	var row invitationModel
	err := r.db.WithContext(ctx).
		Where("invitation_id = ?", invitationID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Invitation{}, domainerrors.ErrInvitationNotFound
		}
		return entities.Invitation{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindPendingInvitationByEmail(ctx context.Context, email string) (entities.Invitation, bool, error) {
	var row invitationModel
	err := r.db.WithContext(ctx).
		Where("invitee_email = ? AND status = ?", entities.NormalizeEmail(email), string(accesspolicy.InvitationStatusPending)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Invitation{}, false, nil
		}
		return entities.Invitation{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListInvitationsByInviter(ctx context.Context, inviterID string) ([]entities.Invitation, error) {
	var rows []invitationModel
	if err := r.db.WithContext(ctx).
		Where("inviter_id = ?", inviterID).
		Order("sent_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Invitation, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateInvitationStatus(
	ctx context.Context,
	invitationID string,
	expected accesspolicy.InvitationStatus,
	next accesspolicy.InvitationStatus,
	now time.Time,
) (entities.Invitation, error) {
	var updated entities.Invitation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invitation, err := r.updateInvitationStatusTx(tx, invitationID, expected, next, now)
		if err != nil {
			return err
		}
		updated = invitation
		return nil
	})
	if err != nil {
		return entities.Invitation{}, err
	}
	return updated, nil
}

func (r *Repository) updateInvitationStatusTx(
	tx *gorm.DB,
	invitationID string,
	expected accesspolicy.InvitationStatus,
	next accesspolicy.InvitationStatus,
	now time.Time,
) (entities.Invitation, error) {
	updates := map[string]any{
		"status":     string(next),
		"updated_at": now.UTC(),
	}
	if next == accesspolicy.InvitationStatusAccepted {
		updates["accepted_at"] = now.UTC()
	}

	result := tx.
		Model(&invitationModel{}).
		Where("invitation_id = ? AND status = ?", invitationID, string(expected)).
		Updates(updates)
	if result.Error != nil {
		return entities.Invitation{}, result.Error
	}
	if result.RowsAffected == 0 {
		var row invitationModel
		err := tx.Where("invitation_id = ?", invitationID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Invitation{}, domainerrors.ErrInvitationNotFound
		}
		if err != nil {
			return entities.Invitation{}, err
		}
		return entities.Invitation{}, domainerrors.ErrInvalidStateTransition
	}

	var row invitationModel
	if err := tx.Where("invitation_id = ?", invitationID).First(&row).Error; err != nil {
		return entities.Invitation{}, err
	}
	return row.toEntity(), nil
}

// AcceptInvitation persists user, relationship, and invitation flip as one
// transaction so a partial failure rolls everything back.
func (r *Repository) AcceptInvitation(
	ctx context.Context,
	invitationID string,
	user ports.UserRecord,
	relationship entities.BusinessRelationship,
	acceptedAt time.Time,
) error {
	relationshipRow, err := relationshipModelFromEntity(relationship)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRow := userModelFromRecord(user)
		if err := tx.Create(&userRow).Error; err != nil {
			if isUniqueViolation(err) && constraintName(err) == constraintUserEmail {
				return domainerrors.ErrUserAlreadyExists
			}
			return err
		}
		if err := tx.Create(&relationshipRow).Error; err != nil {
			if isUniqueViolation(err) {
				if constraintName(err) == constraintOpenRelationship {
					return domainerrors.ErrDuplicateRelationship
				}
				return domainerrors.ErrRepositoryInvariantBroke
			}
			return err
		}
		if _, err := r.updateInvitationStatusTx(
			tx,
			invitationID,
			accesspolicy.InvitationStatusPending,
			accesspolicy.InvitationStatusAccepted,
			acceptedAt,
		); err != nil {
			return err
		}
		return nil
	})
}

// --- OutboxRepository ---

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outbox.StatusPublished,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

// EnqueueOutbox inserts a pending notification row; used by the outbox
// notifier adapter.
func (r *Repository) EnqueueOutbox(ctx context.Context, outboxID string, eventType string, payload []byte, now time.Time) error {
	row := outboxModel{
		OutboxID:  outboxID,
		EventType: eventType,
		Payload:   payload,
		Status:    outbox.StatusPending,
		CreatedAt: now.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// --- row models ---

type userModel struct {
	UserID        string    `gorm:"column:user_id;primaryKey"`
	Email         string    `gorm:"column:email"`
	Name          string    `gorm:"column:name"`
	Role          string    `gorm:"column:role"`
	Status        string    `gorm:"column:status"`
	EmailVerified bool      `gorm:"column:email_verified"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "platform_users" }

func userModelFromRecord(record ports.UserRecord) userModel {
	return userModel{
		UserID:        record.ID,
		Email:         entities.NormalizeEmail(record.Email),
		Name:          record.Name,
		Role:          string(record.Role),
		Status:        string(record.Status),
		EmailVerified: record.EmailVerified,
		CreatedAt:     record.CreatedAt.UTC(),
	}
}

func (m userModel) toRecord() ports.UserRecord {
	return ports.UserRecord{
		ID:            m.UserID,
		Email:         m.Email,
		Name:          m.Name,
		Role:          accesspolicy.Role(m.Role),
		Status:        accesspolicy.UserStatus(m.Status),
		EmailVerified: m.EmailVerified,
		CreatedAt:     m.CreatedAt,
	}
}

type relationshipModel struct {
	RelationshipID    string     `gorm:"column:relationship_id;primaryKey"`
	FarmAdminID       string     `gorm:"column:farm_admin_id"`
	ServiceProviderID string     `gorm:"column:service_provider_id"`
	RelationshipType  string     `gorm:"column:relationship_type"`
	Status            string     `gorm:"column:status"`
	Permissions       []byte     `gorm:"column:permissions;type:jsonb"`
	Message           string     `gorm:"column:message"`
	StatusReason      string     `gorm:"column:status_reason"`
	EstablishedAt     *time.Time `gorm:"column:established_at"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (relationshipModel) TableName() string { return "trust_relationships" }

func relationshipModelFromEntity(relationship entities.BusinessRelationship) (relationshipModel, error) {
	permissions, err := json.Marshal(relationship.Permissions)
	if err != nil {
		return relationshipModel{}, err
	}
	row := relationshipModel{
		RelationshipID:    relationship.ID,
		FarmAdminID:       relationship.FarmAdminID,
		ServiceProviderID: relationship.ServiceProviderID,
		RelationshipType:  string(relationship.Type),
		Status:            string(relationship.Status),
		Permissions:       permissions,
		Message:           relationship.Message,
		StatusReason:      relationship.StatusReason,
		CreatedAt:         relationship.CreatedAt.UTC(),
		UpdatedAt:         relationship.UpdatedAt.UTC(),
	}
	if !relationship.EstablishedAt.IsZero() {
		established := relationship.EstablishedAt.UTC()
		row.EstablishedAt = &established
	}
	return row, nil
}

func (m relationshipModel) toEntity() (entities.BusinessRelationship, error) {
	var permissions accesspolicy.CapabilitySet
	if len(m.Permissions) > 0 {
		if err := json.Unmarshal(m.Permissions, &permissions); err != nil {
			return entities.BusinessRelationship{}, err
		}
	}
	relationship := entities.BusinessRelationship{
		ID:                m.RelationshipID,
		FarmAdminID:       m.FarmAdminID,
		ServiceProviderID: m.ServiceProviderID,
		Type:              accesspolicy.RelationshipType(m.RelationshipType),
		Status:            accesspolicy.RelationshipStatus(m.Status),
		Permissions:       permissions,
		Message:           m.Message,
		StatusReason:      m.StatusReason,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.EstablishedAt != nil {
		relationship.EstablishedAt = *m.EstablishedAt
	}
	return relationship, nil
}

type invitationModel struct {
	InvitationID     string     `gorm:"column:invitation_id;primaryKey"`
	InviterID        string     `gorm:"column:inviter_id"`
	InviteeEmail     string     `gorm:"column:invitee_email"`
	InviteeRole      string     `gorm:"column:invitee_role"`
	RelationshipType string     `gorm:"column:relationship_type"`
	Status           string     `gorm:"column:status"`
	Token            string     `gorm:"column:token"`
	ExpiresAt        time.Time  `gorm:"column:expires_at"`
	SentAt           time.Time  `gorm:"column:sent_at"`
	AcceptedAt       *time.Time `gorm:"column:accepted_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (invitationModel) TableName() string { return "trust_invitations" }

func invitationModelFromEntity(invitation entities.Invitation) invitationModel {
	return invitationModel{
		InvitationID:     invitation.ID,
		InviterID:        invitation.InviterID,
		InviteeEmail:     invitation.InviteeEmail,
		InviteeRole:      string(invitation.InviteeRole),
		RelationshipType: string(invitation.RelationshipType),
		Status:           string(invitation.Status),
		Token:            invitation.Token,
		ExpiresAt:        invitation.ExpiresAt.UTC(),
		SentAt:           invitation.SentAt.UTC(),
		AcceptedAt:       invitation.AcceptedAt,
		UpdatedAt:        invitation.UpdatedAt.UTC(),
	}
}

func (m invitationModel) toEntity() entities.Invitation {
	return entities.Invitation{
		ID:               m.InvitationID,
		InviterID:        m.InviterID,
		InviteeEmail:     m.InviteeEmail,
		InviteeRole:      accesspolicy.Role(m.InviteeRole),
		RelationshipType: accesspolicy.RelationshipType(m.RelationshipType),
		Status:           accesspolicy.InvitationStatus(m.Status),
		Token:            m.Token,
		ExpiresAt:        m.ExpiresAt,
		SentAt:           m.SentAt,
		AcceptedAt:       m.AcceptedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

type outboxModel struct {
	OutboxID  string     `gorm:"column:outbox_id;primaryKey"`
	EventType string     `gorm:"column:event_type"`
	Payload   []byte     `gorm:"column:payload;type:jsonb"`
	Status    string     `gorm:"column:status"`
	SentAt    *time.Time `gorm:"column:sent_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

func (outboxModel) TableName() string { return "trust_notification_outbox" }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
