package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"agrilink/contexts/trust-network/access-control/ports"
	"agrilink/contexts/trust-network/accesspolicy"

	"gorm.io/gorm"
)

// Repository is a read-only projection over the platform_users and
// trust_relationships tables owned by the relationship registry.
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

func (r *Repository) FindUserByID(ctx context.Context, id string) (ports.UserView, bool, error) {
	var row userRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.UserView{}, false, nil
		}
		return ports.UserView{}, false, err
	}
	return ports.UserView{
		ID:     row.UserID,
		Role:   accesspolicy.Role(row.Role),
		Status: accesspolicy.UserStatus(row.Status),
	}, true, nil
}

func (r *Repository) HasActiveRelationship(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&relationshipRow{}).
		Where("status = ?", string(accesspolicy.RelationshipStatusActive)).
		Where("farm_admin_id = ? OR service_provider_id = ?", userID, userID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ActiveBetween(ctx context.Context, userA, userB string) (ports.RelationshipView, bool, error) {
	var row relationshipRow
	err := r.db.WithContext(ctx).
		Where("status = ?", string(accesspolicy.RelationshipStatusActive)).
		Where(
			"(farm_admin_id = ? AND service_provider_id = ?) OR (farm_admin_id = ? AND service_provider_id = ?)",
			userA, userB, userB, userA,
		).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RelationshipView{}, false, nil
		}
		return ports.RelationshipView{}, false, err
	}
	return row.toView(), true, nil
}

func (r *Repository) ListActiveByUser(ctx context.Context, userID string) ([]ports.RelationshipView, error) {
	var rows []relationshipRow
	err := r.db.WithContext(ctx).
		Where("status = ?", string(accesspolicy.RelationshipStatusActive)).
		Where("farm_admin_id = ? OR service_provider_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	views := make([]ports.RelationshipView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.toView())
	}
	return views, nil
}

type userRow struct {
	UserID string `gorm:"column:user_id;primaryKey"`
	Role   string `gorm:"column:role"`
	Status string `gorm:"column:status"`
}

func (userRow) TableName() string { return "platform_users" }

type relationshipRow struct {
	RelationshipID    string    `gorm:"column:relationship_id;primaryKey"`
	FarmAdminID       string    `gorm:"column:farm_admin_id"`
	ServiceProviderID string    `gorm:"column:service_provider_id"`
	RelationshipType  string    `gorm:"column:relationship_type"`
	Status            string    `gorm:"column:status"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

func (relationshipRow) TableName() string { return "trust_relationships" }

func (row relationshipRow) toView() ports.RelationshipView {
	return ports.RelationshipView{
		ID:                row.RelationshipID,
		FarmAdminID:       row.FarmAdminID,
		ServiceProviderID: row.ServiceProviderID,
		Type:              accesspolicy.RelationshipType(row.RelationshipType),
	}
}
