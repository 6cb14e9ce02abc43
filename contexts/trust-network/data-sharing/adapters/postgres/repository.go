package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/data-sharing/domain/entities"
	domainerrors "agrilink/contexts/trust-network/data-sharing/domain/errors"
	"agrilink/contexts/trust-network/data-sharing/ports"
	"agrilink/internal/shared/outbox"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists shared records and reads the relationship and user
// projections owned by the relationship registry.
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

// --- RecordRepository ---

func (r *Repository) CreateRecord(ctx context.Context, record entities.SharedRecord) error {
	row, err := recordModelFromEntity(record)
	if err != nil {
		return err
	}
	// Shares are idempotent on record id: a replayed create is a no-op.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) GetRecord(ctx context.Context, recordID string) (entities.SharedRecord, error) {
	var row recordModel
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SharedRecord{}, domainerrors.ErrRecordNotFound
		}
		return entities.SharedRecord{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListRecordsByFarmAdminAndType(ctx context.Context, farmAdminID string, dataType accesspolicy.DataType) ([]entities.SharedRecord, error) {
	var rows []recordModel
	err := r.db.WithContext(ctx).
		Where("farm_admin_id = ? AND data_type = ?", farmAdminID, string(dataType)).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	records := make([]entities.SharedRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *Repository) UpdateRecord(ctx context.Context, record entities.SharedRecord) error {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&recordModel{}).
		Where("record_id = ?", record.ID).
		Updates(map[string]any{
			"payload":    payload,
			"updated_at": record.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRecordNotFound
	}
	return nil
}

// --- RelationshipDirectory ---

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

// --- UserDirectory ---

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

// --- Outbox writer used by OutboxNotifier ---

func (r *Repository) EnqueueOutbox(ctx context.Context, outboxID string, eventType string, payload []byte, now time.Time) error {
	row := outboxRow{
		OutboxID:  outboxID,
		EventType: eventType,
		Payload:   payload,
		Status:    string(outbox.StatusPending),
		CreatedAt: now,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// --- row models ---

type recordModel struct {
	RecordID    string    `gorm:"column:record_id;primaryKey"`
	FarmAdminID string    `gorm:"column:farm_admin_id"`
	DataType    string    `gorm:"column:data_type"`
	Payload     []byte    `gorm:"column:payload;type:jsonb"`
	Visibility  []byte    `gorm:"column:visibility;type:jsonb"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (recordModel) TableName() string { return "shared_records" }

type visibilityEntryDoc struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Level  string `json:"level"`
}

func recordModelFromEntity(record entities.SharedRecord) (recordModel, error) {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return recordModel{}, err
	}
	docs := make([]visibilityEntryDoc, 0, len(record.Visibility))
	for _, entry := range record.Visibility {
		docs = append(docs, visibilityEntryDoc{
			UserID: entry.UserID,
			Role:   string(entry.Role),
			Level:  string(entry.Level),
		})
	}
	visibility, err := json.Marshal(docs)
	if err != nil {
		return recordModel{}, err
	}
	return recordModel{
		RecordID:    record.ID,
		FarmAdminID: record.FarmAdminID,
		DataType:    string(record.Type),
		Payload:     payload,
		Visibility:  visibility,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}, nil
}

func (row recordModel) toEntity() (entities.SharedRecord, error) {
	payload := map[string]any{}
	if len(row.Payload) > 0 {
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			return entities.SharedRecord{}, err
		}
	}
	var docs []visibilityEntryDoc
	if len(row.Visibility) > 0 {
		if err := json.Unmarshal(row.Visibility, &docs); err != nil {
			return entities.SharedRecord{}, err
		}
	}
	visibility := make([]entities.VisibilityEntry, 0, len(docs))
	for _, doc := range docs {
		visibility = append(visibility, entities.VisibilityEntry{
			UserID: doc.UserID,
			Role:   accesspolicy.Role(doc.Role),
			Level:  accesspolicy.AccessLevel(doc.Level),
		})
	}
	return entities.SharedRecord{
		ID:          row.RecordID,
		FarmAdminID: row.FarmAdminID,
		Type:        accesspolicy.DataType(row.DataType),
		Payload:     payload,
		Visibility:  visibility,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

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

type userRow struct {
	UserID string `gorm:"column:user_id;primaryKey"`
	Role   string `gorm:"column:role"`
	Status string `gorm:"column:status"`
}

func (userRow) TableName() string { return "platform_users" }

type outboxRow struct {
	OutboxID  string    `gorm:"column:outbox_id;primaryKey"`
	EventType string    `gorm:"column:event_type"`
	Payload   []byte    `gorm:"column:payload;type:jsonb"`
	Status    string    `gorm:"column:status"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (outboxRow) TableName() string { return "trust_notification_outbox" }
