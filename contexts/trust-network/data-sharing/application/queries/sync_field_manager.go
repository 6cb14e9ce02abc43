package queries

import (
	"context"
	"log/slog"
	"strings"

	"agrilink/contexts/trust-network/accesspolicy"
	application "agrilink/contexts/trust-network/data-sharing/application"
	"agrilink/contexts/trust-network/data-sharing/domain/entities"
	domainerrors "agrilink/contexts/trust-network/data-sharing/domain/errors"
	"agrilink/contexts/trust-network/data-sharing/ports"
)

type SyncFieldManagerDataQuery struct {
	FieldManagerID string
	FarmAdminID    string
}

// SyncFieldManagerDataUseCase hands a field manager the field-operations
// records of the farm they are appointed to. An active FieldManager-type
// relationship between the pair is required.
type SyncFieldManagerDataUseCase struct {
	Records       ports.RecordRepository
	Relationships ports.RelationshipDirectory
	Users         ports.UserDirectory
	Logger        *slog.Logger
}

func (u SyncFieldManagerDataUseCase) Execute(ctx context.Context, query SyncFieldManagerDataQuery) ([]entities.SharedRecord, error) {
	logger := application.ResolveLogger(u.Logger)
	query.FieldManagerID = strings.TrimSpace(query.FieldManagerID)
	query.FarmAdminID = strings.TrimSpace(query.FarmAdminID)
	if query.FieldManagerID == "" || query.FarmAdminID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}

	manager, found, err := u.Users.FindUserByID(ctx, query.FieldManagerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainerrors.ErrUserNotFound
	}
	if manager.Role != accesspolicy.RoleFieldManager || manager.Status != accesspolicy.UserStatusActive {
		return nil, domainerrors.ErrUnauthorized
	}

	rel, active, err := u.Relationships.ActiveBetween(ctx, query.FieldManagerID, query.FarmAdminID)
	if err != nil {
		return nil, err
	}
	if !active || rel.Type != accesspolicy.RelationshipTypeFieldManager {
		return nil, domainerrors.ErrNoActiveRelationship
	}

	records, err := u.Records.ListRecordsByFarmAdminAndType(ctx, query.FarmAdminID, accesspolicy.DataTypeFieldOperations)
	if err != nil {
		return nil, err
	}
	accessible := make([]entities.SharedRecord, 0, len(records))
	for _, record := range records {
		if record.VisibleTo(query.FieldManagerID, manager.Role) {
			accessible = append(accessible, record)
		}
	}
	sortRecords(accessible)

	logger.Info("field manager data synced",
		"event", "field_manager_synced",
		"module", moduleName,
		"layer", "application",
		"field_manager_id", query.FieldManagerID,
		"farm_admin_id", query.FarmAdminID,
		"records", len(accessible),
	)
	return accessible, nil
}
