package queries

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/data-sharing/domain/entities"
	domainerrors "agrilink/contexts/trust-network/data-sharing/domain/errors"
	"agrilink/contexts/trust-network/data-sharing/ports"
)

const moduleName = "trust-network/data-sharing"

type GetAccessibleDataQuery struct {
	UserID   string
	DataType accesspolicy.DataType
}

// GetAccessibleDataUseCase lists the records of a data type the user can
// read: all of their own when they are the owning farm admin, otherwise the
// records of their active counterparties whose visibility includes them.
type GetAccessibleDataUseCase struct {
	Records       ports.RecordRepository
	Relationships ports.RelationshipDirectory
	Users         ports.UserDirectory
	Logger        *slog.Logger
}

func (u GetAccessibleDataUseCase) Execute(ctx context.Context, query GetAccessibleDataQuery) ([]entities.SharedRecord, error) {
	query.UserID = strings.TrimSpace(query.UserID)
	if query.UserID == "" || !query.DataType.IsValid() {
		return nil, domainerrors.ErrInvalidRequest
	}

	user, found, err := u.Users.FindUserByID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domainerrors.ErrUserNotFound
	}
	if user.Status != accesspolicy.UserStatusActive {
		return nil, domainerrors.ErrUnauthorized
	}

	if user.Role == accesspolicy.RoleFarmAdmin {
		own, err := u.Records.ListRecordsByFarmAdminAndType(ctx, query.UserID, query.DataType)
		if err != nil {
			return nil, err
		}
		sortRecords(own)
		return own, nil
	}

	rels, err := u.Relationships.ListActiveByUser(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	seenOwner := map[string]struct{}{}
	var accessible []entities.SharedRecord
	for _, rel := range rels {
		ownerID := rel.FarmAdminID
		if ownerID == query.UserID {
			continue
		}
		if _, done := seenOwner[ownerID]; done {
			continue
		}
		seenOwner[ownerID] = struct{}{}

		records, err := u.Records.ListRecordsByFarmAdminAndType(ctx, ownerID, query.DataType)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			if record.VisibleTo(query.UserID, user.Role) {
				accessible = append(accessible, record)
			}
		}
	}
	sortRecords(accessible)
	return accessible, nil
}

func sortRecords(records []entities.SharedRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}
