package queries

import (
	"context"
	"log/slog"
	"strings"

	"agrilink/contexts/trust-network/accesspolicy"
	domainerrors "agrilink/contexts/trust-network/data-sharing/domain/errors"
	"agrilink/contexts/trust-network/data-sharing/ports"
)

type GetDataVisibilityQuery struct {
	UserID   string
	RecordID string
}

// VisibilityResult reports the access level a user holds on a record.
// Owners report FullAccess, users absent from the snapshot report none.
type VisibilityResult struct {
	RecordID string
	UserID   string
	Visible  bool
	Level    accesspolicy.AccessLevel
}

type GetDataVisibilityUseCase struct {
	Records ports.RecordRepository
	Users   ports.UserDirectory
	Logger  *slog.Logger
}

func (u GetDataVisibilityUseCase) Execute(ctx context.Context, query GetDataVisibilityQuery) (VisibilityResult, error) {
	query.UserID = strings.TrimSpace(query.UserID)
	query.RecordID = strings.TrimSpace(query.RecordID)
	if query.UserID == "" || query.RecordID == "" {
		return VisibilityResult{}, domainerrors.ErrInvalidRequest
	}

	record, err := u.Records.GetRecord(ctx, query.RecordID)
	if err != nil {
		return VisibilityResult{}, err
	}

	result := VisibilityResult{RecordID: record.ID, UserID: query.UserID}
	if query.UserID == record.FarmAdminID {
		result.Visible = true
		result.Level = accesspolicy.AccessLevelFullAccess
		return result, nil
	}

	user, found, err := u.Users.FindUserByID(ctx, query.UserID)
	if err != nil {
		return VisibilityResult{}, err
	}
	if !found {
		return result, nil
	}
	if entry, ok := record.EntryFor(query.UserID, user.Role); ok {
		result.Visible = true
		result.Level = entry.Level
	}
	return result, nil
}
