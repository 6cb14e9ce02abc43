package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "agrilink/contexts/trust-network/data-sharing/application"
	domainerrors "agrilink/contexts/trust-network/data-sharing/domain/errors"
	"agrilink/contexts/trust-network/data-sharing/domain/services"
	"agrilink/contexts/trust-network/data-sharing/ports"
)

type CheckDataAccessQuery struct {
	UserID     string
	RecordID   string
	AccessKind services.AccessKind
}

// CheckDataAccessUseCase answers whether the user may read, write, or
// delete a record. Owners always may. Other users need a sufficient
// visibility entry and a still-active relationship with the owner. The
// check fails closed: lookup errors and missing records deny.
type CheckDataAccessUseCase struct {
	Records       ports.RecordRepository
	Relationships ports.RelationshipDirectory
	Users         ports.UserDirectory
	Logger        *slog.Logger
}

func (u CheckDataAccessUseCase) Execute(ctx context.Context, query CheckDataAccessQuery) (bool, error) {
	logger := application.ResolveLogger(u.Logger)
	query.UserID = strings.TrimSpace(query.UserID)
	query.RecordID = strings.TrimSpace(query.RecordID)
	if query.UserID == "" || query.RecordID == "" || !query.AccessKind.IsValid() {
		return false, domainerrors.ErrInvalidRequest
	}

	record, err := u.Records.GetRecord(ctx, query.RecordID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrRecordNotFound) {
			return false, nil
		}
		u.logDenied(logger, query, err)
		return false, nil
	}

	allowed, err := application.DataAccessAllowed(ctx, u.Users, u.Relationships, record, query.UserID, query.AccessKind)
	if err != nil {
		u.logDenied(logger, query, err)
		return false, nil
	}
	return allowed, nil
}

func (u CheckDataAccessUseCase) logDenied(logger *slog.Logger, query CheckDataAccessQuery, err error) {
	logger.Error("data access check failed",
		"event", "data_access_check_failed",
		"module", moduleName,
		"layer", "application",
		"record_id", query.RecordID,
		"user_id", query.UserID,
		"access_kind", string(query.AccessKind),
		"error", err,
	)
}
