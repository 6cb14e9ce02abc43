package commands

import (
	"context"
	"log/slog"
	"strings"

	application "agrilink/contexts/trust-network/data-sharing/application"
	"agrilink/contexts/trust-network/data-sharing/domain/entities"
	domainerrors "agrilink/contexts/trust-network/data-sharing/domain/errors"
	"agrilink/contexts/trust-network/data-sharing/domain/services"
	"agrilink/contexts/trust-network/data-sharing/ports"
)

type UpdateSharedDataCommand struct {
	RecordID string
	UserID   string
	Updates  map[string]any
}

// UpdateSharedDataUseCase merges updates into a shared record. Write access
// follows the same rules as access checks: the owner, or a visibility entry
// at ReadWrite or better backed by a still-active relationship.
type UpdateSharedDataUseCase struct {
	Records       ports.RecordRepository
	Relationships ports.RelationshipDirectory
	Users         ports.UserDirectory
	Notifier      ports.Notifier
	Clock         ports.Clock
	Logger        *slog.Logger
}

func (u UpdateSharedDataUseCase) Execute(ctx context.Context, cmd UpdateSharedDataCommand) (entities.SharedRecord, error) {
	logger := application.ResolveLogger(u.Logger)
	cmd.RecordID = strings.TrimSpace(cmd.RecordID)
	cmd.UserID = strings.TrimSpace(cmd.UserID)
	if cmd.RecordID == "" || cmd.UserID == "" || len(cmd.Updates) == 0 {
		return entities.SharedRecord{}, domainerrors.ErrInvalidRequest
	}

	record, err := u.Records.GetRecord(ctx, cmd.RecordID)
	if err != nil {
		return entities.SharedRecord{}, err
	}

	allowed, err := application.DataAccessAllowed(ctx, u.Users, u.Relationships, record, cmd.UserID, services.AccessWrite)
	if err != nil {
		return entities.SharedRecord{}, err
	}
	if !allowed {
		logger.Warn("shared data update denied",
			"event", "data_update_denied",
			"module", moduleName,
			"layer", "application",
			"record_id", record.ID,
			"user_id", cmd.UserID,
		)
		return entities.SharedRecord{}, domainerrors.ErrUnauthorized
	}

	record.MergePayload(cmd.Updates, u.Clock.Now().UTC())
	if err := u.Records.UpdateRecord(ctx, record); err != nil {
		return entities.SharedRecord{}, err
	}

	logger.Info("shared data updated",
		"event", "data_updated",
		"module", moduleName,
		"layer", "application",
		"record_id", record.ID,
		"user_id", cmd.UserID,
		"data_type", string(record.Type),
	)

	for _, entry := range record.Visibility {
		if entry.UserID == cmd.UserID {
			continue
		}
		notifyBestEffort(ctx, u.Notifier, logger, ports.Notification{
			UserID: entry.UserID,
			Kind:   ports.NotificationDataUpdated,
			Payload: map[string]any{
				"record_id":     record.ID,
				"farm_admin_id": record.FarmAdminID,
				"data_type":     string(record.Type),
				"updated_by":    cmd.UserID,
			},
		})
	}
	return record, nil
}
