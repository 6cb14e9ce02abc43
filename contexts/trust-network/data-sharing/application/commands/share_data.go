package commands

import (
	"context"
	"log/slog"
	"strings"

	"agrilink/contexts/trust-network/accesspolicy"
	application "agrilink/contexts/trust-network/data-sharing/application"
	"agrilink/contexts/trust-network/data-sharing/domain/entities"
	domainerrors "agrilink/contexts/trust-network/data-sharing/domain/errors"
	"agrilink/contexts/trust-network/data-sharing/domain/services"
	"agrilink/contexts/trust-network/data-sharing/ports"
)

type ShareDataCommand struct {
	FarmAdminID string
	DataType    accesspolicy.DataType
	Payload     map[string]any
}

// ShareDataUseCase publishes a farm data record into the trust network. The
// visibility snapshot is taken from the owner's active relationships at
// share time.
type ShareDataUseCase struct {
	Records       ports.RecordRepository
	Relationships ports.RelationshipDirectory
	Users         ports.UserDirectory
	Notifier      ports.Notifier
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger
}

func (u ShareDataUseCase) Execute(ctx context.Context, cmd ShareDataCommand) (entities.SharedRecord, error) {
	logger := application.ResolveLogger(u.Logger)
	cmd.FarmAdminID = strings.TrimSpace(cmd.FarmAdminID)
	if cmd.FarmAdminID == "" || !cmd.DataType.IsValid() {
		return entities.SharedRecord{}, domainerrors.ErrInvalidRequest
	}

	if _, err := requireActiveFarmAdmin(ctx, u.Users, cmd.FarmAdminID); err != nil {
		return entities.SharedRecord{}, err
	}

	links, err := collectActiveLinks(ctx, u.Relationships, u.Users, cmd.FarmAdminID)
	if err != nil {
		return entities.SharedRecord{}, err
	}
	visibility := services.SnapshotVisibility(links, cmd.DataType)

	now := u.Clock.Now().UTC()
	recordID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.SharedRecord{}, err
	}
	record, err := entities.NewSharedRecord(recordID, cmd.FarmAdminID, cmd.DataType, cmd.Payload, visibility, now)
	if err != nil {
		return entities.SharedRecord{}, err
	}
	if err := u.Records.CreateRecord(ctx, record); err != nil {
		return entities.SharedRecord{}, err
	}

	logger.Info("data shared",
		"event", "data_shared",
		"module", moduleName,
		"layer", "application",
		"record_id", record.ID,
		"farm_admin_id", record.FarmAdminID,
		"data_type", string(record.Type),
		"visible_to", len(record.Visibility),
	)

	for _, entry := range record.Visibility {
		notifyBestEffort(ctx, u.Notifier, logger, ports.Notification{
			UserID: entry.UserID,
			Kind:   ports.NotificationDataShared,
			Payload: map[string]any{
				"record_id":     record.ID,
				"farm_admin_id": record.FarmAdminID,
				"data_type":     string(record.Type),
				"access_level":  string(entry.Level),
			},
		})
	}
	return record, nil
}
