package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/data-sharing/adapters/memory"
	"agrilink/contexts/trust-network/data-sharing/application/commands"
	domainerrors "agrilink/contexts/trust-network/data-sharing/domain/errors"
	"agrilink/contexts/trust-network/data-sharing/ports"
)

func newFixture(t *testing.T) (*memory.Store, commands.ShareDataUseCase, commands.UpdateSharedDataUseCase) {
	t.Helper()
	store := memory.NewStore()
	store.FreezeTime(time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC))
	share := commands.ShareDataUseCase{
		Records:       store,
		Relationships: store,
		Users:         store,
		Notifier:      store,
		Clock:         store,
		IDGenerator:   store,
	}
	update := commands.UpdateSharedDataUseCase{
		Records:       store,
		Relationships: store,
		Users:         store,
		Notifier:      store,
		Clock:         store,
	}
	return store, share, update
}

func TestShareDataSnapshotsVisibilityAndNotifies(t *testing.T) {
	store, share, _ := newFixture(t)
	ctx := context.Background()

	store.AddActiveRelationship(ports.RelationshipView{
		ID:                "rel_fm",
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_field_mgr_1",
		Type:              accesspolicy.RelationshipTypeFieldManager,
	})
	store.AddActiveRelationship(ports.RelationshipView{
		ID:                "rel_lorry",
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_lorry_1",
		Type:              accesspolicy.RelationshipTypeLorryAgency,
	})

	record, err := share.Execute(ctx, commands.ShareDataCommand{
		FarmAdminID: "user_farm_admin_1",
		DataType:    accesspolicy.DataTypeFieldOperations,
		Payload:     map[string]any{"field": "north-40", "activity": "sowing"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(record.Visibility) != 1 {
		t.Fatalf("lorry agency has no field-operations access, got %v", record.Visibility)
	}
	entry := record.Visibility[0]
	if entry.UserID != "user_field_mgr_1" || entry.Level != accesspolicy.AccessLevelReadWrite {
		t.Fatalf("unexpected visibility entry %+v", entry)
	}
	if !record.CreatedAt.Equal(time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected CreatedAt %v", record.CreatedAt)
	}

	notifications := store.Notifications()
	if len(notifications) != 1 {
		t.Fatalf("expected one data_shared notification, got %d", len(notifications))
	}
	if notifications[0].Kind != ports.NotificationDataShared || notifications[0].UserID != "user_field_mgr_1" {
		t.Fatalf("unexpected notification %+v", notifications[0])
	}
}

func TestShareDataRequiresActiveFarmAdmin(t *testing.T) {
	_, share, _ := newFixture(t)
	ctx := context.Background()

	if _, err := share.Execute(ctx, commands.ShareDataCommand{
		FarmAdminID: "user_field_mgr_1",
		DataType:    accesspolicy.DataTypeFieldOperations,
	}); !errors.Is(err, domainerrors.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	if _, err := share.Execute(ctx, commands.ShareDataCommand{
		FarmAdminID: "user_missing",
		DataType:    accesspolicy.DataTypeFieldOperations,
	}); !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := share.Execute(ctx, commands.ShareDataCommand{
		FarmAdminID: "user_farm_admin_1",
		DataType:    accesspolicy.DataType("weather"),
	}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestUpdateSharedDataHonorsWriteLevels(t *testing.T) {
	store, share, update := newFixture(t)
	ctx := context.Background()

	store.AddActiveRelationship(ports.RelationshipView{
		ID:                "rel_fm",
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_field_mgr_1",
		Type:              accesspolicy.RelationshipTypeFieldManager,
	})
	store.AddActiveRelationship(ports.RelationshipView{
		ID:                "rel_supplier",
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_farmer_1",
		Type:              accesspolicy.RelationshipTypeFarmerSupplier,
	})

	record, err := share.Execute(ctx, commands.ShareDataCommand{
		FarmAdminID: "user_farm_admin_1",
		DataType:    accesspolicy.DataTypeFieldOperations,
		Payload:     map[string]any{"status": "planned"},
	})
	if err != nil {
		t.Fatalf("share: %v", err)
	}

	// ReadWrite entry may update.
	updated, err := update.Execute(ctx, commands.UpdateSharedDataCommand{
		RecordID: record.ID,
		UserID:   "user_field_mgr_1",
		Updates:  map[string]any{"status": "in_progress"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Payload["status"] != "in_progress" {
		t.Fatalf("payload not merged: %v", updated.Payload)
	}

	// ReadOnly entry may not.
	if _, err := update.Execute(ctx, commands.UpdateSharedDataCommand{
		RecordID: record.ID,
		UserID:   "user_farmer_1",
		Updates:  map[string]any{"status": "done"},
	}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for read-only entry, got %v", err)
	}

	// A terminated relationship revokes write access despite the snapshot.
	store.RemoveRelationship("rel_fm")
	if _, err := update.Execute(ctx, commands.UpdateSharedDataCommand{
		RecordID: record.ID,
		UserID:   "user_field_mgr_1",
		Updates:  map[string]any{"status": "done"},
	}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after termination, got %v", err)
	}

	// The owner always may, and the change notifies the visibility entries.
	before := len(store.Notifications())
	if _, err := update.Execute(ctx, commands.UpdateSharedDataCommand{
		RecordID: record.ID,
		UserID:   "user_farm_admin_1",
		Updates:  map[string]any{"status": "done"},
	}); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	after := store.Notifications()[before:]
	if len(after) != 2 {
		t.Fatalf("expected both visibility entries notified, got %+v", after)
	}
	for _, notification := range after {
		if notification.Kind != ports.NotificationDataUpdated {
			t.Fatalf("unexpected notification kind %q", notification.Kind)
		}
	}
}
