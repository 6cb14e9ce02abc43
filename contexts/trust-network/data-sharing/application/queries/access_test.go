package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/data-sharing/adapters/memory"
	"agrilink/contexts/trust-network/data-sharing/application/commands"
	"agrilink/contexts/trust-network/data-sharing/application/queries"
	domainerrors "agrilink/contexts/trust-network/data-sharing/domain/errors"
	"agrilink/contexts/trust-network/data-sharing/domain/services"
	"agrilink/contexts/trust-network/data-sharing/ports"
)

type fixture struct {
	store      *memory.Store
	share      commands.ShareDataUseCase
	accessible queries.GetAccessibleDataUseCase
	check      queries.CheckDataAccessUseCase
	visibility queries.GetDataVisibilityUseCase
	sync       queries.SyncFieldManagerDataUseCase
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	store.FreezeTime(time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC))
	return fixture{
		store: store,
		share: commands.ShareDataUseCase{
			Records:       store,
			Relationships: store,
			Users:         store,
			Notifier:      store,
			Clock:         store,
			IDGenerator:   store,
		},
		accessible: queries.GetAccessibleDataUseCase{Records: store, Relationships: store, Users: store},
		check:      queries.CheckDataAccessUseCase{Records: store, Relationships: store, Users: store},
		visibility: queries.GetDataVisibilityUseCase{Records: store, Users: store},
		sync:       queries.SyncFieldManagerDataUseCase{Records: store, Relationships: store, Users: store},
	}
}

func (f fixture) shareAs(t *testing.T, farmAdminID string, dataType accesspolicy.DataType) string {
	t.Helper()
	record, err := f.share.Execute(context.Background(), commands.ShareDataCommand{
		FarmAdminID: farmAdminID,
		DataType:    dataType,
		Payload:     map[string]any{"note": "test"},
	})
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	return record.ID
}

func TestOwnerRetainsFullAccessWithEmptyVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	recordID := f.shareAs(t, "user_farm_admin_1", accesspolicy.DataTypeFieldOperations)

	for _, kind := range []services.AccessKind{services.AccessRead, services.AccessWrite, services.AccessDelete} {
		allowed, err := f.check.Execute(ctx, queries.CheckDataAccessQuery{
			UserID:     "user_farm_admin_1",
			RecordID:   recordID,
			AccessKind: kind,
		})
		if err != nil {
			t.Fatalf("check %s: %v", kind, err)
		}
		if !allowed {
			t.Fatalf("owner must hold %s access even with empty visibility", kind)
		}
	}

	result, err := f.visibility.Execute(ctx, queries.GetDataVisibilityQuery{
		UserID:   "user_farm_admin_1",
		RecordID: recordID,
	})
	if err != nil {
		t.Fatalf("visibility: %v", err)
	}
	if !result.Visible || result.Level != accesspolicy.AccessLevelFullAccess {
		t.Fatalf("owner visibility should be full_access, got %+v", result)
	}
}

func TestFieldManagerMatrixAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.AddActiveRelationship(ports.RelationshipView{
		ID:                "rel_fm",
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_field_mgr_1",
		Type:              accesspolicy.RelationshipTypeFieldManager,
	})
	recordID := f.shareAs(t, "user_farm_admin_1", accesspolicy.DataTypeFieldOperations)

	cases := []struct {
		kind services.AccessKind
		want bool
	}{
		{services.AccessRead, true},
		{services.AccessWrite, true},
		{services.AccessDelete, false},
	}
	for _, tc := range cases {
		allowed, err := f.check.Execute(ctx, queries.CheckDataAccessQuery{
			UserID:     "user_field_mgr_1",
			RecordID:   recordID,
			AccessKind: tc.kind,
		})
		if err != nil {
			t.Fatalf("check %s: %v", tc.kind, err)
		}
		if allowed != tc.want {
			t.Fatalf("field manager %s access = %v, want %v", tc.kind, allowed, tc.want)
		}
	}

	// Terminating the relationship revokes access despite the snapshot.
	f.store.RemoveRelationship("rel_fm")
	allowed, err := f.check.Execute(ctx, queries.CheckDataAccessQuery{
		UserID:     "user_field_mgr_1",
		RecordID:   recordID,
		AccessKind: services.AccessRead,
	})
	if err != nil {
		t.Fatalf("check after termination: %v", err)
	}
	if allowed {
		t.Fatal("terminated relationship must revoke access")
	}
}

func TestCheckDataAccessDeniesUnknownRecordAndUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	allowed, err := f.check.Execute(ctx, queries.CheckDataAccessQuery{
		UserID:     "user_farm_admin_1",
		RecordID:   "rec_missing",
		AccessKind: services.AccessRead,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if allowed {
		t.Fatal("missing record must deny")
	}

	recordID := f.shareAs(t, "user_farm_admin_1", accesspolicy.DataTypeFieldOperations)
	allowed, err = f.check.Execute(ctx, queries.CheckDataAccessQuery{
		UserID:     "user_missing",
		RecordID:   recordID,
		AccessKind: services.AccessRead,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if allowed {
		t.Fatal("unknown user must deny")
	}

	if _, err := f.check.Execute(ctx, queries.CheckDataAccessQuery{
		UserID:     "user_farm_admin_1",
		RecordID:   recordID,
		AccessKind: services.AccessKind("own"),
	}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for bad access kind, got %v", err)
	}
}

func TestAccessibleDataUnionsAcrossRelationships(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.AddActiveRelationship(ports.RelationshipView{
		ID:                "rel_fm_1",
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_field_mgr_1",
		Type:              accesspolicy.RelationshipTypeFieldManager,
	})
	f.store.AddActiveRelationship(ports.RelationshipView{
		ID:                "rel_fm_2",
		FarmAdminID:       "user_farm_admin_2",
		ServiceProviderID: "user_field_mgr_1",
		Type:              accesspolicy.RelationshipTypeFieldManager,
	})

	first := f.shareAs(t, "user_farm_admin_1", accesspolicy.DataTypeFieldOperations)
	second := f.shareAs(t, "user_farm_admin_2", accesspolicy.DataTypeFieldOperations)
	f.shareAs(t, "user_farm_admin_1", accesspolicy.DataTypeEquipmentUsage)

	records, err := f.accessible.Execute(ctx, queries.GetAccessibleDataQuery{
		UserID:   "user_field_mgr_1",
		DataType: accesspolicy.DataTypeFieldOperations,
	})
	if err != nil {
		t.Fatalf("accessible: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected records from both farms, got %d", len(records))
	}
	got := map[string]bool{}
	for _, record := range records {
		got[record.ID] = true
	}
	if !got[first] || !got[second] {
		t.Fatalf("missing expected records, got %v", got)
	}

	// The owner sees all own records of the type regardless of visibility.
	own, err := f.accessible.Execute(ctx, queries.GetAccessibleDataQuery{
		UserID:   "user_farm_admin_1",
		DataType: accesspolicy.DataTypeEquipmentUsage,
	})
	if err != nil {
		t.Fatalf("accessible: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("owner should see own equipment record, got %d", len(own))
	}
}

func TestSyncFieldManagerDataRequiresRelationship(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.sync.Execute(ctx, queries.SyncFieldManagerDataQuery{
		FieldManagerID: "user_field_mgr_1",
		FarmAdminID:    "user_farm_admin_1",
	}); !errors.Is(err, domainerrors.ErrNoActiveRelationship) {
		t.Fatalf("expected ErrNoActiveRelationship, got %v", err)
	}

	f.store.AddActiveRelationship(ports.RelationshipView{
		ID:                "rel_fm",
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_field_mgr_1",
		Type:              accesspolicy.RelationshipTypeFieldManager,
	})
	recordID := f.shareAs(t, "user_farm_admin_1", accesspolicy.DataTypeFieldOperations)

	records, err := f.sync.Execute(ctx, queries.SyncFieldManagerDataQuery{
		FieldManagerID: "user_field_mgr_1",
		FarmAdminID:    "user_farm_admin_1",
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(records) != 1 || records[0].ID != recordID {
		t.Fatalf("expected the shared field-operations record, got %v", records)
	}

	// A non-FieldManager relationship type does not satisfy the guard.
	f.store.RemoveRelationship("rel_fm")
	f.store.AddActiveRelationship(ports.RelationshipView{
		ID:                "rel_supplier",
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_field_mgr_1",
		Type:              accesspolicy.RelationshipTypeFarmerSupplier,
	})
	if _, err := f.sync.Execute(ctx, queries.SyncFieldManagerDataQuery{
		FieldManagerID: "user_field_mgr_1",
		FarmAdminID:    "user_farm_admin_1",
	}); !errors.Is(err, domainerrors.ErrNoActiveRelationship) {
		t.Fatalf("expected ErrNoActiveRelationship for wrong type, got %v", err)
	}
}
