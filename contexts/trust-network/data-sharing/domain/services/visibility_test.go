package services

import (
	"testing"

	"agrilink/contexts/trust-network/accesspolicy"
)

func TestSnapshotVisibilitySkipsAbsentMatrixPairs(t *testing.T) {
	links := []ActiveLink{
		{UserID: "fm", Role: accesspolicy.RoleFieldManager, Type: accesspolicy.RelationshipTypeFieldManager},
		{UserID: "lorry", Role: accesspolicy.RoleLorryAgency, Type: accesspolicy.RelationshipTypeLorryAgency},
		{UserID: "dealer", Role: accesspolicy.RoleDealer, Type: accesspolicy.RelationshipTypeDealer},
	}

	entries := SnapshotVisibility(links, accesspolicy.DataTypeFieldOperations)
	if len(entries) != 1 {
		t.Fatalf("expected only the field manager, got %v", entries)
	}
	if entries[0].UserID != "fm" || entries[0].Level != accesspolicy.AccessLevelReadWrite {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
}

func TestSnapshotVisibilityDeduplicatesUsers(t *testing.T) {
	links := []ActiveLink{
		{UserID: "farmer", Role: accesspolicy.RoleFarmer, Type: accesspolicy.RelationshipTypeFarmerSupplier},
		{UserID: "farmer", Role: accesspolicy.RoleFarmer, Type: accesspolicy.RelationshipTypeFarmerSupplier},
	}
	entries := SnapshotVisibility(links, accesspolicy.DataTypeCommodityDelivery)
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %v", entries)
	}
}

func TestLevelAllows(t *testing.T) {
	cases := []struct {
		level accesspolicy.AccessLevel
		kind  AccessKind
		want  bool
	}{
		{accesspolicy.AccessLevelReadOnly, AccessRead, true},
		{accesspolicy.AccessLevelReadOnly, AccessWrite, false},
		{accesspolicy.AccessLevelReadOnly, AccessDelete, false},
		{accesspolicy.AccessLevelReadWrite, AccessRead, true},
		{accesspolicy.AccessLevelReadWrite, AccessWrite, true},
		{accesspolicy.AccessLevelReadWrite, AccessDelete, false},
		{accesspolicy.AccessLevelFullAccess, AccessRead, true},
		{accesspolicy.AccessLevelFullAccess, AccessWrite, true},
		{accesspolicy.AccessLevelFullAccess, AccessDelete, true},
		{accesspolicy.AccessLevel("bogus"), AccessRead, false},
	}
	for _, tc := range cases {
		if got := LevelAllows(tc.level, tc.kind); got != tc.want {
			t.Errorf("LevelAllows(%s, %s) = %v, want %v", tc.level, tc.kind, got, tc.want)
		}
	}
}
