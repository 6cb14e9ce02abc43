package accesspolicy

import "testing"

func TestRoleForRelationshipTypeCoversAllTypes(t *testing.T) {
	types := []RelationshipType{
		RelationshipTypeFieldManager,
		RelationshipTypeFarmerSupplier,
		RelationshipTypeLorryAgency,
		RelationshipTypeEquipmentProvider,
		RelationshipTypeInputSupplier,
		RelationshipTypeDealer,
	}
	for _, relType := range types {
		role, ok := RoleForRelationshipType[relType]
		if !ok {
			t.Fatalf("no role mapping for %s", relType)
		}
		if !role.IsValid() {
			t.Fatalf("mapped role %s for %s is not a valid role", role, relType)
		}
	}
}

func TestDataAccessMatrixFieldManagerRow(t *testing.T) {
	level, ok := DataAccessLevel(RelationshipTypeFieldManager, DataTypeFieldOperations)
	if !ok || level != AccessLevelReadWrite {
		t.Fatalf("field manager / field operations: got %s ok=%v", level, ok)
	}
	level, ok = DataAccessLevel(RelationshipTypeFieldManager, DataTypeInputSupply)
	if !ok || level != AccessLevelReadOnly {
		t.Fatalf("field manager / input supply: got %s ok=%v", level, ok)
	}
	if _, ok := DataAccessLevel(RelationshipTypeFieldManager, DataTypeSalesTransaction); ok {
		t.Fatal("field manager must have no grant for sales transactions")
	}
}

func TestDataAccessLevelAbsentPairGrantsNothing(t *testing.T) {
	if _, ok := DataAccessLevel(RelationshipTypeDealer, DataTypeFieldOperations); ok {
		t.Fatal("dealer has no field operations grant in the matrix")
	}
	if _, ok := DataAccessLevel(RelationshipType("unknown"), DataTypeFieldOperations); ok {
		t.Fatal("unknown relationship type must grant nothing")
	}
}

func TestAccessLevelOrdering(t *testing.T) {
	if !AccessLevelFullAccess.AtLeast(AccessLevelReadOnly) {
		t.Fatal("full access must imply read only")
	}
	if !AccessLevelReadWrite.AtLeast(AccessLevelReadWrite) {
		t.Fatal("read write must imply itself")
	}
	if AccessLevelReadOnly.AtLeast(AccessLevelReadWrite) {
		t.Fatal("read only must not imply read write")
	}
	if AccessLevel("bogus").AtLeast(AccessLevel("bogus")) {
		t.Fatal("unknown levels must never satisfy AtLeast")
	}
}

func TestAccessLevelIsValid(t *testing.T) {
	for _, level := range []AccessLevel{AccessLevelReadOnly, AccessLevelReadWrite, AccessLevelFullAccess} {
		if !level.IsValid() {
			t.Fatalf("level %q must be valid", level)
		}
	}
	if AccessLevel("bogus").IsValid() {
		t.Fatal("unknown level must be invalid")
	}
	if AccessLevel("").IsValid() {
		t.Fatal("empty level must be invalid")
	}
}

func TestRoleAllows(t *testing.T) {
	if !RoleAllows(RoleFarmAdmin, "relationships", "create") {
		t.Fatal("farm admin can create relationships")
	}
	if RoleAllows(RoleFarmer, "relationships", "create") {
		t.Fatal("farmer cannot create relationships")
	}
	if RoleAllows(Role("ghost"), "profile", "read") {
		t.Fatal("unknown role gets nothing")
	}
}

func TestDefaultPermissionsReturnsCopies(t *testing.T) {
	set := DefaultPermissions(RelationshipTypeFieldManager)
	if len(set.Read) == 0 || len(set.Write) == 0 {
		t.Fatal("field manager defaults must not be empty")
	}
	set.Read[0] = "mutated"
	again := DefaultPermissions(RelationshipTypeFieldManager)
	if again.Read[0] == "mutated" {
		t.Fatal("DefaultPermissions must not expose the table slices")
	}
	if got := DefaultPermissions(RelationshipType("unknown")); len(got.Read) != 0 || len(got.Write) != 0 {
		t.Fatal("unknown type gets empty capability set")
	}
}

func TestDashboardConfigFallback(t *testing.T) {
	cfg := DashboardConfigFor(Role("ghost"))
	actions, ok := cfg.Permissions["profile"]
	if !ok || len(actions) != 1 || actions[0] != "read" {
		t.Fatalf("fallback must be profile:read only, got %v", cfg.Permissions)
	}

	farmAdmin := DashboardConfigFor(RoleFarmAdmin)
	if len(farmAdmin.Widgets) == 0 || len(farmAdmin.Permissions) == 0 {
		t.Fatal("farm admin dashboard must carry widgets and permissions")
	}
}
