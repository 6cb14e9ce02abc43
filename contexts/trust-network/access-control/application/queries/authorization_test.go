package queries_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"agrilink/contexts/trust-network/access-control/adapters/memory"
	"agrilink/contexts/trust-network/access-control/application/queries"
	"agrilink/contexts/trust-network/access-control/ports"
	"agrilink/contexts/trust-network/accesspolicy"
)

func newFixture(t *testing.T) (*memory.Store, queries.CheckPermissionUseCase) {
	t.Helper()
	store := memory.NewStore()
	store.FreezeTime(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	return store, queries.CheckPermissionUseCase{
		Users:         store,
		Relationships: store,
		Clock:         store,
	}
}

func TestCheckPermissionRoleTable(t *testing.T) {
	_, check := newFixture(t)
	ctx := context.Background()

	decision, err := check.Execute(ctx, queries.CheckPermissionQuery{
		UserID:   "user_farm_admin_1",
		Resource: "profile",
		Action:   "read",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !decision.Allowed || decision.Reason != queries.ReasonGranted {
		t.Fatalf("expected grant, got %+v", decision)
	}
	if decision.CheckedAt != time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected CheckedAt %v", decision.CheckedAt)
	}

	decision, err = check.Execute(ctx, queries.CheckPermissionQuery{
		UserID:   "user_farmer_1",
		Resource: "relationships",
		Action:   "create",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if decision.Allowed || decision.Reason != queries.ReasonPermissionMissing {
		t.Fatalf("expected permission_missing, got %+v", decision)
	}
}

func TestCheckPermissionDeniesInactiveAndUnknownUsers(t *testing.T) {
	_, check := newFixture(t)
	ctx := context.Background()

	decision, _ := check.Execute(ctx, queries.CheckPermissionQuery{
		UserID:   "user_suspended_1",
		Resource: "profile",
		Action:   "read",
	})
	if decision.Allowed || decision.Reason != queries.ReasonUserInactive {
		t.Fatalf("expected user_inactive, got %+v", decision)
	}

	decision, _ = check.Execute(ctx, queries.CheckPermissionQuery{
		UserID:   "user_missing",
		Resource: "profile",
		Action:   "read",
	})
	if decision.Allowed || decision.Reason != queries.ReasonUserNotFound {
		t.Fatalf("expected user_not_found, got %+v", decision)
	}
}

func TestCheckPermissionGatesRelationshipResources(t *testing.T) {
	store, check := newFixture(t)
	ctx := context.Background()

	decision, _ := check.Execute(ctx, queries.CheckPermissionQuery{
		UserID:   "user_field_mgr_1",
		Resource: "field-operations",
		Action:   "read",
	})
	if decision.Allowed || decision.Reason != queries.ReasonNoActiveRelationship {
		t.Fatalf("expected no_active_relationship, got %+v", decision)
	}

	store.AddActiveRelationship(ports.RelationshipView{
		ID:                "rel_1",
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_field_mgr_1",
		Type:              accesspolicy.RelationshipTypeFieldManager,
	})
	decision, _ = check.Execute(ctx, queries.CheckPermissionQuery{
		UserID:   "user_field_mgr_1",
		Resource: "field-operations",
		Action:   "read",
	})
	if !decision.Allowed {
		t.Fatalf("expected grant after relationship, got %+v", decision)
	}

	store.RemoveRelationship("rel_1")
	decision, _ = check.Execute(ctx, queries.CheckPermissionQuery{
		UserID:   "user_field_mgr_1",
		Resource: "field-operations",
		Action:   "read",
	})
	if decision.Allowed {
		t.Fatalf("expected denial after termination, got %+v", decision)
	}
}

func TestCheckPermissionFailsClosedOnLookupErrors(t *testing.T) {
	store, check := newFixture(t)
	ctx := context.Background()

	store.FailNextUserLookup()
	decision, err := check.Execute(ctx, queries.CheckPermissionQuery{
		UserID:   "user_farm_admin_1",
		Resource: "profile",
		Action:   "read",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if decision.Allowed || decision.Reason != queries.ReasonLookupFailed {
		t.Fatalf("expected lookup_failed denial, got %+v", decision)
	}

	store.FailNextRelationshipLookup()
	decision, _ = check.Execute(ctx, queries.CheckPermissionQuery{
		UserID:   "user_farm_admin_1",
		Resource: "transactions",
		Action:   "read",
	})
	if decision.Allowed || decision.Reason != queries.ReasonLookupFailed {
		t.Fatalf("expected lookup_failed denial, got %+v", decision)
	}
}

func TestValidateRelationshipAccessPaths(t *testing.T) {
	store := memory.NewStore()
	validate := queries.ValidateRelationshipAccessUseCase{Users: store, Relationships: store}
	ctx := context.Background()

	cases := []struct {
		name   string
		user   string
		target string
		want   bool
	}{
		{"self access", "user_farmer_1", "user_farmer_1", true},
		{"app admin bypass", "user_app_admin_1", "user_farmer_1", true},
		{"no relationship", "user_farmer_1", "user_farm_admin_1", false},
		{"suspended denied self aside", "user_suspended_1", "user_farmer_1", false},
	}
	for _, tc := range cases {
		got, err := validate.Execute(ctx, queries.ValidateRelationshipAccessQuery{
			UserID:       tc.user,
			TargetUserID: tc.target,
		})
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}

	store.AddActiveRelationship(ports.RelationshipView{
		ID:                "rel_fm",
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_field_mgr_1",
		Type:              accesspolicy.RelationshipTypeFieldManager,
	})

	for _, pair := range [][2]string{
		{"user_field_mgr_1", "user_farm_admin_1"},
		{"user_farm_admin_1", "user_field_mgr_1"},
	} {
		got, err := validate.Execute(ctx, queries.ValidateRelationshipAccessQuery{
			UserID:       pair[0],
			TargetUserID: pair[1],
		})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if !got {
			t.Fatalf("expected %s to reach %s", pair[0], pair[1])
		}
	}
}

func TestValidateRelationshipAccessFailsClosed(t *testing.T) {
	store := memory.NewStore()
	validate := queries.ValidateRelationshipAccessUseCase{Users: store, Relationships: store}
	ctx := context.Background()

	store.AddActiveRelationship(ports.RelationshipView{
		ID:                "rel_fm",
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_field_mgr_1",
		Type:              accesspolicy.RelationshipTypeFieldManager,
	})
	store.FailNextRelationshipLookup()
	got, err := validate.Execute(ctx, queries.ValidateRelationshipAccessQuery{
		UserID:       "user_field_mgr_1",
		TargetUserID: "user_farm_admin_1",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got {
		t.Fatal("lookup failure must deny access")
	}
}

func TestUserPermissionsIncludeRelationshipGrants(t *testing.T) {
	store := memory.NewStore()
	permissionsOf := queries.GetUserPermissionsUseCase{Users: store, Relationships: store}
	ctx := context.Background()

	before, err := permissionsOf.Execute(ctx, queries.GetUserPermissionsQuery{UserID: "user_farm_admin_1"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if contains(before, "field-managers:invite") {
		t.Fatal("relationship grant present without active relationship")
	}

	store.AddActiveRelationship(ports.RelationshipView{
		ID:                "rel_1",
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_farmer_1",
		Type:              accesspolicy.RelationshipTypeFarmerSupplier,
	})
	after, err := permissionsOf.Execute(ctx, queries.GetUserPermissionsQuery{UserID: "user_farm_admin_1"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !contains(after, "field-managers:invite") || !contains(after, "relationships:manage") {
		t.Fatalf("relationship grants missing from %v", after)
	}
	if !sortedDeduped(after) {
		t.Fatalf("result not sorted/deduped: %v", after)
	}

	empty, err := permissionsOf.Execute(ctx, queries.GetUserPermissionsQuery{UserID: "user_missing"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("unknown user must get empty permissions, got %v", empty)
	}
}

func TestDashboardConfigFallsBack(t *testing.T) {
	store := memory.NewStore()
	dashboard := queries.GetDashboardConfigUseCase{Users: store}
	ctx := context.Background()

	config, err := dashboard.Execute(ctx, queries.GetDashboardConfigQuery{UserID: "user_farm_admin_1"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(config.Widgets) == 0 || len(config.Permissions) == 0 {
		t.Fatalf("expected full farm admin config, got %+v", config)
	}

	fallback := accesspolicy.FallbackDashboardConfig()
	for _, userID := range []string{"user_missing", "user_suspended_1"} {
		config, err = dashboard.Execute(ctx, queries.GetDashboardConfigQuery{UserID: userID})
		if err != nil {
			t.Fatalf("Execute(%s): %v", userID, err)
		}
		if !reflect.DeepEqual(config, fallback) {
			t.Fatalf("%s: expected fallback config, got %+v", userID, config)
		}
	}

	store.FailNextUserLookup()
	config, err = dashboard.Execute(ctx, queries.GetDashboardConfigQuery{UserID: "user_farm_admin_1"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !reflect.DeepEqual(config, fallback) {
		t.Fatalf("lookup failure must fall back, got %+v", config)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func sortedDeduped(values []string) bool {
	for i := 1; i < len(values); i++ {
		if values[i-1] >= values[i] {
			return false
		}
	}
	return true
}
