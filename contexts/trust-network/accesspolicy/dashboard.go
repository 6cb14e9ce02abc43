package accesspolicy

// DashboardConfig is the fixed role-indexed bundle consumed by dashboard
// assembly. Lookup never fails: unknown roles get the minimal fallback so a
// dashboard always renders.
type DashboardConfig struct {
	Widgets     []string
	Permissions map[string][]string
	Navigation  []string
}

var dashboardConfigs = map[Role]DashboardConfig{
	RoleAppAdmin: {
		Widgets:    []string{"user-approvals", "platform-health", "relationship-overview"},
		Navigation: []string{"users", "relationships", "settings"},
	},
	RoleFarmAdmin: {
		Widgets:    []string{"relationship-requests", "field-manager-activity", "supply-chain-feed", "invitations"},
		Navigation: []string{"relationships", "field-managers", "supply-chain", "profile"},
	},
	RoleFieldManager: {
		Widgets:    []string{"assigned-farms", "field-operations", "equipment-usage"},
		Navigation: []string{"field-operations", "equipment", "profile"},
	},
	RoleFarmer: {
		Widgets:    []string{"deliveries", "field-operations-feed", "transactions"},
		Navigation: []string{"deliveries", "transactions", "profile"},
	},
	RoleLorryAgency: {
		Widgets:    []string{"transport-jobs", "delivery-schedule", "transactions"},
		Navigation: []string{"transportation", "transactions", "profile"},
	},
	RoleFieldEquipmentManager: {
		Widgets:    []string{"equipment-usage", "field-operations-feed", "transactions"},
		Navigation: []string{"equipment", "transactions", "profile"},
	},
	RoleInputSupplier: {
		Widgets:    []string{"input-orders", "field-operations-feed", "transactions"},
		Navigation: []string{"input-supply", "transactions", "profile"},
	},
	RoleDealer: {
		Widgets:    []string{"sales", "deliveries", "transactions"},
		Navigation: []string{"transactions", "deliveries", "profile"},
	},
}

// FallbackDashboardConfig is returned for roles missing from the table.
func FallbackDashboardConfig() DashboardConfig {
	return DashboardConfig{
		Widgets:     []string{},
		Permissions: map[string][]string{"profile": {"read"}},
		Navigation:  []string{"profile"},
	}
}

// DashboardConfigFor returns the role's bundle with permissions filled from
// RolePermissions. Copies are returned so callers cannot mutate the tables.
func DashboardConfigFor(role Role) DashboardConfig {
	base, ok := dashboardConfigs[role]
	if !ok {
		return FallbackDashboardConfig()
	}

	permissions := make(map[string][]string, len(RolePermissions[role]))
	for resource, actions := range RolePermissions[role] {
		permissions[resource] = append([]string(nil), actions...)
	}
	if len(permissions) == 0 {
		return FallbackDashboardConfig()
	}

	return DashboardConfig{
		Widgets:     append([]string(nil), base.Widgets...),
		Permissions: permissions,
		Navigation:  append([]string(nil), base.Navigation...),
	}
}
