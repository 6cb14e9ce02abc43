package accesspolicy

// Static authorization tables. Keep these data, not branching logic: adding a
// role or relationship type must stay a table change.

// RoleForRelationshipType is the fixed role a counterparty must hold for a
// relationship of the given type.
var RoleForRelationshipType = map[RelationshipType]Role{
	RelationshipTypeFieldManager:      RoleFieldManager,
	RelationshipTypeFarmerSupplier:    RoleFarmer,
	RelationshipTypeLorryAgency:       RoleLorryAgency,
	RelationshipTypeEquipmentProvider: RoleFieldEquipmentManager,
	RelationshipTypeInputSupplier:     RoleInputSupplier,
	RelationshipTypeDealer:            RoleDealer,
}

// CapabilitySet is the default read/write capability snapshot assigned to a
// relationship at creation time.
type CapabilitySet struct {
	Read  []string
	Write []string
}

var defaultCapabilities = map[RelationshipType]CapabilitySet{
	RelationshipTypeFieldManager: {
		Read:  []string{"field_operations", "crop_data", "equipment_usage"},
		Write: []string{"field_operations", "crop_status_updates"},
	},
	RelationshipTypeFarmerSupplier: {
		Read:  []string{"commodity_delivery", "field_operations"},
		Write: []string{"commodity_delivery"},
	},
	RelationshipTypeLorryAgency: {
		Read:  []string{"transportation", "commodity_delivery"},
		Write: []string{"transportation"},
	},
	RelationshipTypeEquipmentProvider: {
		Read:  []string{"equipment_usage", "field_operations"},
		Write: []string{"equipment_usage"},
	},
	RelationshipTypeInputSupplier: {
		Read:  []string{"input_supply", "field_operations"},
		Write: []string{"input_supply"},
	},
	RelationshipTypeDealer: {
		Read:  []string{"sales_transaction", "commodity_delivery"},
		Write: []string{"sales_transaction"},
	},
}

// DefaultPermissions returns a copy of the capability set for the type so
// callers cannot mutate the table.
func DefaultPermissions(relType RelationshipType) CapabilitySet {
	set, ok := defaultCapabilities[relType]
	if !ok {
		return CapabilitySet{}
	}
	return CapabilitySet{
		Read:  append([]string(nil), set.Read...),
		Write: append([]string(nil), set.Write...),
	}
}

// DataAccessMatrix maps relationship type x data type to the access level a
// visibility snapshot grants. Absent pairs grant nothing.
var DataAccessMatrix = map[RelationshipType]map[DataType]AccessLevel{
	RelationshipTypeFieldManager: {
		DataTypeFieldOperations: AccessLevelReadWrite,
		DataTypeEquipmentUsage:  AccessLevelReadWrite,
		DataTypeInputSupply:     AccessLevelReadOnly,
	},
	RelationshipTypeFarmerSupplier: {
		DataTypeCommodityDelivery: AccessLevelReadWrite,
		DataTypeFieldOperations:   AccessLevelReadOnly,
	},
	RelationshipTypeLorryAgency: {
		DataTypeTransportation:    AccessLevelReadWrite,
		DataTypeCommodityDelivery: AccessLevelReadOnly,
	},
	RelationshipTypeEquipmentProvider: {
		DataTypeEquipmentUsage:  AccessLevelReadWrite,
		DataTypeFieldOperations: AccessLevelReadOnly,
	},
	RelationshipTypeInputSupplier: {
		DataTypeInputSupply:     AccessLevelReadWrite,
		DataTypeFieldOperations: AccessLevelReadOnly,
	},
	RelationshipTypeDealer: {
		DataTypeSalesTransaction:  AccessLevelReadWrite,
		DataTypeCommodityDelivery: AccessLevelReadOnly,
	},
}

// DataAccessLevel resolves the matrix for one pair.
func DataAccessLevel(relType RelationshipType, dataType DataType) (AccessLevel, bool) {
	row, ok := DataAccessMatrix[relType]
	if !ok {
		return "", false
	}
	level, ok := row[dataType]
	return level, ok
}

// RelationshipResources are the resources that require at least one active
// relationship on top of the role-level grant.
var RelationshipResources = map[string]bool{
	"field-operations":   true,
	"supply-chain":       true,
	"transactions":       true,
	"communications":     true,
	"commodity-delivery": true,
	"equipment-usage":    true,
	"input-supply":       true,
	"transportation":     true,
}

// RolePermissions is the static role -> resource -> actions grant table used
// by permission checks and dashboard assembly.
var RolePermissions = map[Role]map[string][]string{
	RoleAppAdmin: {
		"profile":       {"read", "update"},
		"users":         {"read", "create", "update", "suspend", "approve"},
		"relationships": {"read"},
		"platform":      {"read", "configure"},
	},
	RoleFarmAdmin: {
		"profile":            {"read", "update"},
		"relationships":      {"read", "create", "update"},
		"field-managers":     {"read", "invite"},
		"supply-chain":       {"read", "create", "update"},
		"field-operations":   {"read"},
		"commodity-delivery": {"read"},
		"equipment-usage":    {"read"},
		"input-supply":       {"read"},
		"transportation":     {"read"},
		"transactions":       {"read"},
		"communications":     {"read", "create"},
	},
	RoleFieldManager: {
		"profile":          {"read", "update"},
		"field-operations": {"read", "create", "update"},
		"equipment-usage":  {"read", "update"},
		"input-supply":     {"read"},
		"communications":   {"read", "create"},
	},
	RoleFarmer: {
		"profile":            {"read", "update"},
		"commodity-delivery": {"read", "create", "update"},
		"field-operations":   {"read"},
		"transactions":       {"read"},
		"communications":     {"read", "create"},
	},
	RoleLorryAgency: {
		"profile":            {"read", "update"},
		"transportation":     {"read", "create", "update"},
		"commodity-delivery": {"read"},
		"transactions":       {"read"},
		"communications":     {"read", "create"},
	},
	RoleFieldEquipmentManager: {
		"profile":          {"read", "update"},
		"equipment-usage":  {"read", "create", "update"},
		"field-operations": {"read"},
		"transactions":     {"read"},
		"communications":   {"read", "create"},
	},
	RoleInputSupplier: {
		"profile":          {"read", "update"},
		"input-supply":     {"read", "create", "update"},
		"field-operations": {"read"},
		"transactions":     {"read"},
		"communications":   {"read", "create"},
	},
	RoleDealer: {
		"profile":            {"read", "update"},
		"transactions":       {"read", "create"},
		"commodity-delivery": {"read"},
		"communications":     {"read", "create"},
	},
}

// RoleAllows reports whether the static table grants the action on the
// resource for the role. Relationship gating is the caller's concern.
func RoleAllows(role Role, resource string, action string) bool {
	resources, ok := RolePermissions[role]
	if !ok {
		return false
	}
	actions, ok := resources[resource]
	if !ok {
		return false
	}
	for _, candidate := range actions {
		if candidate == action {
			return true
		}
	}
	return false
}

// RelationshipGrants are the extra resource:action permission strings a role
// gains while it holds at least one active relationship.
var RelationshipGrants = map[Role][]string{
	RoleFarmAdmin: {
		"relationships:manage",
		"field-managers:invite",
		"supply-chain:read",
		"supply-chain:update",
	},
	RoleFieldManager: {
		"field-operations:read",
		"field-operations:update",
	},
	RoleFarmer: {
		"transactions:read",
		"communications:read",
		"communications:create",
	},
	RoleLorryAgency: {
		"transactions:read",
		"communications:read",
		"communications:create",
	},
	RoleFieldEquipmentManager: {
		"transactions:read",
		"communications:read",
		"communications:create",
	},
	RoleInputSupplier: {
		"transactions:read",
		"communications:read",
		"communications:create",
	},
	RoleDealer: {
		"transactions:read",
		"communications:read",
		"communications:create",
	},
}
