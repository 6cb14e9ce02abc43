package accesspolicy

// Role is a platform user role. Relationship types map 1:1 onto the roles a
// counterparty must hold, see RoleForRelationshipType.
type Role string

const (
	RoleAppAdmin              Role = "app_admin"
	RoleFarmAdmin             Role = "farm_admin"
	RoleFieldManager          Role = "field_manager"
	RoleFarmer                Role = "farmer"
	RoleLorryAgency           Role = "lorry_agency"
	RoleFieldEquipmentManager Role = "field_equipment_manager"
	RoleInputSupplier         Role = "input_supplier"
	RoleDealer                Role = "dealer"
)

type UserStatus string

const (
	UserStatusActive          UserStatus = "active"
	UserStatusSuspended       UserStatus = "suspended"
	UserStatusPendingApproval UserStatus = "pending_approval"
)

// RelationshipType classifies the business edge between a farm admin and a
// counterparty.
type RelationshipType string

const (
	RelationshipTypeFieldManager      RelationshipType = "field_manager"
	RelationshipTypeFarmerSupplier    RelationshipType = "farmer_supplier"
	RelationshipTypeLorryAgency       RelationshipType = "lorry_agency"
	RelationshipTypeEquipmentProvider RelationshipType = "equipment_provider"
	RelationshipTypeInputSupplier     RelationshipType = "input_supplier"
	RelationshipTypeDealer            RelationshipType = "dealer"
)

type RelationshipStatus string

const (
	RelationshipStatusPending    RelationshipStatus = "pending"
	RelationshipStatusActive     RelationshipStatus = "active"
	RelationshipStatusTerminated RelationshipStatus = "terminated"
)

type InvitationStatus string

const (
	InvitationStatusPending   InvitationStatus = "pending"
	InvitationStatusAccepted  InvitationStatus = "accepted"
	InvitationStatusExpired   InvitationStatus = "expired"
	InvitationStatusCancelled InvitationStatus = "cancelled"
)

// DataType classifies a shared supply-chain record.
type DataType string

const (
	DataTypeFieldOperations   DataType = "field_operations"
	DataTypeEquipmentUsage    DataType = "equipment_usage"
	DataTypeInputSupply       DataType = "input_supply"
	DataTypeCommodityDelivery DataType = "commodity_delivery"
	DataTypeTransportation    DataType = "transportation"
	DataTypeSalesTransaction  DataType = "sales_transaction"
)

// AccessLevel is the ordered per-record capability attached to a visibility
// entry: ReadOnly < ReadWrite < FullAccess.
type AccessLevel string

const (
	AccessLevelReadOnly   AccessLevel = "read_only"
	AccessLevelReadWrite  AccessLevel = "read_write"
	AccessLevelFullAccess AccessLevel = "full_access"
)

var accessLevelRank = map[AccessLevel]int{
	AccessLevelReadOnly:   1,
	AccessLevelReadWrite:  2,
	AccessLevelFullAccess: 3,
}

// Rank returns the ordering position of the level, 0 for unknown values.
func (l AccessLevel) Rank() int {
	return accessLevelRank[l]
}

// AtLeast reports whether l grants everything other grants.
func (l AccessLevel) AtLeast(other AccessLevel) bool {
	return l.Rank() >= other.Rank() && l.Rank() > 0
}

func (l AccessLevel) IsValid() bool {
	return l.Rank() > 0
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAppAdmin, RoleFarmAdmin, RoleFieldManager, RoleFarmer,
		RoleLorryAgency, RoleFieldEquipmentManager, RoleInputSupplier, RoleDealer:
		return true
	}
	return false
}

func (t RelationshipType) IsValid() bool {
	_, ok := RoleForRelationshipType[t]
	return ok
}

func (d DataType) IsValid() bool {
	switch d {
	case DataTypeFieldOperations, DataTypeEquipmentUsage, DataTypeInputSupply,
		DataTypeCommodityDelivery, DataTypeTransportation, DataTypeSalesTransaction:
		return true
	}
	return false
}
