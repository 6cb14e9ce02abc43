package services

import (
	"agrilink/contexts/trust-network/accesspolicy"
)

// Transition tables for the relationship and invitation state machines.
// Terminated, Accepted, Expired, and Cancelled are absorbing.

var relationshipTransitions = map[accesspolicy.RelationshipStatus][]accesspolicy.RelationshipStatus{
	accesspolicy.RelationshipStatusPending: {
		accesspolicy.RelationshipStatusActive,
		accesspolicy.RelationshipStatusTerminated,
	},
	accesspolicy.RelationshipStatusActive: {
		accesspolicy.RelationshipStatusTerminated,
	},
}

var invitationTransitions = map[accesspolicy.InvitationStatus][]accesspolicy.InvitationStatus{
	accesspolicy.InvitationStatusPending: {
		accesspolicy.InvitationStatusAccepted,
		accesspolicy.InvitationStatusExpired,
		accesspolicy.InvitationStatusCancelled,
	},
}

func CanTransitionRelationship(from, to accesspolicy.RelationshipStatus) bool {
	for _, next := range relationshipTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func CanTransitionInvitation(from, to accesspolicy.InvitationStatus) bool {
	for _, next := range invitationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CompatibleRole reports whether a counterparty with the given role may hold
// a relationship of the given type under the fixed 1:1 mapping.
func CompatibleRole(relType accesspolicy.RelationshipType, role accesspolicy.Role) bool {
	required, ok := accesspolicy.RoleForRelationshipType[relType]
	return ok && required == role
}
