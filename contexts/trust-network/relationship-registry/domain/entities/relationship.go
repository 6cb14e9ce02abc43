package entities

import (
	"strings"
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
	domainerrors "agrilink/contexts/trust-network/relationship-registry/domain/errors"
)

// BusinessRelationship is the authorization edge between a farm admin and a
// counterparty (field manager or service provider). The permission snapshot
// is fixed at creation time from the type's default capability set.
type BusinessRelationship struct {
	ID                string
	FarmAdminID       string
	ServiceProviderID string
	Type              accesspolicy.RelationshipType
	Status            accesspolicy.RelationshipStatus
	Permissions       accesspolicy.CapabilitySet
	Message           string
	StatusReason      string
	EstablishedAt     time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewBusinessRelationship(
	id string,
	farmAdminID string,
	serviceProviderID string,
	relType accesspolicy.RelationshipType,
	status accesspolicy.RelationshipStatus,
	message string,
	now time.Time,
) (BusinessRelationship, error) {
	if strings.TrimSpace(id) == "" ||
		strings.TrimSpace(farmAdminID) == "" ||
		strings.TrimSpace(serviceProviderID) == "" {
		return BusinessRelationship{}, domainerrors.ErrInvalidRequest
	}
	if farmAdminID == serviceProviderID {
		return BusinessRelationship{}, domainerrors.ErrInvalidRequest
	}
	if !relType.IsValid() {
		return BusinessRelationship{}, domainerrors.ErrInvalidRequest
	}
	if status != accesspolicy.RelationshipStatusPending && status != accesspolicy.RelationshipStatusActive {
		return BusinessRelationship{}, domainerrors.ErrInvalidRequest
	}

	relationship := BusinessRelationship{
		ID:                id,
		FarmAdminID:       farmAdminID,
		ServiceProviderID: serviceProviderID,
		Type:              relType,
		Status:            status,
		Permissions:       accesspolicy.DefaultPermissions(relType),
		Message:           strings.TrimSpace(message),
		CreatedAt:         now.UTC(),
		UpdatedAt:         now.UTC(),
	}
	if status == accesspolicy.RelationshipStatusActive {
		relationship.EstablishedAt = now.UTC()
	}
	return relationship, nil
}

// IsOpen reports whether the relationship still counts against the
// one-non-terminated-edge-per-triple uniqueness rule.
func (r BusinessRelationship) IsOpen() bool {
	return r.Status == accesspolicy.RelationshipStatusPending ||
		r.Status == accesspolicy.RelationshipStatusActive
}

func (r BusinessRelationship) IsActive() bool {
	return r.Status == accesspolicy.RelationshipStatusActive
}
