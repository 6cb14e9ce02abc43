package entities

import (
	"strings"
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
	domainerrors "agrilink/contexts/trust-network/relationship-registry/domain/errors"
)

// Invitation is a time-boxed, token-based offer for a prospective field
// manager to create an account and relationship in one step. Invitations are
// never deleted, only transitioned.
type Invitation struct {
	ID               string
	InviterID        string
	InviteeEmail     string
	InviteeRole      accesspolicy.Role
	RelationshipType accesspolicy.RelationshipType
	Status           accesspolicy.InvitationStatus
	Token            string
	ExpiresAt        time.Time
	SentAt           time.Time
	AcceptedAt       *time.Time
	UpdatedAt        time.Time
}

func NewInvitation(
	id string,
	inviterID string,
	inviteeEmail string,
	inviteeRole accesspolicy.Role,
	relType accesspolicy.RelationshipType,
	token string,
	expiresAt time.Time,
	now time.Time,
) (Invitation, error) {
	email := NormalizeEmail(inviteeEmail)
	if strings.TrimSpace(id) == "" ||
		strings.TrimSpace(inviterID) == "" ||
		email == "" ||
		strings.TrimSpace(token) == "" {
		return Invitation{}, domainerrors.ErrInvalidRequest
	}
	if !inviteeRole.IsValid() || !relType.IsValid() {
		return Invitation{}, domainerrors.ErrInvalidRequest
	}
	if !expiresAt.After(now) {
		return Invitation{}, domainerrors.ErrInvalidRequest
	}

	return Invitation{
		ID:               id,
		InviterID:        inviterID,
		InviteeEmail:     email,
		InviteeRole:      inviteeRole,
		RelationshipType: relType,
		Status:           accesspolicy.InvitationStatusPending,
		Token:            token,
		ExpiresAt:        expiresAt.UTC(),
		SentAt:           now.UTC(),
		UpdatedAt:        now.UTC(),
	}, nil
}

func (i Invitation) IsPending() bool {
	return i.Status == accesspolicy.InvitationStatusPending
}

// IsExpired checks the domain-level timeout. Expiry is evaluated at
// acceptance time, never swept asynchronously.
func (i Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// NormalizeEmail is the canonical email form used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
