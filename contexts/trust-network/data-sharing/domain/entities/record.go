package entities

import (
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
	domainerrors "agrilink/contexts/trust-network/data-sharing/domain/errors"
)

// VisibilityEntry is one grantee in a record's visibility snapshot, captured
// at share time from the owner's active relationships.
type VisibilityEntry struct {
	UserID string
	Role   accesspolicy.Role
	Level  accesspolicy.AccessLevel
}

// SharedRecord is a unit of farm data shared into the trust network. The
// visibility list is a snapshot: later relationship changes do not rewrite
// it, access checks reverify the relationship instead.
type SharedRecord struct {
	ID          string
	FarmAdminID string
	Type        accesspolicy.DataType
	Payload     map[string]any
	Visibility  []VisibilityEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewSharedRecord(
	id string,
	farmAdminID string,
	dataType accesspolicy.DataType,
	payload map[string]any,
	visibility []VisibilityEntry,
	now time.Time,
) (SharedRecord, error) {
	if id == "" || farmAdminID == "" || !dataType.IsValid() {
		return SharedRecord{}, domainerrors.ErrInvalidRequest
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return SharedRecord{
		ID:          id,
		FarmAdminID: farmAdminID,
		Type:        dataType,
		Payload:     payload,
		Visibility:  visibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// EntryFor finds the visibility entry for the user, matching by user id
// first and falling back to a role match.
func (r SharedRecord) EntryFor(userID string, role accesspolicy.Role) (VisibilityEntry, bool) {
	for _, entry := range r.Visibility {
		if entry.UserID == userID {
			return entry, true
		}
	}
	for _, entry := range r.Visibility {
		if entry.Role == role {
			return entry, true
		}
	}
	return VisibilityEntry{}, false
}

// VisibleTo reports whether the user appears in the visibility snapshot.
func (r SharedRecord) VisibleTo(userID string, role accesspolicy.Role) bool {
	_, ok := r.EntryFor(userID, role)
	return ok
}

// MergePayload overlays updates onto the payload and bumps UpdatedAt.
func (r *SharedRecord) MergePayload(updates map[string]any, now time.Time) {
	if r.Payload == nil {
		r.Payload = map[string]any{}
	}
	for key, value := range updates {
		r.Payload[key] = value
	}
	r.UpdatedAt = now
}
