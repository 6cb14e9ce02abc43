package services

import (
	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/data-sharing/domain/entities"
)

// AccessKind is the operation being tested against a visibility level.
type AccessKind string

const (
	AccessRead   AccessKind = "read"
	AccessWrite  AccessKind = "write"
	AccessDelete AccessKind = "delete"
)

func (k AccessKind) IsValid() bool {
	switch k {
	case AccessRead, AccessWrite, AccessDelete:
		return true
	}
	return false
}

// ActiveLink is one active relationship counterparty of a farm admin, as
// seen at share time.
type ActiveLink struct {
	UserID string
	Role   accesspolicy.Role
	Type   accesspolicy.RelationshipType
}

// SnapshotVisibility derives the visibility entries for a record from the
// owner's active relationships. Relationship types with no entry in the
// data-access matrix for the data type are skipped.
func SnapshotVisibility(links []ActiveLink, dataType accesspolicy.DataType) []entities.VisibilityEntry {
	entries := make([]entities.VisibilityEntry, 0, len(links))
	seen := map[string]struct{}{}
	for _, link := range links {
		level, ok := accesspolicy.DataAccessLevel(link.Type, dataType)
		if !ok {
			continue
		}
		if _, dup := seen[link.UserID]; dup {
			continue
		}
		seen[link.UserID] = struct{}{}
		entries = append(entries, entities.VisibilityEntry{
			UserID: link.UserID,
			Role:   link.Role,
			Level:  level,
		})
	}
	return entries
}

// LevelAllows maps a visibility level to the operations it permits: any
// level reads, ReadWrite and FullAccess write, only FullAccess deletes.
func LevelAllows(level accesspolicy.AccessLevel, kind AccessKind) bool {
	switch kind {
	case AccessRead:
		return level.IsValid()
	case AccessWrite:
		return level == accesspolicy.AccessLevelReadWrite || level == accesspolicy.AccessLevelFullAccess
	case AccessDelete:
		return level == accesspolicy.AccessLevelFullAccess
	}
	return false
}
