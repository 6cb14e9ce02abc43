package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/data-sharing/domain/entities"
	domainerrors "agrilink/contexts/trust-network/data-sharing/domain/errors"
	"agrilink/contexts/trust-network/data-sharing/ports"
)

// Store is the in-memory backing for the data-sharing module. It implements
// every port the use-cases need and doubles as the deterministic clock, id
// generator, and notification sink in tests.
type Store struct {
	mu sync.RWMutex

	users         map[string]ports.UserView
	relationships []ports.RelationshipView
	records       map[string]entities.SharedRecord

	notifications []ports.Notification

	now      time.Time
	frozen   bool
	sequence int
}

func NewStore() *Store {
	store := &Store{
		users:   map[string]ports.UserView{},
		records: map[string]entities.SharedRecord{},
	}
	store.seed()
	return store
}

func (s *Store) seed() {
	for _, user := range []ports.UserView{
		{ID: "user_app_admin_1", Role: accesspolicy.RoleAppAdmin, Status: accesspolicy.UserStatusActive},
		{ID: "user_farm_admin_1", Role: accesspolicy.RoleFarmAdmin, Status: accesspolicy.UserStatusActive},
		{ID: "user_farm_admin_2", Role: accesspolicy.RoleFarmAdmin, Status: accesspolicy.UserStatusActive},
		{ID: "user_field_mgr_1", Role: accesspolicy.RoleFieldManager, Status: accesspolicy.UserStatusActive},
		{ID: "user_farmer_1", Role: accesspolicy.RoleFarmer, Status: accesspolicy.UserStatusActive},
		{ID: "user_lorry_1", Role: accesspolicy.RoleLorryAgency, Status: accesspolicy.UserStatusActive},
		{ID: "user_dealer_1", Role: accesspolicy.RoleDealer, Status: accesspolicy.UserStatusActive},
		{ID: "user_suspended_1", Role: accesspolicy.RoleFarmer, Status: accesspolicy.UserStatusSuspended},
	} {
		s.users[user.ID] = user
	}
}

// AddUser registers or replaces a user projection.
func (s *Store) AddUser(user ports.UserView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// AddActiveRelationship records an active relationship edge.
func (s *Store) AddActiveRelationship(rel ports.RelationshipView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relationships = append(s.relationships, rel)
}

// RemoveRelationship drops the edge with the given id, mimicking termination.
func (s *Store) RemoveRelationship(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.relationships[:0]
	for _, rel := range s.relationships {
		if rel.ID != id {
			kept = append(kept, rel)
		}
	}
	s.relationships = kept
}

// Notifications returns a copy of everything delivered so far.
func (s *Store) Notifications() []ports.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.Notification(nil), s.notifications...)
}

// --- UserDirectory ---

func (s *Store) FindUserByID(_ context.Context, id string) (ports.UserView, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	return user, ok, nil
}

// --- RelationshipDirectory ---

func (s *Store) ActiveBetween(_ context.Context, userA, userB string) (ports.RelationshipView, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rel := range s.relationships {
		if (rel.FarmAdminID == userA && rel.ServiceProviderID == userB) ||
			(rel.FarmAdminID == userB && rel.ServiceProviderID == userA) {
			return rel, true, nil
		}
	}
	return ports.RelationshipView{}, false, nil
}

func (s *Store) ListActiveByUser(_ context.Context, userID string) ([]ports.RelationshipView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ports.RelationshipView
	for _, rel := range s.relationships {
		if rel.FarmAdminID == userID || rel.ServiceProviderID == userID {
			out = append(out, rel)
		}
	}
	return out, nil
}

// --- RecordRepository ---

func (s *Store) CreateRecord(_ context.Context, record entities.SharedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = cloneRecord(record)
	return nil
}

func (s *Store) GetRecord(_ context.Context, recordID string) (entities.SharedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[recordID]
	if !ok {
		return entities.SharedRecord{}, domainerrors.ErrRecordNotFound
	}
	return cloneRecord(record), nil
}

func (s *Store) ListRecordsByFarmAdminAndType(_ context.Context, farmAdminID string, dataType accesspolicy.DataType) ([]entities.SharedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.SharedRecord
	for _, record := range s.records {
		if record.FarmAdminID == farmAdminID && record.Type == dataType {
			out = append(out, cloneRecord(record))
		}
	}
	return out, nil
}

func (s *Store) UpdateRecord(_ context.Context, record entities.SharedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; !ok {
		return domainerrors.ErrRecordNotFound
	}
	s.records[record.ID] = cloneRecord(record)
	return nil
}

// --- Notifier ---

func (s *Store) Notify(_ context.Context, notification ports.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, notification)
	return nil
}

// --- Clock / IDGenerator ---

// FreezeTime pins the clock to the given instant.
func (s *Store) FreezeTime(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = at.UTC()
	s.frozen = true
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.frozen {
		return s.now
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	return fmt.Sprintf("rec_%06d", s.sequence), nil
}

func cloneRecord(record entities.SharedRecord) entities.SharedRecord {
	clone := record
	clone.Payload = make(map[string]any, len(record.Payload))
	for key, value := range record.Payload {
		clone.Payload[key] = value
	}
	clone.Visibility = append([]entities.VisibilityEntry(nil), record.Visibility...)
	return clone
}
