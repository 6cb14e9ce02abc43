package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"agrilink/contexts/trust-network/access-control/ports"
	"agrilink/contexts/trust-network/accesspolicy"
)

var errLookupUnavailable = errors.New("memory: lookup unavailable")

// Store is an in-memory projection of users and active relationships. It
// implements every port the access-control queries need and doubles as the
// deterministic clock in tests.
type Store struct {
	mu sync.RWMutex

	users         map[string]ports.UserView
	relationships []ports.RelationshipView

	now    time.Time
	frozen bool

	failNextUserLookup         bool
	failNextRelationshipLookup bool
}

func NewStore() *Store {
	store := &Store{
		users: map[string]ports.UserView{},
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

// FailNextUserLookup makes the next FindUserByID call return an error.
func (s *Store) FailNextUserLookup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextUserLookup = true
}

// FailNextRelationshipLookup makes the next relationship query return an error.
func (s *Store) FailNextRelationshipLookup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextRelationshipLookup = true
}

func (s *Store) FindUserByID(_ context.Context, id string) (ports.UserView, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNextUserLookup {
		s.failNextUserLookup = false
		return ports.UserView{}, false, errLookupUnavailable
	}
	user, ok := s.users[id]
	return user, ok, nil
}

func (s *Store) HasActiveRelationship(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNextRelationshipLookup {
		s.failNextRelationshipLookup = false
		return false, errLookupUnavailable
	}
	for _, rel := range s.relationships {
		if rel.FarmAdminID == userID || rel.ServiceProviderID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ActiveBetween(_ context.Context, userA, userB string) (ports.RelationshipView, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNextRelationshipLookup {
		s.failNextRelationshipLookup = false
		return ports.RelationshipView{}, false, errLookupUnavailable
	}
	for _, rel := range s.relationships {
		if (rel.FarmAdminID == userA && rel.ServiceProviderID == userB) ||
			(rel.FarmAdminID == userB && rel.ServiceProviderID == userA) {
			return rel, true, nil
		}
	}
	return ports.RelationshipView{}, false, nil
}

func (s *Store) ListActiveByUser(_ context.Context, userID string) ([]ports.RelationshipView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNextRelationshipLookup {
		s.failNextRelationshipLookup = false
		return nil, errLookupUnavailable
	}
	var out []ports.RelationshipView
	for _, rel := range s.relationships {
		if rel.FarmAdminID == userID || rel.ServiceProviderID == userID {
			out = append(out, rel)
		}
	}
	return out, nil
}

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
