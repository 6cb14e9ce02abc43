package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/relationship-registry/domain/entities"
	domainerrors "agrilink/contexts/trust-network/relationship-registry/domain/errors"
	"agrilink/contexts/trust-network/relationship-registry/ports"
)

const invitationTTL = 72 * time.Hour

// Store is the in-memory adapter used for development and tests. It
// implements every registry port, doubles as Clock/IDGenerator/TokenIssuer,
// and records dispatched notifications for assertions.
type Store struct {
	mu sync.RWMutex

	usersByID     map[string]ports.UserRecord
	userIDByEmail map[string]string

	relationshipsByID map[string]entities.BusinessRelationship
	// openTripleIndex keys (farmAdminID, serviceProviderID, type) for rows
	// that are pending or active, enforcing the uniqueness invariant.
	openTripleIndex map[string]string

	invitationsByID       map[string]entities.Invitation
	pendingInviteByEmail  map[string]string
	notifications         []ports.Notification
	sequence              int
	now                   time.Time
	frozen                bool
	failAcceptInvitations bool
}

func NewStore() *Store {
	store := &Store{
		usersByID:            make(map[string]ports.UserRecord),
		userIDByEmail:        make(map[string]string),
		relationshipsByID:    make(map[string]entities.BusinessRelationship),
		openTripleIndex:      make(map[string]string),
		invitationsByID:      make(map[string]entities.Invitation),
		pendingInviteByEmail: make(map[string]string),
		sequence:             1,
	}

	seeded := []ports.UserRecord{
		{ID: "user_app_admin_1", Email: "admin@agrilink.example", Name: "Platform Admin", Role: accesspolicy.RoleAppAdmin, Status: accesspolicy.UserStatusActive, EmailVerified: true},
		{ID: "user_farm_admin_1", Email: "farm@agrilink.example", Name: "Green Valley Farm", Role: accesspolicy.RoleFarmAdmin, Status: accesspolicy.UserStatusActive, EmailVerified: true},
		{ID: "user_farm_admin_2", Email: "farm2@agrilink.example", Name: "Hilltop Farm", Role: accesspolicy.RoleFarmAdmin, Status: accesspolicy.UserStatusActive, EmailVerified: true},
		{ID: "user_field_mgr_1", Email: "fieldmgr@agrilink.example", Name: "Field Manager One", Role: accesspolicy.RoleFieldManager, Status: accesspolicy.UserStatusActive, EmailVerified: true},
		{ID: "user_farmer_1", Email: "farmer@agrilink.example", Name: "Farmer One", Role: accesspolicy.RoleFarmer, Status: accesspolicy.UserStatusActive, EmailVerified: true},
		{ID: "user_lorry_1", Email: "lorry@agrilink.example", Name: "Lorry Agency One", Role: accesspolicy.RoleLorryAgency, Status: accesspolicy.UserStatusActive, EmailVerified: true},
		{ID: "user_equipment_1", Email: "equipment@agrilink.example", Name: "Equipment One", Role: accesspolicy.RoleFieldEquipmentManager, Status: accesspolicy.UserStatusActive, EmailVerified: true},
		{ID: "user_supplier_1", Email: "supplier@agrilink.example", Name: "Input Supplier One", Role: accesspolicy.RoleInputSupplier, Status: accesspolicy.UserStatusActive, EmailVerified: true},
		{ID: "user_dealer_1", Email: "dealer@agrilink.example", Name: "Dealer One", Role: accesspolicy.RoleDealer, Status: accesspolicy.UserStatusActive, EmailVerified: true},
		{ID: "user_suspended_1", Email: "suspended@agrilink.example", Name: "Suspended User", Role: accesspolicy.RoleFarmer, Status: accesspolicy.UserStatusSuspended, EmailVerified: true},
	}
	for _, user := range seeded {
		store.usersByID[user.ID] = user
		store.userIDByEmail[entities.NormalizeEmail(user.Email)] = user.ID
	}
	return store
}

func tripleKey(farmAdminID, serviceProviderID string, relType accesspolicy.RelationshipType) string {
	return farmAdminID + "|" + serviceProviderID + "|" + string(relType)
}

// --- UserDirectory ---

func (s *Store) FindUserByID(_ context.Context, userID string) (ports.UserRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.usersByID[userID]
	return user, ok, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (ports.UserRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.userIDByEmail[entities.NormalizeEmail(email)]
	if !ok {
		return ports.UserRecord{}, false, nil
	}
	return s.usersByID[userID], true, nil
}

func (s *Store) FindUsersByRole(_ context.Context, role accesspolicy.Role) ([]ports.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []ports.UserRecord
	for _, user := range s.usersByID {
		if user.Role == role {
			items = append(items, user)
		}
	}
	return items, nil
}

// AddUser seeds an extra user, used by tests.
func (s *Store) AddUser(user ports.UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersByID[user.ID] = user
	s.userIDByEmail[entities.NormalizeEmail(user.Email)] = user.ID
}

// --- RelationshipRepository ---

func (s *Store) CreateRelationship(_ context.Context, relationship entities.BusinessRelationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createRelationshipLocked(relationship)
}

func (s *Store) createRelationshipLocked(relationship entities.BusinessRelationship) error {
	key := tripleKey(relationship.FarmAdminID, relationship.ServiceProviderID, relationship.Type)
	if _, exists := s.openTripleIndex[key]; exists {
		return domainerrors.ErrDuplicateRelationship
	}
	if _, exists := s.relationshipsByID[relationship.ID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.relationshipsByID[relationship.ID] = relationship
	if relationship.IsOpen() {
		s.openTripleIndex[key] = relationship.ID
	}
	return nil
}

func (s *Store) GetRelationship(_ context.Context, relationshipID string) (entities.BusinessRelationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	relationship, ok := s.relationshipsByID[relationshipID]
	if !ok {
		return entities.BusinessRelationship{}, domainerrors.ErrRelationshipNotFound
	}
	return relationship, nil
}

func (s *Store) ListRelationshipsByFarmAdmin(_ context.Context, farmAdminID string) ([]entities.BusinessRelationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.BusinessRelationship
	for _, relationship := range s.relationshipsByID {
		if relationship.FarmAdminID == farmAdminID {
			items = append(items, relationship)
		}
	}
	return items, nil
}

func (s *Store) ListRelationshipsByServiceProvider(_ context.Context, serviceProviderID string) ([]entities.BusinessRelationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.BusinessRelationship
	for _, relationship := range s.relationshipsByID {
		if relationship.ServiceProviderID == serviceProviderID {
			items = append(items, relationship)
		}
	}
	return items, nil
}

func (s *Store) UpdateRelationshipStatus(
	_ context.Context,
	relationshipID string,
	expected accesspolicy.RelationshipStatus,
	next accesspolicy.RelationshipStatus,
	reason string,
	now time.Time,
) (entities.BusinessRelationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	relationship, ok := s.relationshipsByID[relationshipID]
	if !ok {
		return entities.BusinessRelationship{}, domainerrors.ErrRelationshipNotFound
	}
	if relationship.Status != expected {
		return entities.BusinessRelationship{}, domainerrors.ErrInvalidStateTransition
	}

	relationship.Status = next
	relationship.StatusReason = reason
	relationship.UpdatedAt = now.UTC()
	if next == accesspolicy.RelationshipStatusActive && relationship.EstablishedAt.IsZero() {
		relationship.EstablishedAt = now.UTC()
	}
	if next == accesspolicy.RelationshipStatusTerminated {
		delete(s.openTripleIndex, tripleKey(relationship.FarmAdminID, relationship.ServiceProviderID, relationship.Type))
	}
	s.relationshipsByID[relationshipID] = relationship
	return relationship, nil
}

// --- InvitationRepository ---

func (s *Store) CreateInvitation(_ context.Context, invitation entities.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pendingInviteByEmail[invitation.InviteeEmail]; exists {
		return domainerrors.ErrDuplicatePendingInvitation
	}
	if _, exists := s.invitationsByID[invitation.ID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.invitationsByID[invitation.ID] = invitation
	s.pendingInviteByEmail[invitation.InviteeEmail] = invitation.ID
	return nil
}

func (s *Store) GetInvitation(_ context.Context, invitationID string) (entities.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	invitation, ok := s.invitationsByID[invitationID]
	if !ok {
		return entities.Invitation{}, domainerrors.ErrInvitationNotFound
	}
	return invitation, nil
}

func (s *Store) FindPendingInvitationByEmail(_ context.Context, email string) (entities.Invitation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	invitationID, ok := s.pendingInviteByEmail[entities.NormalizeEmail(email)]
	if !ok {
		return entities.Invitation{}, false, nil
	}
	return s.invitationsByID[invitationID], true, nil
}

func (s *Store) ListInvitationsByInviter(_ context.Context, inviterID string) ([]entities.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []entities.Invitation
	for _, invitation := range s.invitationsByID {
		if invitation.InviterID == inviterID {
			items = append(items, invitation)
		}
	}
	return items, nil
}

func (s *Store) UpdateInvitationStatus(
	_ context.Context,
	invitationID string,
	expected accesspolicy.InvitationStatus,
	next accesspolicy.InvitationStatus,
	now time.Time,
) (entities.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateInvitationStatusLocked(invitationID, expected, next, now)
}

func (s *Store) updateInvitationStatusLocked(
	invitationID string,
	expected accesspolicy.InvitationStatus,
	next accesspolicy.InvitationStatus,
	now time.Time,
) (entities.Invitation, error) {
	invitation, ok := s.invitationsByID[invitationID]
	if !ok {
		return entities.Invitation{}, domainerrors.ErrInvitationNotFound
	}
	if invitation.Status != expected {
		return entities.Invitation{}, domainerrors.ErrInvalidStateTransition
	}

	invitation.Status = next
	invitation.UpdatedAt = now.UTC()
	if next == accesspolicy.InvitationStatusAccepted {
		acceptedAt := now.UTC()
		invitation.AcceptedAt = &acceptedAt
	}
	if expected == accesspolicy.InvitationStatusPending && next != accesspolicy.InvitationStatusPending {
		delete(s.pendingInviteByEmail, invitation.InviteeEmail)
	}
	s.invitationsByID[invitationID] = invitation
	return invitation, nil
}

// AcceptInvitation applies the whole acceptance under one lock: the in-memory
// equivalent of the storage transaction the port requires.
func (s *Store) AcceptInvitation(
	_ context.Context,
	invitationID string,
	user ports.UserRecord,
	relationship entities.BusinessRelationship,
	acceptedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAcceptInvitations {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	if _, exists := s.userIDByEmail[user.Email]; exists {
		return domainerrors.ErrUserAlreadyExists
	}
	if err := s.createRelationshipLocked(relationship); err != nil {
		return err
	}
	if _, err := s.updateInvitationStatusLocked(
		invitationID,
		accesspolicy.InvitationStatusPending,
		accesspolicy.InvitationStatusAccepted,
		acceptedAt,
	); err != nil {
		// Undo the relationship write so no partial state is visible.
		delete(s.relationshipsByID, relationship.ID)
		delete(s.openTripleIndex, tripleKey(relationship.FarmAdminID, relationship.ServiceProviderID, relationship.Type))
		return err
	}
	s.usersByID[user.ID] = user
	s.userIDByEmail[user.Email] = user.ID
	return nil
}

// FailNextAcceptInvitation makes the transactional acceptance fail, used by
// tests asserting the all-or-nothing guarantee.
func (s *Store) FailNextAcceptInvitation(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAcceptInvitations = fail
}

// --- Notifier ---

func (s *Store) Notify(_ context.Context, notification ports.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, notification)
	return nil
}

// Notifications returns a copy of everything dispatched so far.
func (s *Store) Notifications() []ports.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.Notification(nil), s.notifications...)
}

// --- TokenIssuer / Clock / IDGenerator ---

func (s *Store) Issue(_ context.Context, purpose string) (string, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	token := fmt.Sprintf("token_%s_%d", purpose, s.sequence)
	return token, s.nowLocked().Add(invitationTTL), nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowLocked()
}

func (s *Store) nowLocked() time.Time {
	if s.frozen {
		return s.now
	}
	return time.Now().UTC()
}

// FreezeTime pins the store clock, used by expiry tests.
func (s *Store) FreezeTime(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = true
	s.now = now.UTC()
}

// AdvanceTime moves a frozen clock forward.
func (s *Store) AdvanceTime(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequence++
	return fmt.Sprintf("reg_%06d", s.sequence), nil
}
