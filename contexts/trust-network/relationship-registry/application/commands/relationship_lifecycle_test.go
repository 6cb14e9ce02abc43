package commands

import (
	"context"
	"testing"

	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/relationship-registry/adapters/memory"
	domainerrors "agrilink/contexts/trust-network/relationship-registry/domain/errors"
	"agrilink/contexts/trust-network/relationship-registry/ports"
)

func newCreateUseCase(store *memory.Store) CreateRelationshipUseCase {
	return CreateRelationshipUseCase{
		Relationships: store,
		Users:         store,
		Notifier:      store,
		Clock:         store,
		IDGenerator:   store,
	}
}

func newRequestUseCase(store *memory.Store) RequestRelationshipUseCase {
	return RequestRelationshipUseCase{
		Relationships: store,
		Users:         store,
		Notifier:      store,
		Clock:         store,
		IDGenerator:   store,
	}
}

func TestCreateRelationshipStartsActiveWithDefaults(t *testing.T) {
	store := memory.NewStore()
	useCase := newCreateUseCase(store)

	relationship, err := useCase.Execute(context.Background(), CreateRelationshipCommand{
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_field_mgr_1",
		Type:              accesspolicy.RelationshipTypeFieldManager,
	})
	if err != nil {
		t.Fatalf("create relationship failed: %v", err)
	}
	if relationship.Status != accesspolicy.RelationshipStatusActive {
		t.Fatalf("direct creation must start active, got %s", relationship.Status)
	}
	if relationship.EstablishedAt.IsZero() {
		t.Fatal("active relationship must carry established timestamp")
	}
	if len(relationship.Permissions.Read) == 0 || len(relationship.Permissions.Write) == 0 {
		t.Fatal("default permission snapshot missing")
	}

	notifications := store.Notifications()
	if len(notifications) != 1 || notifications[0].Kind != ports.NotificationRelationshipCreated {
		t.Fatalf("expected one relationship_created notification, got %v", notifications)
	}
	if notifications[0].UserID != "user_field_mgr_1" {
		t.Fatalf("notification must target the provider, got %s", notifications[0].UserID)
	}
}

func TestCreateRelationshipRejectsRoleMismatch(t *testing.T) {
	store := memory.NewStore()
	useCase := newCreateUseCase(store)

	// A farmer cannot hold a field-manager relationship.
	_, err := useCase.Execute(context.Background(), CreateRelationshipCommand{
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_farmer_1",
		Type:              accesspolicy.RelationshipTypeFieldManager,
	})
	if err != domainerrors.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	// A non-farm-admin cannot own relationships.
	_, err = useCase.Execute(context.Background(), CreateRelationshipCommand{
		FarmAdminID:       "user_farmer_1",
		ServiceProviderID: "user_field_mgr_1",
		Type:              accesspolicy.RelationshipTypeFieldManager,
	})
	if err != domainerrors.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole for non farm admin owner, got %v", err)
	}
}

func TestCreateRelationshipRejectsSuspendedCounterparty(t *testing.T) {
	store := memory.NewStore()
	useCase := newCreateUseCase(store)

	_, err := useCase.Execute(context.Background(), CreateRelationshipCommand{
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_suspended_1",
		Type:              accesspolicy.RelationshipTypeFarmerSupplier,
	})
	if err != domainerrors.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized for suspended user, got %v", err)
	}
}

func TestDuplicateRelationshipRejectedWhileOpen(t *testing.T) {
	store := memory.NewStore()
	create := newCreateUseCase(store)
	request := newRequestUseCase(store)

	cmd := CreateRelationshipCommand{
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_farmer_1",
		Type:              accesspolicy.RelationshipTypeFarmerSupplier,
	}
	if _, err := create.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := create.Execute(context.Background(), cmd); err != domainerrors.ErrDuplicateRelationship {
		t.Fatalf("second create must fail with ErrDuplicateRelationship, got %v", err)
	}
	_, err := request.Execute(context.Background(), RequestRelationshipCommand{
		ServiceProviderID: "user_farmer_1",
		FarmAdminID:       "user_farm_admin_1",
		Type:              accesspolicy.RelationshipTypeFarmerSupplier,
	})
	if err != domainerrors.ErrDuplicateRelationship {
		t.Fatalf("request over open relationship must fail with ErrDuplicateRelationship, got %v", err)
	}
}

func TestRequestThenApproveFlow(t *testing.T) {
	store := memory.NewStore()
	request := newRequestUseCase(store)
	resolve := ResolveRequestUseCase{Relationships: store, Notifier: store, Clock: store}

	pending, err := request.Execute(context.Background(), RequestRelationshipCommand{
		ServiceProviderID: "user_farmer_1",
		FarmAdminID:       "user_farm_admin_1",
		Type:              accesspolicy.RelationshipTypeFarmerSupplier,
		Message:           "seasonal produce supply",
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if pending.Status != accesspolicy.RelationshipStatusPending {
		t.Fatalf("request must start pending, got %s", pending.Status)
	}

	approved, err := resolve.Execute(context.Background(), ResolveRequestCommand{
		RelationshipID: pending.ID,
		FarmAdminID:    "user_farm_admin_1",
		Approve:        true,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != accesspolicy.RelationshipStatusActive {
		t.Fatalf("approved relationship must be active, got %s", approved.Status)
	}
	if approved.EstablishedAt.IsZero() {
		t.Fatal("approval must stamp established timestamp")
	}
}

func TestResolveRequestAuthorizationAndStateGates(t *testing.T) {
	store := memory.NewStore()
	request := newRequestUseCase(store)
	resolve := ResolveRequestUseCase{Relationships: store, Notifier: store, Clock: store}

	pending, err := request.Execute(context.Background(), RequestRelationshipCommand{
		ServiceProviderID: "user_farmer_1",
		FarmAdminID:       "user_farm_admin_1",
		Type:              accesspolicy.RelationshipTypeFarmerSupplier,
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	_, err = resolve.Execute(context.Background(), ResolveRequestCommand{
		RelationshipID: pending.ID,
		FarmAdminID:    "user_farm_admin_2",
		Approve:        true,
	})
	if err != domainerrors.ErrUnauthorized {
		t.Fatalf("foreign farm admin must get ErrUnauthorized, got %v", err)
	}

	if _, err := resolve.Execute(context.Background(), ResolveRequestCommand{
		RelationshipID: pending.ID,
		FarmAdminID:    "user_farm_admin_1",
		Approve:        false,
		Reason:         "unknown supplier",
	}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	_, err = resolve.Execute(context.Background(), ResolveRequestCommand{
		RelationshipID: pending.ID,
		FarmAdminID:    "user_farm_admin_1",
		Approve:        true,
	})
	if err != domainerrors.ErrInvalidStateTransition {
		t.Fatalf("resolving a non-pending relationship must fail, got %v", err)
	}

	rejected, err := store.GetRelationship(context.Background(), pending.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if rejected.Status != accesspolicy.RelationshipStatusTerminated {
		t.Fatalf("rejection must terminate, got %s", rejected.Status)
	}
}

func TestTerminateIsAbsorbing(t *testing.T) {
	store := memory.NewStore()
	create := newCreateUseCase(store)
	terminate := TerminateRelationshipUseCase{Relationships: store, Notifier: store, Clock: store}

	relationship, err := create.Execute(context.Background(), CreateRelationshipCommand{
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_lorry_1",
		Type:              accesspolicy.RelationshipTypeLorryAgency,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	terminated, err := terminate.Execute(context.Background(), TerminateRelationshipCommand{
		RelationshipID: relationship.ID,
		ActorUserID:    "user_farm_admin_1",
		Reason:         "contract ended",
	})
	if err != nil {
		t.Fatalf("terminate failed: %v", err)
	}
	if terminated.Status != accesspolicy.RelationshipStatusTerminated {
		t.Fatalf("expected terminated, got %s", terminated.Status)
	}

	_, err = terminate.Execute(context.Background(), TerminateRelationshipCommand{
		RelationshipID: relationship.ID,
		ActorUserID:    "user_farm_admin_1",
	})
	if err != domainerrors.ErrInvalidStateTransition {
		t.Fatalf("second terminate must fail with ErrInvalidStateTransition, got %v", err)
	}
}

func TestTerminateRequiresParticipant(t *testing.T) {
	store := memory.NewStore()
	create := newCreateUseCase(store)
	terminate := TerminateRelationshipUseCase{Relationships: store, Notifier: store, Clock: store}

	relationship, err := create.Execute(context.Background(), CreateRelationshipCommand{
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_lorry_1",
		Type:              accesspolicy.RelationshipTypeLorryAgency,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = terminate.Execute(context.Background(), TerminateRelationshipCommand{
		RelationshipID: relationship.ID,
		ActorUserID:    "user_farm_admin_2",
	})
	if err != domainerrors.ErrUnauthorized {
		t.Fatalf("outsider terminate must fail with ErrUnauthorized, got %v", err)
	}

	_, err = terminate.Execute(context.Background(), TerminateRelationshipCommand{
		RelationshipID: relationship.ID,
	})
	if err != domainerrors.ErrInvalidRequest {
		t.Fatalf("missing actor must fail with ErrInvalidRequest, got %v", err)
	}

	// Either participant may terminate; the provider side works too.
	if _, err := terminate.Execute(context.Background(), TerminateRelationshipCommand{
		RelationshipID: relationship.ID,
		ActorUserID:    "user_lorry_1",
	}); err != nil {
		t.Fatalf("provider terminate failed: %v", err)
	}
}

func TestTerminatedTripleCanBeRecreated(t *testing.T) {
	store := memory.NewStore()
	create := newCreateUseCase(store)
	terminate := TerminateRelationshipUseCase{Relationships: store, Notifier: store, Clock: store}

	cmd := CreateRelationshipCommand{
		FarmAdminID:       "user_farm_admin_1",
		ServiceProviderID: "user_dealer_1",
		Type:              accesspolicy.RelationshipTypeDealer,
	}
	first, err := create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := terminate.Execute(context.Background(), TerminateRelationshipCommand{
		RelationshipID: first.ID,
		ActorUserID:    "user_farm_admin_1",
	}); err != nil {
		t.Fatalf("terminate failed: %v", err)
	}
	// Terminated rows no longer count against the uniqueness rule.
	if _, err := create.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("recreate after termination failed: %v", err)
	}
}
