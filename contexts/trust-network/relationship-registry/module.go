package relationshipregistry

import (
	"log/slog"

	httpadapter "agrilink/contexts/trust-network/relationship-registry/adapters/http"
	"agrilink/contexts/trust-network/relationship-registry/adapters/memory"
	"agrilink/contexts/trust-network/relationship-registry/application/commands"
	"agrilink/contexts/trust-network/relationship-registry/application/queries"
	"agrilink/contexts/trust-network/relationship-registry/ports"
)

// Module is the relationship-registry composition root exposed to runtime
// wiring.
type Module struct {
	Handler httpadapter.Handler

	CreateRelationship    commands.CreateRelationshipUseCase
	RequestRelationship   commands.RequestRelationshipUseCase
	ResolveRequest        commands.ResolveRequestUseCase
	TerminateRelationship commands.TerminateRelationshipUseCase
	InviteFieldManager    commands.InviteFieldManagerUseCase
	AcceptInvitation      commands.AcceptInvitationUseCase
	CancelInvitation      commands.CancelInvitationUseCase
	GetRelationship       queries.GetRelationshipUseCase
	ListRelationships     queries.ListRelationshipsUseCase
	ListInvitations       queries.ListInvitationsUseCase

	Store *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Relationships ports.RelationshipRepository
	Invitations   ports.InvitationRepository
	Users         ports.UserDirectory
	Tokens        ports.TokenIssuer
	Notifier      ports.Notifier
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger
}

// NewModule wires the lifecycle use-cases and transport handler using
// explicit ports.
func NewModule(deps Dependencies) Module {
	createRelationship := commands.CreateRelationshipUseCase{
		Relationships: deps.Relationships,
		Users:         deps.Users,
		Notifier:      deps.Notifier,
		Clock:         deps.Clock,
		IDGenerator:   deps.IDGenerator,
		Logger:        deps.Logger,
	}
	requestRelationship := commands.RequestRelationshipUseCase{
		Relationships: deps.Relationships,
		Users:         deps.Users,
		Notifier:      deps.Notifier,
		Clock:         deps.Clock,
		IDGenerator:   deps.IDGenerator,
		Logger:        deps.Logger,
	}
	resolveRequest := commands.ResolveRequestUseCase{
		Relationships: deps.Relationships,
		Notifier:      deps.Notifier,
		Clock:         deps.Clock,
		Logger:        deps.Logger,
	}
	terminateRelationship := commands.TerminateRelationshipUseCase{
		Relationships: deps.Relationships,
		Notifier:      deps.Notifier,
		Clock:         deps.Clock,
		Logger:        deps.Logger,
	}
	inviteFieldManager := commands.InviteFieldManagerUseCase{
		Invitations: deps.Invitations,
		Users:       deps.Users,
		Tokens:      deps.Tokens,
		Notifier:    deps.Notifier,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	acceptInvitation := commands.AcceptInvitationUseCase{
		Invitations: deps.Invitations,
		Users:       deps.Users,
		Notifier:    deps.Notifier,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	cancelInvitation := commands.CancelInvitationUseCase{
		Invitations: deps.Invitations,
		Clock:       deps.Clock,
		Logger:      deps.Logger,
	}
	getRelationship := queries.GetRelationshipUseCase{
		Relationships: deps.Relationships,
		Logger:        deps.Logger,
	}
	listRelationships := queries.ListRelationshipsUseCase{
		Relationships: deps.Relationships,
		Logger:        deps.Logger,
	}
	listInvitations := queries.ListInvitationsUseCase{
		Invitations: deps.Invitations,
		Logger:      deps.Logger,
	}

	handler := httpadapter.Handler{
		CreateRelationship:    createRelationship,
		RequestRelationship:   requestRelationship,
		ResolveRequest:        resolveRequest,
		TerminateRelationship: terminateRelationship,
		InviteFieldManager:    inviteFieldManager,
		AcceptInvitation:      acceptInvitation,
		CancelInvitation:      cancelInvitation,
		GetRelationship:       getRelationship,
		ListRelationships:     listRelationships,
		ListInvitations:       listInvitations,
		Logger:                deps.Logger,
	}

	return Module{
		Handler:               handler,
		CreateRelationship:    createRelationship,
		RequestRelationship:   requestRelationship,
		ResolveRequest:        resolveRequest,
		TerminateRelationship: terminateRelationship,
		InviteFieldManager:    inviteFieldManager,
		AcceptInvitation:      acceptInvitation,
		CancelInvitation:      cancelInvitation,
		GetRelationship:       getRelationship,
		ListRelationships:     listRelationships,
		ListInvitations:       listInvitations,
	}
}

// NewInMemoryModule builds a development/testing module with the in-memory
// adapter implementing every port.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Relationships: store,
		Invitations:   store,
		Users:         store,
		Tokens:        store,
		Notifier:      store,
		Clock:         store,
		IDGenerator:   store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
