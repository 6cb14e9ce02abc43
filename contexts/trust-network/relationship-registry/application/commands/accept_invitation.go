package commands

import (
	"context"
	"log/slog"
	"strings"

	"agrilink/contexts/trust-network/accesspolicy"
	application "agrilink/contexts/trust-network/relationship-registry/application"
	"agrilink/contexts/trust-network/relationship-registry/domain/entities"
	domainerrors "agrilink/contexts/trust-network/relationship-registry/domain/errors"
	"agrilink/contexts/trust-network/relationship-registry/ports"
)

type AcceptInvitationCommand struct {
	InvitationID string
	Email        string
	Role         accesspolicy.Role
	Name         string
}

type AcceptInvitationResult struct {
	User         ports.UserRecord
	Relationship entities.BusinessRelationship
	Invitation   entities.Invitation
}

// AcceptInvitationUseCase redeems a pending invitation: user creation,
// relationship creation, and the invitation transition happen as one
// repository transaction so a partial failure cannot leave an orphaned user.
type AcceptInvitationUseCase struct {
	Invitations ports.InvitationRepository
	Users       ports.UserDirectory
	Notifier    ports.Notifier
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u AcceptInvitationUseCase) Execute(ctx context.Context, cmd AcceptInvitationCommand) (AcceptInvitationResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.InvitationID) == "" || entities.NormalizeEmail(cmd.Email) == "" {
		return AcceptInvitationResult{}, domainerrors.ErrInvalidRequest
	}

	invitation, err := u.Invitations.GetInvitation(ctx, cmd.InvitationID)
	if err != nil {
		return AcceptInvitationResult{}, err
	}
	if !invitation.IsPending() {
		return AcceptInvitationResult{}, domainerrors.ErrInvalidStateTransition
	}

	now := u.Clock.Now().UTC()
	if invitation.IsExpired(now) {
		// Expiry is recorded before failing so later lookups see Expired.
		if _, err := u.Invitations.UpdateInvitationStatus(
			ctx,
			invitation.ID,
			accesspolicy.InvitationStatusPending,
			accesspolicy.InvitationStatusExpired,
			now,
		); err != nil {
			return AcceptInvitationResult{}, err
		}
		logger.Info("invitation expired at acceptance",
			"event", "invitation_expired",
			"module", moduleName,
			"layer", "application",
			"invitation_id", invitation.ID,
		)
		return AcceptInvitationResult{}, domainerrors.ErrExpiredInvitation
	}

	if entities.NormalizeEmail(cmd.Email) != invitation.InviteeEmail {
		return AcceptInvitationResult{}, domainerrors.ErrEmailMismatch
	}
	if cmd.Role != invitation.InviteeRole {
		return AcceptInvitationResult{}, domainerrors.ErrRoleMismatch
	}

	if _, found, err := u.Users.FindUserByEmail(ctx, invitation.InviteeEmail); err != nil {
		return AcceptInvitationResult{}, err
	} else if found {
		return AcceptInvitationResult{}, domainerrors.ErrUserAlreadyExists
	}

	userID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return AcceptInvitationResult{}, err
	}
	relationshipID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return AcceptInvitationResult{}, err
	}

	user := ports.UserRecord{
		ID:            userID,
		Email:         invitation.InviteeEmail,
		Name:          strings.TrimSpace(cmd.Name),
		Role:          invitation.InviteeRole,
		Status:        accesspolicy.UserStatusActive,
		EmailVerified: true,
		CreatedAt:     now,
	}
	relationship, err := entities.NewBusinessRelationship(
		relationshipID,
		invitation.InviterID,
		userID,
		invitation.RelationshipType,
		accesspolicy.RelationshipStatusActive,
		"",
		now,
	)
	if err != nil {
		return AcceptInvitationResult{}, err
	}

	if err := u.Invitations.AcceptInvitation(ctx, invitation.ID, user, relationship, now); err != nil {
		logger.Error("invitation acceptance transaction failed",
			"event", "invitation_accept_failed",
			"module", moduleName,
			"layer", "application",
			"invitation_id", invitation.ID,
			"error", err.Error(),
		)
		return AcceptInvitationResult{}, err
	}

	accepted, err := u.Invitations.GetInvitation(ctx, invitation.ID)
	if err != nil {
		return AcceptInvitationResult{}, err
	}

	logger.Info("invitation accepted",
		"event", "invitation_accepted",
		"module", moduleName,
		"layer", "application",
		"invitation_id", invitation.ID,
		"new_user_id", user.ID,
		"relationship_id", relationship.ID,
	)

	notifyBestEffort(ctx, u.Notifier, logger, ports.Notification{
		UserID: invitation.InviterID,
		Kind:   ports.NotificationInvitationAccepted,
		Payload: map[string]any{
			"invitation_id":   invitation.ID,
			"new_user_id":     user.ID,
			"relationship_id": relationship.ID,
		},
	})
	return AcceptInvitationResult{
		User:         user,
		Relationship: relationship,
		Invitation:   accepted,
	}, nil
}
