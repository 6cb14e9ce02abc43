package commands

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"agrilink/contexts/trust-network/accesspolicy"
	application "agrilink/contexts/trust-network/relationship-registry/application"
	"agrilink/contexts/trust-network/relationship-registry/domain/entities"
	domainerrors "agrilink/contexts/trust-network/relationship-registry/domain/errors"
	"agrilink/contexts/trust-network/relationship-registry/ports"
)

const invitationTokenPurpose = "invitation"

type InviteFieldManagerCommand struct {
	FarmAdminID string
	Email       string
}

// InviteFieldManagerUseCase issues a time-boxed invitation for a prospective
// field manager without an account yet.
type InviteFieldManagerUseCase struct {
	Invitations ports.InvitationRepository
	Users       ports.UserDirectory
	Tokens      ports.TokenIssuer
	Notifier    ports.Notifier
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u InviteFieldManagerUseCase) Execute(ctx context.Context, cmd InviteFieldManagerCommand) (entities.Invitation, error) {
	logger := application.ResolveLogger(u.Logger)
	email := entities.NormalizeEmail(cmd.Email)
	if strings.TrimSpace(cmd.FarmAdminID) == "" || email == "" {
		return entities.Invitation{}, domainerrors.ErrInvalidRequest
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return entities.Invitation{}, domainerrors.ErrInvalidRequest
	}

	if _, err := requireFarmAdmin(ctx, u.Users, cmd.FarmAdminID); err != nil {
		return entities.Invitation{}, err
	}

	if _, found, err := u.Users.FindUserByEmail(ctx, email); err != nil {
		return entities.Invitation{}, err
	} else if found {
		return entities.Invitation{}, domainerrors.ErrUserAlreadyExists
	}

	token, expiresAt, err := u.Tokens.Issue(ctx, invitationTokenPurpose)
	if err != nil {
		return entities.Invitation{}, err
	}
	invitationID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Invitation{}, err
	}

	now := u.Clock.Now().UTC()
	invitation, err := entities.NewInvitation(
		invitationID,
		cmd.FarmAdminID,
		email,
		accesspolicy.RoleFieldManager,
		accesspolicy.RelationshipTypeFieldManager,
		token,
		expiresAt,
		now,
	)
	if err != nil {
		return entities.Invitation{}, err
	}

	if err := u.Invitations.CreateInvitation(ctx, invitation); err != nil {
		if err == domainerrors.ErrDuplicatePendingInvitation {
			logger.Warn("duplicate pending invitation rejected",
				"event", "invitation_duplicate",
				"module", moduleName,
				"layer", "application",
				"farm_admin_id", cmd.FarmAdminID,
				"invitee_email", email,
			)
		}
		return entities.Invitation{}, err
	}

	logger.Info("field manager invited",
		"event", "invitation_sent",
		"module", moduleName,
		"layer", "application",
		"invitation_id", invitation.ID,
		"farm_admin_id", invitation.InviterID,
		"invitee_email", invitation.InviteeEmail,
		"expires_at", invitation.ExpiresAt,
	)

	notifyBestEffort(ctx, u.Notifier, logger, ports.Notification{
		Email: invitation.InviteeEmail,
		Kind:  ports.NotificationInvitationSent,
		Payload: map[string]any{
			"invitation_id": invitation.ID,
			"inviter_id":    invitation.InviterID,
			"token":         invitation.Token,
			"expires_at":    invitation.ExpiresAt,
		},
	})
	return invitation, nil
}
