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

type CancelInvitationCommand struct {
	InvitationID string
}

type CancelInvitationUseCase struct {
	Invitations ports.InvitationRepository
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (u CancelInvitationUseCase) Execute(ctx context.Context, cmd CancelInvitationCommand) (entities.Invitation, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.InvitationID) == "" {
		return entities.Invitation{}, domainerrors.ErrInvalidRequest
	}

	invitation, err := u.Invitations.GetInvitation(ctx, cmd.InvitationID)
	if err != nil {
		return entities.Invitation{}, err
	}
	if !invitation.IsPending() {
		return entities.Invitation{}, domainerrors.ErrInvalidStateTransition
	}

	cancelled, err := u.Invitations.UpdateInvitationStatus(
		ctx,
		invitation.ID,
		accesspolicy.InvitationStatusPending,
		accesspolicy.InvitationStatusCancelled,
		u.Clock.Now().UTC(),
	)
	if err != nil {
		return entities.Invitation{}, err
	}

	logger.Info("invitation cancelled",
		"event", "invitation_cancelled",
		"module", moduleName,
		"layer", "application",
		"invitation_id", cancelled.ID,
	)
	return cancelled, nil
}
