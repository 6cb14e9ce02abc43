package queries

import (
	"context"
	"log/slog"
	"strings"

	"agrilink/contexts/trust-network/relationship-registry/domain/entities"
	domainerrors "agrilink/contexts/trust-network/relationship-registry/domain/errors"
	"agrilink/contexts/trust-network/relationship-registry/ports"
)

type ListInvitationsUseCase struct {
	Invitations ports.InvitationRepository
	Logger      *slog.Logger
}

func (u ListInvitationsUseCase) Execute(ctx context.Context, inviterID string) ([]entities.Invitation, error) {
	if strings.TrimSpace(inviterID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return u.Invitations.ListInvitationsByInviter(ctx, inviterID)
}
