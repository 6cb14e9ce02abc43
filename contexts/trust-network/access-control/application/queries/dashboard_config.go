package queries

import (
	"context"
	"log/slog"
	"strings"

	application "agrilink/contexts/trust-network/access-control/application"
	domainerrors "agrilink/contexts/trust-network/access-control/domain/errors"
	"agrilink/contexts/trust-network/access-control/ports"
	"agrilink/contexts/trust-network/accesspolicy"
)

type GetDashboardConfigQuery struct {
	UserID string
}

type GetDashboardConfigUseCase struct {
	Users  ports.UserDirectory
	Logger *slog.Logger
}

// Execute returns the dashboard layout for the user's role. Unknown users,
// inactive users, and unknown roles all receive the minimal fallback config
// so the dashboard renders something safe instead of failing.
func (u GetDashboardConfigUseCase) Execute(ctx context.Context, query GetDashboardConfigQuery) (accesspolicy.DashboardConfig, error) {
	logger := application.ResolveLogger(u.Logger)
	query.UserID = strings.TrimSpace(query.UserID)
	if query.UserID == "" {
		return accesspolicy.DashboardConfig{}, domainerrors.ErrInvalidRequest
	}

	user, found, err := u.Users.FindUserByID(ctx, query.UserID)
	if err != nil {
		logLookupFailure(logger, "dashboard_config_failed", query.UserID, err)
		return accesspolicy.FallbackDashboardConfig(), nil
	}
	if !found || user.Status != accesspolicy.UserStatusActive {
		return accesspolicy.FallbackDashboardConfig(), nil
	}
	return accesspolicy.DashboardConfigFor(user.Role), nil
}
