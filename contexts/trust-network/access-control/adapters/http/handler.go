package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"agrilink/contexts/trust-network/access-control/application/queries"
	httptransport "agrilink/contexts/trust-network/access-control/transport/http"
)

type Handler struct {
	CheckPermission            queries.CheckPermissionUseCase
	GetDashboardConfig         queries.GetDashboardConfigUseCase
	ValidateRelationshipAccess queries.ValidateRelationshipAccessUseCase
	GetUserPermissions         queries.GetUserPermissionsUseCase
	Logger                     *slog.Logger
}

func (h Handler) CheckPermissionHandler(
	ctx context.Context,
	actorUserID string,
	req httptransport.CheckPermissionRequest,
) (httptransport.CheckPermissionResponse, error) {
	decision, err := h.CheckPermission.Execute(ctx, queries.CheckPermissionQuery{
		UserID:   strings.TrimSpace(actorUserID),
		Resource: strings.TrimSpace(req.Resource),
		Action:   strings.TrimSpace(req.Action),
	})
	if err != nil {
		return httptransport.CheckPermissionResponse{}, err
	}
	return httptransport.CheckPermissionResponse{
		Status: "success",
		Data: httptransport.PermissionDecisionData{
			UserID:    decision.UserID,
			Resource:  decision.Resource,
			Action:    decision.Action,
			Allowed:   decision.Allowed,
			Reason:    decision.Reason,
			CheckedAt: decision.CheckedAt.Format(time.RFC3339),
		},
	}, nil
}

func (h Handler) DashboardConfigHandler(ctx context.Context, actorUserID string) (httptransport.DashboardConfigResponse, error) {
	config, err := h.GetDashboardConfig.Execute(ctx, queries.GetDashboardConfigQuery{
		UserID: strings.TrimSpace(actorUserID),
	})
	if err != nil {
		return httptransport.DashboardConfigResponse{}, err
	}
	return httptransport.DashboardConfigResponse{
		Status: "success",
		Data: httptransport.DashboardConfigData{
			Widgets:     config.Widgets,
			Navigation:  config.Navigation,
			Permissions: config.Permissions,
		},
	}, nil
}

func (h Handler) RelationshipAccessHandler(
	ctx context.Context,
	actorUserID string,
	targetUserID string,
) (httptransport.RelationshipAccessResponse, error) {
	allowed, err := h.ValidateRelationshipAccess.Execute(ctx, queries.ValidateRelationshipAccessQuery{
		UserID:       strings.TrimSpace(actorUserID),
		TargetUserID: strings.TrimSpace(targetUserID),
	})
	if err != nil {
		return httptransport.RelationshipAccessResponse{}, err
	}
	resp := httptransport.RelationshipAccessResponse{Status: "success"}
	resp.Data.UserID = strings.TrimSpace(actorUserID)
	resp.Data.TargetUserID = strings.TrimSpace(targetUserID)
	resp.Data.Allowed = allowed
	return resp, nil
}

func (h Handler) UserPermissionsHandler(ctx context.Context, actorUserID string) (httptransport.UserPermissionsResponse, error) {
	permissions, err := h.GetUserPermissions.Execute(ctx, queries.GetUserPermissionsQuery{
		UserID: strings.TrimSpace(actorUserID),
	})
	if err != nil {
		return httptransport.UserPermissionsResponse{}, err
	}
	resp := httptransport.UserPermissionsResponse{Status: "success"}
	resp.Data.UserID = strings.TrimSpace(actorUserID)
	resp.Data.Permissions = permissions
	return resp, nil
}
