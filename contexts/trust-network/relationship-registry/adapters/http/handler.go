package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/relationship-registry/application/commands"
	"agrilink/contexts/trust-network/relationship-registry/application/queries"
	"agrilink/contexts/trust-network/relationship-registry/domain/entities"
	httptransport "agrilink/contexts/trust-network/relationship-registry/transport/http"
)

type Handler struct {
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
	Logger                *slog.Logger
}

func (h Handler) CreateRelationshipHandler(
	ctx context.Context,
	actorUserID string,
	req httptransport.CreateRelationshipRequest,
) (httptransport.RelationshipResponse, error) {
	relationship, err := h.CreateRelationship.Execute(ctx, commands.CreateRelationshipCommand{
		FarmAdminID:       strings.TrimSpace(actorUserID),
		ServiceProviderID: strings.TrimSpace(req.ServiceProviderID),
		Type:              accesspolicy.RelationshipType(strings.TrimSpace(req.RelationshipType)),
	})
	if err != nil {
		return httptransport.RelationshipResponse{}, err
	}
	return relationshipResponse(relationship), nil
}

func (h Handler) RequestRelationshipHandler(
	ctx context.Context,
	actorUserID string,
	req httptransport.RequestRelationshipRequest,
) (httptransport.RelationshipResponse, error) {
	relationship, err := h.RequestRelationship.Execute(ctx, commands.RequestRelationshipCommand{
		ServiceProviderID: strings.TrimSpace(actorUserID),
		FarmAdminID:       strings.TrimSpace(req.FarmAdminID),
		Type:              accesspolicy.RelationshipType(strings.TrimSpace(req.RelationshipType)),
		Message:           req.Message,
	})
	if err != nil {
		return httptransport.RelationshipResponse{}, err
	}
	return relationshipResponse(relationship), nil
}

func (h Handler) ResolveRequestHandler(
	ctx context.Context,
	actorUserID string,
	relationshipID string,
	req httptransport.ResolveRequestRequest,
) (httptransport.RelationshipResponse, error) {
	relationship, err := h.ResolveRequest.Execute(ctx, commands.ResolveRequestCommand{
		RelationshipID: strings.TrimSpace(relationshipID),
		FarmAdminID:    strings.TrimSpace(actorUserID),
		Approve:        req.Approve,
		Reason:         req.Reason,
	})
	if err != nil {
		return httptransport.RelationshipResponse{}, err
	}
	return relationshipResponse(relationship), nil
}

func (h Handler) TerminateRelationshipHandler(
	ctx context.Context,
	actorUserID string,
	relationshipID string,
	req httptransport.TerminateRelationshipRequest,
) (httptransport.RelationshipResponse, error) {
	relationship, err := h.TerminateRelationship.Execute(ctx, commands.TerminateRelationshipCommand{
		RelationshipID: strings.TrimSpace(relationshipID),
		ActorUserID:    strings.TrimSpace(actorUserID),
		Reason:         req.Reason,
	})
	if err != nil {
		return httptransport.RelationshipResponse{}, err
	}
	return relationshipResponse(relationship), nil
}

func (h Handler) GetRelationshipHandler(ctx context.Context, relationshipID string) (httptransport.RelationshipResponse, error) {
	relationship, err := h.GetRelationship.Execute(ctx, strings.TrimSpace(relationshipID))
	if err != nil {
		return httptransport.RelationshipResponse{}, err
	}
	return relationshipResponse(relationship), nil
}

func (h Handler) ListRelationshipsHandler(ctx context.Context, userID string) (httptransport.RelationshipListResponse, error) {
	items, err := h.ListRelationships.Execute(ctx, strings.TrimSpace(userID))
	if err != nil {
		return httptransport.RelationshipListResponse{}, err
	}
	resp := httptransport.RelationshipListResponse{Status: "success"}
	resp.Data = make([]httptransport.RelationshipData, 0, len(items))
	for _, item := range items {
		resp.Data = append(resp.Data, relationshipData(item))
	}
	return resp, nil
}

func (h Handler) InviteFieldManagerHandler(
	ctx context.Context,
	actorUserID string,
	req httptransport.InviteFieldManagerRequest,
) (httptransport.InviteFieldManagerResponse, error) {
	invitation, err := h.InviteFieldManager.Execute(ctx, commands.InviteFieldManagerCommand{
		FarmAdminID: strings.TrimSpace(actorUserID),
		Email:       strings.TrimSpace(req.Email),
	})
	if err != nil {
		return httptransport.InviteFieldManagerResponse{}, err
	}
	resp := httptransport.InviteFieldManagerResponse{Status: "success"}
	resp.Data.Invitation = invitationData(invitation)
	resp.Data.Token = invitation.Token
	return resp, nil
}

func (h Handler) AcceptInvitationHandler(
	ctx context.Context,
	invitationID string,
	req httptransport.AcceptInvitationRequest,
) (httptransport.AcceptInvitationResponse, error) {
	result, err := h.AcceptInvitation.Execute(ctx, commands.AcceptInvitationCommand{
		InvitationID: strings.TrimSpace(invitationID),
		Email:        strings.TrimSpace(req.Email),
		Role:         accesspolicy.Role(strings.TrimSpace(req.Role)),
		Name:         req.Name,
	})
	if err != nil {
		return httptransport.AcceptInvitationResponse{}, err
	}
	resp := httptransport.AcceptInvitationResponse{Status: "success"}
	resp.Data.UserID = result.User.ID
	resp.Data.Invitation = invitationData(result.Invitation)
	resp.Data.Relationship = relationshipData(result.Relationship)
	return resp, nil
}

func (h Handler) CancelInvitationHandler(ctx context.Context, invitationID string) (httptransport.InvitationResponse, error) {
	invitation, err := h.CancelInvitation.Execute(ctx, commands.CancelInvitationCommand{
		InvitationID: strings.TrimSpace(invitationID),
	})
	if err != nil {
		return httptransport.InvitationResponse{}, err
	}
	return httptransport.InvitationResponse{Status: "success", Data: invitationData(invitation)}, nil
}

func (h Handler) ListInvitationsHandler(ctx context.Context, inviterID string) (httptransport.InvitationListResponse, error) {
	items, err := h.ListInvitations.Execute(ctx, strings.TrimSpace(inviterID))
	if err != nil {
		return httptransport.InvitationListResponse{}, err
	}
	resp := httptransport.InvitationListResponse{Status: "success"}
	resp.Data = make([]httptransport.InvitationData, 0, len(items))
	for _, item := range items {
		resp.Data = append(resp.Data, invitationData(item))
	}
	return resp, nil
}

func relationshipResponse(relationship entities.BusinessRelationship) httptransport.RelationshipResponse {
	return httptransport.RelationshipResponse{
		Status: "success",
		Data:   relationshipData(relationship),
	}
}

func relationshipData(relationship entities.BusinessRelationship) httptransport.RelationshipData {
	data := httptransport.RelationshipData{
		RelationshipID:    relationship.ID,
		FarmAdminID:       relationship.FarmAdminID,
		ServiceProviderID: relationship.ServiceProviderID,
		RelationshipType:  string(relationship.Type),
		Status:            string(relationship.Status),
		ReadPermissions:   append([]string(nil), relationship.Permissions.Read...),
		WritePermissions:  append([]string(nil), relationship.Permissions.Write...),
		Message:           relationship.Message,
		StatusReason:      relationship.StatusReason,
		CreatedAt:         relationship.CreatedAt.UTC().Format(time.RFC3339),
	}
	if !relationship.EstablishedAt.IsZero() {
		data.EstablishedAt = relationship.EstablishedAt.UTC().Format(time.RFC3339)
	}
	return data
}

func invitationData(invitation entities.Invitation) httptransport.InvitationData {
	data := httptransport.InvitationData{
		InvitationID:     invitation.ID,
		InviterID:        invitation.InviterID,
		InviteeEmail:     invitation.InviteeEmail,
		InviteeRole:      string(invitation.InviteeRole),
		RelationshipType: string(invitation.RelationshipType),
		Status:           string(invitation.Status),
		ExpiresAt:        invitation.ExpiresAt.UTC().Format(time.RFC3339),
		SentAt:           invitation.SentAt.UTC().Format(time.RFC3339),
	}
	if invitation.AcceptedAt != nil {
		data.AcceptedAt = invitation.AcceptedAt.UTC().Format(time.RFC3339)
	}
	return data
}
