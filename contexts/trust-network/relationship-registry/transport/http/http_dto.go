package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RelationshipData is the wire view of a business relationship.
type RelationshipData struct {
	RelationshipID    string   `json:"relationship_id"`
	FarmAdminID       string   `json:"farm_admin_id"`
	ServiceProviderID string   `json:"service_provider_id"`
	RelationshipType  string   `json:"relationship_type"`
	Status            string   `json:"status"`
	ReadPermissions   []string `json:"read_permissions"`
	WritePermissions  []string `json:"write_permissions"`
	Message           string   `json:"message,omitempty"`
	StatusReason      string   `json:"status_reason,omitempty"`
	EstablishedAt     string   `json:"established_at,omitempty"`
	CreatedAt         string   `json:"created_at"`
}

// InvitationData is the wire view of an invitation. The token is only
// exposed on creation responses.
type InvitationData struct {
	InvitationID     string `json:"invitation_id"`
	InviterID        string `json:"inviter_id"`
	InviteeEmail     string `json:"invitee_email"`
	InviteeRole      string `json:"invitee_role"`
	RelationshipType string `json:"relationship_type"`
	Status           string `json:"status"`
	ExpiresAt        string `json:"expires_at"`
	SentAt           string `json:"sent_at"`
	AcceptedAt       string `json:"accepted_at,omitempty"`
}

type CreateRelationshipRequest struct {
	ServiceProviderID string `json:"service_provider_id"`
	RelationshipType  string `json:"relationship_type"`
}

type RequestRelationshipRequest struct {
	FarmAdminID      string `json:"farm_admin_id"`
	RelationshipType string `json:"relationship_type"`
	Message          string `json:"message,omitempty"`
}

type ResolveRequestRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty"`
}

type TerminateRelationshipRequest struct {
	Reason string `json:"reason,omitempty"`
}

type RelationshipResponse struct {
	Status string           `json:"status"`
	Data   RelationshipData `json:"data"`
}

type RelationshipListResponse struct {
	Status string             `json:"status"`
	Data   []RelationshipData `json:"data"`
}

type InviteFieldManagerRequest struct {
	Email string `json:"email"`
}

type InviteFieldManagerResponse struct {
	Status string `json:"status"`
	Data   struct {
		Invitation InvitationData `json:"invitation"`
		Token      string         `json:"token"`
	} `json:"data"`
}

type AcceptInvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
}

type AcceptInvitationResponse struct {
	Status string `json:"status"`
	Data   struct {
		UserID       string           `json:"user_id"`
		Invitation   InvitationData   `json:"invitation"`
		Relationship RelationshipData `json:"relationship"`
	} `json:"data"`
}

type InvitationResponse struct {
	Status string         `json:"status"`
	Data   InvitationData `json:"data"`
}

type InvitationListResponse struct {
	Status string           `json:"status"`
	Data   []InvitationData `json:"data"`
}
