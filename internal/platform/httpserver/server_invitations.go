package httpserver

import (
	"encoding/json"
	"net/http"

	registryhttp "agrilink/contexts/trust-network/relationship-registry/transport/http"
)

func (s *Server) registerInvitationRoutes() {
	s.handle("POST /api/trust/v1/invitations", s.handleInviteFieldManager)
	s.handle("GET /api/trust/v1/invitations", s.handleListInvitations)
	s.handle("POST /api/trust/v1/invitations/{invitation_id}/accept", s.handleAcceptInvitation)
	s.handle("POST /api/trust/v1/invitations/{invitation_id}/cancel", s.handleCancelInvitation)
}

func (s *Server) handleInviteFieldManager(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req registryhttp.InviteFieldManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.InviteFieldManagerHandler(r.Context(), actorID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.AcceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.AcceptInvitationHandler(r.Context(), r.PathValue("invitation_id"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelInvitation(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.registry.Handler.CancelInvitationHandler(r.Context(), r.PathValue("invitation_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListInvitations(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.registry.Handler.ListInvitationsHandler(r.Context(), actorID)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
