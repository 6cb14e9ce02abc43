package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	registryerrors "agrilink/contexts/trust-network/relationship-registry/domain/errors"
	registryhttp "agrilink/contexts/trust-network/relationship-registry/transport/http"
)

func (s *Server) registerRelationshipRoutes() {
	s.handle("POST /api/trust/v1/relationships", s.handleCreateRelationship)
	s.handle("GET /api/trust/v1/relationships", s.handleListRelationships)
	s.handle("GET /api/trust/v1/relationships/{relationship_id}", s.handleGetRelationship)
	s.handle("POST /api/trust/v1/relationships/request", s.handleRequestRelationship)
	s.handle("POST /api/trust/v1/relationships/{relationship_id}/resolve", s.handleResolveRequest)
	s.handle("POST /api/trust/v1/relationships/{relationship_id}/terminate", s.handleTerminateRelationship)
}

func (s *Server) handleCreateRelationship(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req registryhttp.CreateRelationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.CreateRelationshipHandler(r.Context(), actorID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRequestRelationship(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req registryhttp.RequestRelationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.RequestRelationshipHandler(r.Context(), actorID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleResolveRequest(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req registryhttp.ResolveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.ResolveRequestHandler(r.Context(), actorID, r.PathValue("relationship_id"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTerminateRelationship(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req registryhttp.TerminateRelationshipRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	resp, err := s.registry.Handler.TerminateRelationshipHandler(r.Context(), actorID, r.PathValue("relationship_id"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRelationship(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.GetRelationshipHandler(r.Context(), r.PathValue("relationship_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRelationships(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.registry.Handler.ListRelationshipsHandler(r.Context(), actorID)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrInvalidRequest):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, registryerrors.ErrUserNotFound),
		errors.Is(err, registryerrors.ErrRelationshipNotFound),
		errors.Is(err, registryerrors.ErrInvitationNotFound):
		writeRegistryError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidRole),
		errors.Is(err, registryerrors.ErrEmailMismatch),
		errors.Is(err, registryerrors.ErrRoleMismatch):
		writeRegistryError(w, http.StatusUnprocessableEntity, "invalid_identity", err.Error())
	case errors.Is(err, registryerrors.ErrUnauthorized):
		writeRegistryError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, registryerrors.ErrDuplicateRelationship),
		errors.Is(err, registryerrors.ErrDuplicatePendingInvitation),
		errors.Is(err, registryerrors.ErrUserAlreadyExists),
		errors.Is(err, registryerrors.ErrInvalidStateTransition):
		writeRegistryError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, registryerrors.ErrExpiredInvitation):
		writeRegistryError(w, http.StatusGone, "invitation_expired", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
