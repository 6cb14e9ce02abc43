package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	accesserrors "agrilink/contexts/trust-network/access-control/domain/errors"
	accesshttp "agrilink/contexts/trust-network/access-control/transport/http"
)

func (s *Server) registerAccessRoutes() {
	s.handle("POST /api/trust/v1/access/check", s.handleAccessCheck)
	s.handle("GET /api/trust/v1/access/dashboard", s.handleDashboardConfig)
	s.handle("GET /api/trust/v1/access/users/{target_user_id}", s.handleRelationshipAccess)
	s.handle("GET /api/trust/v1/access/permissions", s.handleUserPermissions)
}

func (s *Server) handleAccessCheck(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeAccessError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req accesshttp.CheckPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAccessError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.accessControl.Handler.CheckPermissionHandler(r.Context(), actorID, req)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDashboardConfig(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeAccessError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.accessControl.Handler.DashboardConfigHandler(r.Context(), actorID)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRelationshipAccess(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeAccessError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.accessControl.Handler.RelationshipAccessHandler(r.Context(), actorID, r.PathValue("target_user_id"))
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUserPermissions(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeAccessError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.accessControl.Handler.UserPermissionsHandler(r.Context(), actorID)
	if err != nil {
		writeAccessDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAccessDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accesserrors.ErrInvalidRequest):
		writeAccessError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeAccessError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAccessError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accesshttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
