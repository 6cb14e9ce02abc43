package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	datasharingerrors "agrilink/contexts/trust-network/data-sharing/domain/errors"
	datasharinghttp "agrilink/contexts/trust-network/data-sharing/transport/http"
)

func (s *Server) registerDataSharingRoutes() {
	s.handle("POST /api/trust/v1/data", s.handleShareData)
	s.handle("GET /api/trust/v1/data", s.handleAccessibleData)
	s.handle("PATCH /api/trust/v1/data/{record_id}", s.handleUpdateSharedData)
	s.handle("GET /api/trust/v1/data/{record_id}/access", s.handleDataAccess)
	s.handle("GET /api/trust/v1/data/{record_id}/visibility", s.handleDataVisibility)
	s.handle("GET /api/trust/v1/data/sync/{farm_admin_id}", s.handleSyncFieldManagerData)
}

func (s *Server) handleShareData(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeDataSharingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req datasharinghttp.ShareDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDataSharingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.dataSharing.Handler.ShareDataHandler(r.Context(), actorID, req)
	if err != nil {
		writeDataSharingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateSharedData(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeDataSharingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req datasharinghttp.UpdateSharedDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDataSharingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.dataSharing.Handler.UpdateSharedDataHandler(r.Context(), actorID, r.PathValue("record_id"), req)
	if err != nil {
		writeDataSharingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccessibleData(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeDataSharingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.dataSharing.Handler.AccessibleDataHandler(r.Context(), actorID, r.URL.Query().Get("data_type"))
	if err != nil {
		writeDataSharingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDataAccess(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeDataSharingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.dataSharing.Handler.DataAccessHandler(
		r.Context(),
		actorID,
		r.PathValue("record_id"),
		r.URL.Query().Get("kind"),
	)
	if err != nil {
		writeDataSharingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDataVisibility(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeDataSharingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.dataSharing.Handler.DataVisibilityHandler(r.Context(), actorID, r.PathValue("record_id"))
	if err != nil {
		writeDataSharingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSyncFieldManagerData(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeDataSharingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.dataSharing.Handler.SyncFieldManagerDataHandler(r.Context(), actorID, r.PathValue("farm_admin_id"))
	if err != nil {
		writeDataSharingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeDataSharingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, datasharingerrors.ErrInvalidRequest):
		writeDataSharingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, datasharingerrors.ErrUserNotFound),
		errors.Is(err, datasharingerrors.ErrRecordNotFound):
		writeDataSharingError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, datasharingerrors.ErrInvalidRole):
		writeDataSharingError(w, http.StatusUnprocessableEntity, "invalid_role", err.Error())
	case errors.Is(err, datasharingerrors.ErrUnauthorized),
		errors.Is(err, datasharingerrors.ErrNoActiveRelationship):
		writeDataSharingError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeDataSharingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeDataSharingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, datasharinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
