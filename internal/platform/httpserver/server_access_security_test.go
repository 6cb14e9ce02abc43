package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAccessCheckRequiresUserHeader(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"resource":"profile","action":"read"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/trust/v1/access/check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAccessCheckGrantsRolePermission(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"resource":"profile","action":"read"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/trust/v1/access/check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user_farm_admin_1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var envelope struct {
		Status string `json:"status"`
		Data   struct {
			Allowed bool   `json:"allowed"`
			Reason  string `json:"reason"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Allowed {
		t.Fatalf("expected allowed decision, got reason %q", envelope.Data.Reason)
	}
}

func TestAccessCheckDeniesSuspendedUser(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"resource":"profile","action":"read"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/trust/v1/access/check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user_suspended_1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var envelope struct {
		Data struct {
			Allowed bool `json:"allowed"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Allowed {
		t.Fatal("expected suspended user to be denied")
	}
}

func TestAccessCheckRejectsEmptyResource(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"resource":"","action":"read"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/trust/v1/access/check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user_farm_admin_1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDashboardConfigReturnsRoleLayout(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/trust/v1/access/dashboard", nil)
	req.Header.Set("X-User-Id", "user_farm_admin_1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var envelope struct {
		Data struct {
			Widgets []string `json:"widgets"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Widgets) == 0 {
		t.Fatal("expected at least one widget for a farm admin")
	}
}

func TestUserPermissionsRequiresUserHeader(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/trust/v1/access/permissions", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}
