package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	accesscontrol "agrilink/contexts/trust-network/access-control"
	datasharing "agrilink/contexts/trust-network/data-sharing"
	relationshipregistry "agrilink/contexts/trust-network/relationship-registry"
	"agrilink/internal/platform/metrics"

	_ "agrilink/internal/platform/httpserver/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	metrics       *metrics.Metrics
	registry      relationshipregistry.Module
	accessControl accesscontrol.Module
	dataSharing   datasharing.Module
}

func New(
	registry relationshipregistry.Module,
	accessControl accesscontrol.Module,
	dataSharing datasharing.Module,
	instruments *metrics.Metrics,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		metrics:       instruments,
		registry:      registry,
		accessControl: accessControl,
		dataSharing:   dataSharing,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux, used by tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.registerRelationshipRoutes()
	s.registerInvitationRoutes()
	s.registerAccessRoutes()
	s.registerDataSharingRoutes()
}

// handle registers a route with request instrumentation when metrics are
// wired. The pattern doubles as the route label.
func (s *Server) handle(pattern string, fn http.HandlerFunc) {
	if s.metrics == nil {
		s.mux.HandleFunc(pattern, fn)
		return
	}
	s.mux.Handle(pattern, s.metrics.Middleware(pattern, fn))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// resolveActorID extracts the authenticated user from the header the
// platform's auth middleware terminates into.
func resolveActorID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-Id"))
}
