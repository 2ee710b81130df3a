// Package api provides the Keystone Bible REST API server.
package api

import (
	"fmt"
	"net/http"
	"os"

	"github.com/FocuswithJustin/KeystoneBible/core/chiasm"
	"github.com/FocuswithJustin/KeystoneBible/core/scopes"
	"github.com/FocuswithJustin/KeystoneBible/internal/logging"
)

// PassageSource supplies pre-parsed passages for pairing analysis.
type PassageSource interface {
	// Psalms lists the psalm numbers the source can serve.
	Psalms() ([]int, error)

	// LoadPsalm returns one psalm's verses in order.
	LoadPsalm(n int) ([]chiasm.PassageVerse, error)
}

// Server serves chiasm analysis over HTTP. All analysis state is derived
// per request from the catalog; only the job store and WebSocket hub are
// shared across requests.
type Server struct {
	cfg      Config
	catalog  *scopes.Catalog
	lookup   chiasm.Lookup
	passages PassageSource
	jobs     *JobStore
	hub      *Hub
}

// NewServer creates a server over the given catalog, verse lookup and
// passage source.
func NewServer(cfg Config, catalog *scopes.Catalog, lookup chiasm.Lookup, passages PassageSource) *Server {
	return &Server{
		cfg:      cfg,
		catalog:  catalog,
		lookup:   lookup,
		passages: passages,
		jobs:     NewJobStore(),
		hub:      NewHub(),
	}
}

// Start validates the configuration, wires the middleware chain and serves
// until the listener fails.
func (s *Server) Start() error {
	if err := ValidateAuthConfig(s.cfg.Auth); err != nil {
		return fmt.Errorf("invalid auth config: %w", err)
	}

	if s.cfg.TLS.Enabled {
		if s.cfg.TLS.CertFile == "" || s.cfg.TLS.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert or key file not specified")
		}
		if _, err := os.Stat(s.cfg.TLS.CertFile); err != nil {
			return fmt.Errorf("TLS cert file not found: %w", err)
		}
		if _, err := os.Stat(s.cfg.TLS.KeyFile); err != nil {
			return fmt.Errorf("TLS key file not found: %w", err)
		}
	}

	go s.hub.Run()

	handler := s.Handler()

	protocol := "http"
	wsProtocol := "ws"
	if s.cfg.TLS.Enabled {
		protocol = "https"
		wsProtocol = "wss"
		logging.Info("TLS enabled", "cert_file", s.cfg.TLS.CertFile)
	} else {
		logging.Warn("TLS disabled - using plain HTTP",
			"recommendation", "consider using TLS or reverse proxy for production")
	}
	logging.ServerStartup("rest_api", protocol, s.cfg.Port,
		"websocket_protocol", wsProtocol,
		"scopes", len(s.catalog.ScopeIDs()))

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	if s.cfg.TLS.Enabled {
		return http.ListenAndServeTLS(addr, s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile, handler)
	}
	return http.ListenAndServe(addr, handler)
}

// Handler builds the full middleware chain around the route mux:
// logging → CORS → rate limit → auth → security headers → routes.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = SecurityHeadersMiddleware(s.routes())

	if s.cfg.Auth.Enabled {
		handler = AuthMiddleware(s.cfg.Auth, handler)
		logging.Info("authentication enabled", "note", "API key required")
	}

	if s.cfg.RateLimitRequests > 0 {
		rlCfg := RateLimiterConfig{
			RequestsPerMinute: s.cfg.RateLimitRequests,
			BurstSize:         s.cfg.RateLimitBurst,
		}
		if rlCfg.BurstSize == 0 {
			rlCfg.BurstSize = 10
		}
		handler = NewRateLimiter(rlCfg).Middleware(handler)
		logging.Info("rate limiting enabled",
			"requests_per_minute", rlCfg.RequestsPerMinute,
			"burst_size", rlCfg.BurstSize)
	}

	handler = CORSMiddleware(s.cfg.AllowedOrigins, handler)
	return logging.CombinedMiddleware(handler)
}

// routes configures all HTTP routes.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/scopes", s.handleScopes)
	mux.HandleFunc("/scopes/", s.handleScopeByID)
	mux.HandleFunc("/psalms", s.handlePsalms)
	mux.HandleFunc("/psalms/", s.handlePsalmByNumber)
	mux.HandleFunc("/jobs", s.handleJobs)
	mux.HandleFunc("/jobs/", s.handleJobByID)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return mux
}
