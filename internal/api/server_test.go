package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FocuswithJustin/KeystoneBible/core/scopes"
)

func TestStartRejectsBadConfig(t *testing.T) {
	catalog, err := scopes.New()
	if err != nil {
		t.Fatalf("scopes.New() unexpected error: %v", err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"auth without key", Config{Auth: AuthConfig{Enabled: true}}},
		{"tls without files", Config{TLS: TLSConfig{Enabled: true}}},
		{"tls missing cert", Config{TLS: TLSConfig{Enabled: true, CertFile: "/no/such/cert.pem", KeyFile: "/no/such/key.pem"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(tt.cfg, catalog, fakeLookup{}, nil)
			if err := s.Start(); err == nil {
				t.Error("Start() expected configuration error")
			}
		})
	}
}

func TestHandlerChainAuth(t *testing.T) {
	s := newTestServer(t)
	s.cfg.Auth = AuthConfig{Enabled: true, APIKey: testAPIKey}
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/scopes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no key status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/scopes", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid key status = %d, want 200", rec.Code)
	}

	// Health stays reachable without credentials.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}

func TestHandlerChainRateLimit(t *testing.T) {
	s := newTestServer(t)
	s.cfg.RateLimitRequests = 60
	s.cfg.RateLimitBurst = 1
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.1.1.1:1000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.1.1.1:1001"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}
}

func TestHandlerSetsSecurityHeaders(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
