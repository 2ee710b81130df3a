package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeadersMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/scopes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
}

func TestCORSAllowAll(t *testing.T) {
	handler := CORSMiddleware(nil, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/scopes", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Error("wildcard origin must not allow credentials")
	}
}

func TestCORSRestricted(t *testing.T) {
	allowed := []string{"https://keystone.example"}
	handler := CORSMiddleware(allowed, okHandler())

	// Listed origin gets CORS headers and credentials.
	req := httptest.NewRequest(http.MethodGet, "/scopes", nil)
	req.Header.Set("Origin", "https://keystone.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://keystone.example" {
		t.Errorf("Allow-Origin = %q, want the listed origin", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("listed origin should allow credentials")
	}

	// Unlisted origin gets no CORS headers.
	req = httptest.NewRequest(http.MethodGet, "/scopes", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unlisted origin must not receive CORS headers")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("unlisted origin GET status = %d, want 200 (browser enforces)", rec.Code)
	}

	// Preflight from an unlisted origin is rejected outright.
	req = httptest.NewRequest(http.MethodOptions, "/scopes", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("unlisted preflight status = %d, want 403", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORSMiddleware(nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight must not reach the inner handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/scopes", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("preflight missing Allow-Methods header")
	}
}
