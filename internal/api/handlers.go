package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/FocuswithJustin/KeystoneBible/core/chiasm"
	"github.com/FocuswithJustin/KeystoneBible/core/errors"
	"github.com/FocuswithJustin/KeystoneBible/core/verseindex"
)

const version = "0.1.0"

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ScopeInfo is one entry of the scope listing.
type ScopeInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Books       []string `json:"books"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Scopes  int    `json:"scopes"`
}

var startTime = time.Now()

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"name":    "Keystone Bible API",
		"version": version,
		"endpoints": []string{
			"GET /health",
			"GET /scopes",
			"GET /scopes/:id",
			"GET /scopes/:id/middle",
			"GET /scopes/:id/quartiles",
			"GET /scopes/:id/anchors",
			"GET /scopes/:id/themes",
			"GET /psalms",
			"GET /psalms/:n/pairs",
			"POST /jobs",
			"GET /jobs",
			"GET /jobs/:id",
			"DELETE /jobs/:id",
			"WS /ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	respond(w, http.StatusOK, HealthInfo{
		Status:  "ok",
		Version: version,
		Uptime:  time.Since(startTime).Round(time.Second).String(),
		Scopes:  len(s.catalog.ScopeIDs()),
	})
}

// handleScopes handles GET /scopes - list all scopes.
func (s *Server) handleScopes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	ids := s.catalog.ScopeIDs()
	infos := make([]ScopeInfo, 0, len(ids))
	for _, id := range ids {
		scope, err := s.catalog.Resolve(id)
		if err != nil {
			continue
		}
		infos = append(infos, ScopeInfo{
			ID:          scope.ID,
			Name:        scope.Name,
			Description: scope.Description,
			Books:       scope.Books,
		})
	}

	respondWithTotal(w, http.StatusOK, infos, len(infos))
}

// handleScopeByID handles GET /scopes/{id} and its analysis sub-resources
// /middle, /quartiles, /anchors and /themes.
func (s *Server) handleScopeByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/scopes/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		respondError(w, http.StatusBadRequest, "MISSING_ID", "Scope ID is required")
		return
	}
	if len(parts) > 2 {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	analyzer, err := s.analyzer(parts[0])
	if err != nil {
		respondScopeError(w, err)
		return
	}

	if len(parts) == 1 {
		respond(w, http.StatusOK, analyzer.ScopeSummary())
		return
	}

	ctx := r.Context()
	switch parts[1] {
	case "middle":
		respond(w, http.StatusOK, analyzer.MiddleVerse(ctx))
	case "quartiles":
		respond(w, http.StatusOK, analyzer.QuartileFrame(ctx))
	case "anchors":
		respond(w, http.StatusOK, analyzer.FullAnchors(ctx))
	case "themes":
		mode, ok := chiasm.ParseThemeMode(r.URL.Query().Get("mode"))
		if !ok {
			respondError(w, http.StatusBadRequest, "INVALID_MODE", "mode must be 'surface' or 'lemma'")
			return
		}
		respond(w, http.StatusOK, analyzer.AnchorThemes(ctx, mode))
	default:
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
	}
}

// handlePsalms handles GET /psalms - list psalms available for pairing.
func (s *Server) handlePsalms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	if s.passages == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "No passage source configured")
		return
	}

	nums, err := s.passages.Psalms()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "PASSAGE_SOURCE", err.Error())
		return
	}
	sort.Ints(nums)
	respondWithTotal(w, http.StatusOK, nums, len(nums))
}

// handlePsalmByNumber handles GET /psalms/{n}/pairs - mirrored pairing of
// one psalm. The optional min_shared query filters pairs below a shared
// token threshold; the center hinge always survives.
func (s *Server) handlePsalmByNumber(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	if s.passages == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "No passage source configured")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/psalms/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[1] != "pairs" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	n, err := strconv.Atoi(parts[0])
	if err != nil || n < 1 {
		respondError(w, http.StatusBadRequest, "INVALID_PSALM", "Psalm number must be a positive integer")
		return
	}

	minShared := 0
	if raw := r.URL.Query().Get("min_shared"); raw != "" {
		minShared, err = strconv.Atoi(raw)
		if err != nil || minShared < 0 {
			respondError(w, http.StatusBadRequest, "INVALID_THRESHOLD", "min_shared must be a non-negative integer")
			return
		}
	}

	verses, err := s.passages.LoadPsalm(n)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "PASSAGE_SOURCE", err.Error())
		return
	}

	pairs := chiasm.FilterPairs(chiasm.ComputePairings(verses), minShared)
	respondWithTotal(w, http.StatusOK, pairs, len(pairs))
}

// analyzer builds a per-request analyzer for the scope.
func (s *Server) analyzer(scopeID string) (*chiasm.Analyzer, error) {
	seq, err := verseindex.Build(s.catalog, scopeID)
	if err != nil {
		return nil, err
	}
	return chiasm.NewAnalyzer(seq, s.lookup), nil
}

// respondScopeError maps sequence-building failures to HTTP status codes.
func respondScopeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errors.ErrUnknownScope):
		respondError(w, http.StatusNotFound, "UNKNOWN_SCOPE", err.Error())
	case errors.Is(err, errors.ErrEmptyScope):
		respondError(w, http.StatusUnprocessableEntity, "EMPTY_SCOPE", err.Error())
	case errors.Is(err, errors.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	respondWithTotal(w, status, data, 0)
}

func respondWithTotal(w http.ResponseWriter, status int, data interface{}, total int) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Total:     total,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
