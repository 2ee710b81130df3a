package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/KeystoneBible/core/chiasm"
)

// JobStatus represents the current state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// AnalyzeRequest is the request body for an analysis job.
type AnalyzeRequest struct {
	// ScopeID names the scope to analyze.
	ScopeID string `json:"scope_id"`

	// ThemeMode, when set, appends a theme comparison over the anchor
	// verses ("surface" or "lemma").
	ThemeMode string `json:"theme_mode,omitempty"`
}

// AnalyzeResult is the completed analysis: the scope summary and the five
// anchors in canonical order, plus the optional theme report.
type AnalyzeResult struct {
	Summary chiasm.ScopeSummary `json:"summary"`
	Anchors []chiasm.AnchorRow  `json:"anchors"`
	Themes  *chiasm.ThemeReport `json:"themes,omitempty"`
}

// Job represents an asynchronous analysis job.
type Job struct {
	ID          string             `json:"id"`
	Status      JobStatus          `json:"status"`
	Progress    int                `json:"progress"` // 0-100
	Result      *AnalyzeResult     `json:"result,omitempty"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
	CompletedAt string             `json:"completed_at,omitempty"`
	Request     AnalyzeRequest     `json:"request"`
	ctx         context.Context    `json:"-"`
	cancel      context.CancelFunc `json:"-"`
}

// JobStore manages analysis jobs in memory.
type JobStore struct {
	jobs map[string]*Job
	mu   sync.RWMutex
}

// NewJobStore creates a new job store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
	}
}

// Create creates a new job and returns it.
func (s *JobStore) Create(req AnalyzeRequest) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now().UTC().Format(time.RFC3339)

	job := &Job{
		ID:        uuid.New().String(),
		Status:    JobStatusPending,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
		Request:   req,
		ctx:       ctx,
		cancel:    cancel,
	}

	s.jobs[job.ID] = job
	return job
}

// Get retrieves a snapshot of a job by ID. Callers receive a copy, safe to
// encode while the job's goroutine keeps updating the stored record.
func (s *JobStore) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[id]
	if !exists {
		return Job{}, false
	}
	return *job, true
}

// terminal reports whether a status is final. Final statuses are never
// overwritten, so a cancelled job stays cancelled even when an in-flight
// progress callback lands afterwards.
func terminal(status JobStatus) bool {
	switch status {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// Update updates a job's status and progress. Updates against a job already
// in a terminal state are dropped.
func (s *JobStore) Update(id string, status JobStatus, progress int, result *AnalyzeResult, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}
	if terminal(job.Status) {
		return nil
	}

	job.Status = status
	job.Progress = progress
	job.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if result != nil {
		job.Result = result
	}

	if errMsg != "" {
		job.Error = errMsg
	}

	if terminal(status) {
		job.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	}

	return nil
}

// List returns snapshots of all jobs.
func (s *JobStore) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	return jobs
}

// Cancel cancels a pending or running job.
func (s *JobStore) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	if job.Status != JobStatusPending && job.Status != JobStatusRunning {
		return fmt.Errorf("job cannot be cancelled (status: %s)", job.Status)
	}

	if job.cancel != nil {
		job.cancel()
	}

	job.Status = JobStatusCancelled
	job.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	job.CompletedAt = job.UpdatedAt

	return nil
}

// runJob executes a full-anchor analysis in a goroutine. Anchor lookups run
// sequentially in canonical order; each completed lookup advances the job's
// progress and is broadcast to WebSocket clients. Cancellation takes effect
// between lookups via the job context.
func (s *Server) runJob(job *Job) {
	go func() {
		s.jobs.Update(job.ID, JobStatusRunning, 5, nil, "")
		s.hub.BroadcastProgress("analyze", "indexing", "building verse sequence for "+job.Request.ScopeID, 5)

		analyzer, err := s.analyzer(job.Request.ScopeID)
		if err != nil {
			s.jobs.Update(job.ID, JobStatusFailed, 100, nil, err.Error())
			s.hub.BroadcastError("analyze", err.Error())
			return
		}

		analyzer.OnProgress = func(completed, total int) {
			progress := 10 + completed*80/total
			s.jobs.Update(job.ID, JobStatusRunning, progress, nil, "")
			s.hub.BroadcastProgress("analyze", "anchors",
				fmt.Sprintf("anchor %d/%d", completed, total), progress)
		}

		result := &AnalyzeResult{
			Summary: analyzer.ScopeSummary(),
			Anchors: analyzer.FullAnchors(job.ctx),
		}

		if job.ctx.Err() != nil {
			// Cancel already marked the job; terminal status stays put.
			return
		}

		if job.Request.ThemeMode != "" {
			mode, ok := chiasm.ParseThemeMode(job.Request.ThemeMode)
			if !ok {
				s.jobs.Update(job.ID, JobStatusFailed, 100, nil,
					fmt.Sprintf("invalid theme mode: %q", job.Request.ThemeMode))
				return
			}
			sources := make([]chiasm.ThemeSource, 0, len(result.Anchors))
			for _, row := range result.Anchors {
				sources = append(sources, chiasm.ThemeSource{Text: row.Verse.Hebrew})
			}
			themes := chiasm.CompareThemes(sources, mode)
			result.Themes = &themes
		}

		s.jobs.Update(job.ID, JobStatusCompleted, 100, result, "")
		s.hub.BroadcastComplete("analyze", "analysis complete", map[string]interface{}{
			"job_id":      job.ID,
			"scope_id":    job.Request.ScopeID,
			"verse_count": result.Summary.VerseCount,
		})
	}()
}

// handleJobs handles POST /jobs (create analysis job) and GET /jobs (list).
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		jobs := s.jobs.List()
		respondWithTotal(w, http.StatusOK, jobs, len(jobs))
	case http.MethodPost:
		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
			return
		}
		if req.ScopeID == "" {
			respondError(w, http.StatusBadRequest, "MISSING_PARAMS", "scope_id is required")
			return
		}
		if req.ThemeMode != "" {
			if _, ok := chiasm.ParseThemeMode(req.ThemeMode); !ok {
				respondError(w, http.StatusBadRequest, "INVALID_MODE", "theme_mode must be 'surface' or 'lemma'")
				return
			}
		}

		job := s.jobs.Create(req)
		s.runJob(job)
		snapshot, _ := s.jobs.Get(job.ID)
		respond(w, http.StatusCreated, snapshot)
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and POST are allowed")
	}
}

// handleJobByID handles GET /jobs/{id} and DELETE /jobs/{id} (cancel).
func (s *Server) handleJobByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if id == "" {
		respondError(w, http.StatusBadRequest, "MISSING_ID", "Job ID is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		job, exists := s.jobs.Get(id)
		if !exists {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Job not found")
			return
		}
		respond(w, http.StatusOK, job)
	case http.MethodDelete:
		if err := s.jobs.Cancel(id); err != nil {
			if strings.Contains(err.Error(), "not found") {
				respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
				return
			}
			respondError(w, http.StatusBadRequest, "CANCEL_FAILED", err.Error())
			return
		}
		respond(w, http.StatusOK, map[string]string{"message": "Job cancelled"})
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and DELETE are allowed")
	}
}
