package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seantiz/asyncdemo/internal/engine"
	"github.com/seantiz/asyncdemo/internal/model"
	"github.com/seantiz/asyncdemo/internal/store"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxBodySize      = 1 << 20 // 1 MB
)

// createRunRequest is the JSON body for POST /v1/runs and /v1/runs/async.
type createRunRequest struct {
	Scenario string `json:"scenario" validate:"required"`
	DelayMS  *int   `json:"delay_ms" validate:"omitempty,min=0,max=600000"`
	Tasks    *int   `json:"tasks" validate:"omitempty,min=1,max=64"`
}

// listRunsResponse wraps the paginated list response.
type listRunsResponse struct {
	Runs   []*model.Run `json:"runs"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// decodeRunRequest parses and validates a run request, writing a 400 on
// failure. It returns nil if the response has already been written.
func (s *Server) decodeRunRequest(w http.ResponseWriter, r *http.Request) *model.Run {
	var req createRunRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil
	}

	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, http.StatusBadRequest, validationMessage(err))
		return nil
	}

	if !s.registry.Has(req.Scenario) {
		s.writeError(w, http.StatusBadRequest, "unknown scenario")
		return nil
	}

	return engine.NewRun(req.Scenario, req.DelayMS, req.Tasks)
}

// handleCreateRun executes a run synchronously and returns its final record.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	run := s.decodeRunRequest(w, r)
	if run == nil {
		return
	}

	// Blocking scenarios ignore the run deadline and may outlast the server
	// write timeout; the record is only written once the run has finished.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		s.logger.Error("clear write deadline for sync run", "error", err)
	}

	done := trackSyncRun(run.Scenario)
	final, err := s.engine.Run(r.Context(), run)
	done()
	if err != nil {
		s.logger.Error("run scenario", "scenario", run.Scenario, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to run scenario")
		return
	}

	s.writeJSON(w, http.StatusCreated, final)
}

// handleAsyncRun stores a pending run, starts it in the background and
// returns immediately.
func (s *Server) handleAsyncRun(w http.ResponseWriter, r *http.Request) {
	run := s.decodeRunRequest(w, r)
	if run == nil {
		return
	}

	if err := s.engine.Submit(r.Context(), run); err != nil {
		s.logger.Error("submit async run", "scenario", run.Scenario, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to submit run")
		return
	}
	trackAsyncRun(run.Scenario)

	s.writeJSON(w, http.StatusAccepted, run)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Error("get run", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}

	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", defaultListLimit)
	offset := parseIntQuery(r, "offset", 0)

	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	runs, total, err := s.store.ListRuns(r.Context(), limit, offset)
	if err != nil {
		s.logger.Error("list runs", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	if runs == nil {
		runs = []*model.Run{}
	}

	s.writeJSON(w, http.StatusOK, listRunsResponse{
		Runs:   runs,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
