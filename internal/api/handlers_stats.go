package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"stages":      s.orchestrator.Latency().Snapshot(),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	history := s.orchestrator.History()
	if history == nil {
		jsonError(w, "run history is disabled", http.StatusServiceUnavailable)
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, 500)
	}
	runs, err := history.ListRuns(r.Context(), limit)
	if err != nil {
		s.log.Error("list runs failed", "error", err)
		jsonError(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	history := s.orchestrator.History()
	if history == nil {
		jsonError(w, "run history is disabled", http.StatusServiceUnavailable)
		return
	}
	run, docs, err := history.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.log.Error("get run failed", "error", err)
		jsonError(w, "failed to read run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"run": run, "documents": docs})
}
