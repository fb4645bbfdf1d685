package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	matches, err := s.store.ListMatches(r.Context(), limit)
	if err != nil {
		log.Printf("[server] list matches failed: %v", err)
		errorResponse(w, http.StatusInternalServerError, "failed to list matches")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"matches": matches})
}

func (s *Server) handlePin(w http.ResponseWriter, r *http.Request) {
	s.setPin(w, r, true)
}

func (s *Server) handleUnpin(w http.ResponseWriter, r *http.Request) {
	s.setPin(w, r, false)
}

func (s *Server) setPin(w http.ResponseWriter, r *http.Request, pinned bool) {
	key := r.PathValue("key")
	if key == "" {
		errorResponse(w, http.StatusBadRequest, "match key is required")
		return
	}

	found, err := s.store.SetPinned(r.Context(), key, pinned)
	if err != nil {
		log.Printf("[server] set pin failed for %s: %v", key, err)
		errorResponse(w, http.StatusInternalServerError, "failed to update pin")
		return
	}
	if !found {
		errorResponse(w, http.StatusNotFound, "match not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"key": key, "pinned": pinned})
}

func (s *Server) handleQuota(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{"providers": s.quota.Status()})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	jobsFound, matchesSaved, err := s.runner.Run(r.Context())
	if err != nil {
		log.Printf("[server] search run failed: %v", err)
		errorResponse(w, http.StatusInternalServerError, "search run failed")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"jobs_found":    jobsFound,
		"matches_saved": matchesSaved,
	})
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] failed to encode response: %v", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}
