package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/storage"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/timer"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	stats, err := s.db.GetDataStats(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	key := chi.URLParam(r, "key")

	value, err := s.db.GetPreference(r.Context(), uid, key)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "preference not set"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	key := chi.URLParam(r, "key")

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Value == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value is required"})
		return
	}

	// Rest durations are clamped to the supported range before storing, so
	// reads never need to re-validate.
	if key == restSecondsKey {
		seconds, err := strconv.Atoi(req.Value)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rest_seconds must be an integer"})
			return
		}
		req.Value = strconv.Itoa(timer.ClampRestDuration(seconds))
	}

	if err := s.db.SetPreference(r.Context(), uid, key, req.Value); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}
