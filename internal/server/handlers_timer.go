package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/serlox-hub/gym-routine-page-sub001/internal/storage"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/timer"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/timeutil"
)

// restSecondsKey is the preference holding the user's default rest duration.
const restSecondsKey = "rest_seconds"

// timerResponse is the wire shape of a timer snapshot, with the remaining
// time pre-formatted for display.
type timerResponse struct {
	State            timer.State `json:"state"`
	Active           bool        `json:"active"`
	InitialSeconds   int         `json:"initial_seconds"`
	RemainingSeconds int         `json:"remaining_seconds"`
	Remaining        string      `json:"remaining"`
	Progress         float64     `json:"progress"`
}

func timerView(snap timer.Snapshot) timerResponse {
	return timerResponse{
		State:            snap.State,
		Active:           snap.Active,
		InitialSeconds:   snap.InitialSeconds,
		RemainingSeconds: snap.RemainingSeconds,
		Remaining:        timeutil.FormatSeconds(snap.RemainingSeconds),
		Progress:         snap.Progress,
	}
}

func (s *Server) handleTimerGet(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	writeJSON(w, http.StatusOK, timerView(s.keeper.Get(uid).Snapshot()))
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	var req struct {
		Seconds int `json:"seconds"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}

	seconds := req.Seconds
	if seconds <= 0 {
		seconds = s.preferredRestSeconds(r)
	}
	seconds = timer.ClampRestDuration(seconds)

	t := s.keeper.Get(uid)
	t.Start(seconds)
	writeJSON(w, http.StatusOK, timerView(t.Snapshot()))
}

func (s *Server) handleTimerSkip(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	t := s.keeper.Get(uid)
	t.Skip()
	writeJSON(w, http.StatusOK, timerView(t.Snapshot()))
}

func (s *Server) handleTimerAdjust(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	var req struct {
		DeltaSeconds int `json:"delta_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.DeltaSeconds == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "delta_seconds is required"})
		return
	}

	t := s.keeper.Get(uid)
	t.AddTime(req.DeltaSeconds)
	writeJSON(w, http.StatusOK, timerView(t.Snapshot()))
}

// preferredRestSeconds reads the stored rest duration preference, falling
// back to the default when unset or unparsable.
func (s *Server) preferredRestSeconds(r *http.Request) int {
	uid := userIDFromContext(r)
	value, err := s.db.GetPreference(r.Context(), uid, restSecondsKey)
	if errors.Is(err, storage.ErrNotFound) {
		return timer.DefaultRestSeconds
	}
	if err != nil {
		s.log.Warn("reading rest preference", "error", err)
		return timer.DefaultRestSeconds
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return timer.DefaultRestSeconds
	}
	return seconds
}
