package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/storage"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/timer"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/timeutil"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	var req struct {
		RoutineDayID *uuid.UUID `json:"routine_day_id"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}

	if req.RoutineDayID != nil {
		if _, err := s.db.GetRoutineDay(r.Context(), uid, *req.RoutineDayID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "routine day not found"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	session, err := s.db.StartSession(r.Context(), uid, req.RoutineDayID)
	if errors.Is(err, storage.ErrSessionInProgress) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a session is already in progress"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	sessions, err := s.db.ListSessions(r.Context(), uid, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	sessionID, ok := parseID(w, r)
	if !ok {
		return
	}

	session, err := s.db.GetSession(r.Context(), uid, sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	sets, err := s.db.ListSessionSets(r.Context(), sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session": session,
		"sets":    sets,
	})
}

// activeSessionView assembles the resume banner: the in-progress session,
// elapsed workout time, and the current rest-timer snapshot. A nil session
// yields the no-session shape.
func activeSessionView(session *models.WorkoutSession, snap timer.Snapshot, now time.Time) map[string]any {
	if session == nil {
		return map[string]any{"active": false}
	}
	return map[string]any{
		"active":  true,
		"session": session,
		"elapsed": timeutil.FormatElapsed(session.StartedAt, now),
		"timer":   timerView(snap),
	}
}

func (s *Server) handleActiveSession(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	session, err := s.db.GetActiveSession(r.Context(), uid)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusOK, activeSessionView(nil, timer.Snapshot{}, time.Now()))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	snap := s.keeper.Get(uid).Snapshot()
	writeJSON(w, http.StatusOK, activeSessionView(session, snap, time.Now()))
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	s.closeSession(w, r, models.SessionCompleted)
}

func (s *Server) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	s.closeSession(w, r, models.SessionAbandoned)
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request, status models.SessionStatus) {
	uid := userIDFromContext(r)
	sessionID, ok := parseID(w, r)
	if !ok {
		return
	}

	session, err := s.db.CloseSession(r.Context(), uid, sessionID, status)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no in-progress session with that ID"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// The rest timer has no meaning once the session ends.
	s.keeper.Get(uid).Skip()

	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	sessionID, ok := parseID(w, r)
	if !ok {
		return
	}

	session, err := s.db.GetSession(r.Context(), uid, sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if session.Status != models.SessionInProgress {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "session is not in progress"})
		return
	}

	var req struct {
		ExerciseID  uuid.UUID   `json:"exercise_id"`
		Weight      *float64    `json:"weight"`
		Reps        *int        `json:"reps"`
		TimeSeconds *int        `json:"time_seconds"`
		DistanceM   *float64    `json:"distance_m"`
		RIR         *models.RIR `json:"rir"`
		Note        *string     `json:"note"`
		VideoKey    *string     `json:"video_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ExerciseID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id is required"})
		return
	}
	if req.RIR != nil && !req.RIR.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rir must be between -1 and 3"})
		return
	}

	set := &models.CompletedSet{
		ID:          uuid.New(),
		SessionID:   sessionID,
		ExerciseID:  req.ExerciseID,
		Weight:      req.Weight,
		Reps:        req.Reps,
		TimeSeconds: req.TimeSeconds,
		DistanceM:   req.DistanceM,
		RIR:         req.RIR,
		Note:        req.Note,
		VideoKey:    req.VideoKey,
		PerformedAt: time.Now(),
	}
	if err := s.db.LogSet(r.Context(), set); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, set)
}
