package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/storage"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/timer"
)

// TestActiveSessionViewShapes verifies both shapes of the resume banner:
// the bare no-session payload and the full session+elapsed+timer assembly.
func TestActiveSessionViewShapes(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 45, 0, 0, time.UTC)
	session := &models.WorkoutSession{
		ID:        uuid.New(),
		UserID:    1,
		StartedAt: now.Add(-25 * time.Minute),
		Status:    models.SessionInProgress,
	}
	snap := timer.Snapshot{
		State:            timer.Running,
		Active:           true,
		InitialSeconds:   90,
		RemainingSeconds: 60,
	}

	none := activeSessionView(nil, timer.Snapshot{}, now)
	if none["active"] != false {
		t.Errorf("active = %v, want false", none["active"])
	}
	if _, ok := none["session"]; ok {
		t.Error("no-session banner must not carry a session")
	}

	view := activeSessionView(session, snap, now)
	if view["active"] != true {
		t.Errorf("active = %v, want true", view["active"])
	}
	if view["session"] != session {
		t.Error("banner session is not the active session")
	}
	if view["elapsed"] != "25:00" {
		t.Errorf("elapsed = %v, want 25:00", view["elapsed"])
	}
	tv, ok := view["timer"].(timerResponse)
	if !ok {
		t.Fatalf("timer field has type %T, want timerResponse", view["timer"])
	}
	if tv.State != timer.Running || tv.Remaining != "1:00" {
		t.Errorf("timer view = %+v, want running with 1:00 remaining", tv)
	}
}

// TestActiveSessionEndpointNone verifies that GET /api/v1/sessions/active
// returns the no-session shape when the user has nothing in progress.
func TestActiveSessionEndpointNone(t *testing.T) {
	fs := &fakeStore{
		getActiveSession: func(context.Context, int) (*models.WorkoutSession, error) {
			return nil, storage.ErrNotFound
		},
	}
	s := newFakeServer(fs)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/active", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp["active"] != false {
		t.Errorf("active = %v, want false", resp["active"])
	}
}

// TestActiveSessionEndpointPresent verifies the banner endpoint assembles
// the user's in-progress session with its timer snapshot.
func TestActiveSessionEndpointPresent(t *testing.T) {
	session := &models.WorkoutSession{
		ID:        uuid.New(),
		UserID:    1,
		StartedAt: time.Now().Add(-3 * time.Minute),
		Status:    models.SessionInProgress,
	}
	fs := &fakeStore{
		getActiveSession: func(_ context.Context, userID int) (*models.WorkoutSession, error) {
			if userID != 1 {
				t.Errorf("lookup for user %d, want 1", userID)
			}
			return session, nil
		},
	}
	s := newFakeServer(fs)
	s.keeper.Get(1).Start(120)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/active", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Active  bool                   `json:"active"`
		Session *models.WorkoutSession `json:"session"`
		Elapsed string                 `json:"elapsed"`
		Timer   timerResponse          `json:"timer"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !resp.Active {
		t.Error("active = false, want true")
	}
	if resp.Session == nil || resp.Session.ID != session.ID {
		t.Errorf("session = %+v, want ID %s", resp.Session, session.ID)
	}
	if resp.Elapsed != "3:00" {
		t.Errorf("elapsed = %q, want 3:00", resp.Elapsed)
	}
	if resp.Timer.State != timer.Running {
		t.Errorf("timer state = %q, want running", resp.Timer.State)
	}
	if resp.Timer.InitialSeconds != 120 {
		t.Errorf("timer initial = %d, want 120", resp.Timer.InitialSeconds)
	}
}
