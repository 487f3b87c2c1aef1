package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/serlox-hub/gym-routine-page-sub001/internal/timer"
)

func timerServer() *Server {
	return &Server{
		keeper: timer.NewKeeper(slog.Default()),
		log:    slog.Default(),
	}
}

func decodeTimer(t *testing.T, rec *httptest.ResponseRecorder) timerResponse {
	t.Helper()
	var resp timerResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return resp
}

// TestTimerGetIdle verifies that a user with no running timer gets an idle
// snapshot rather than an error.
func TestTimerGetIdle(t *testing.T) {
	s := timerServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/timer", nil)
	rec := httptest.NewRecorder()

	s.handleTimerGet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeTimer(t, rec)
	if resp.State != timer.Idle {
		t.Errorf("state = %q, want idle", resp.State)
	}
	if resp.Active {
		t.Error("idle timer reported active")
	}
}

// TestTimerStartExplicitSeconds verifies starting a timer with a requested
// duration, clamped to the supported range.
func TestTimerStartExplicitSeconds(t *testing.T) {
	s := timerServer()
	body := strings.NewReader(`{"seconds": 120}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/timer/start", body)
	rec := httptest.NewRecorder()

	s.handleTimerStart(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeTimer(t, rec)
	if resp.State != timer.Running {
		t.Errorf("state = %q, want running", resp.State)
	}
	if resp.InitialSeconds != 120 {
		t.Errorf("initial = %d, want 120", resp.InitialSeconds)
	}
	if resp.Remaining != "2:00" {
		t.Errorf("remaining = %q, want 2:00", resp.Remaining)
	}
}

// TestTimerStartClampsOutOfRange verifies that an out-of-range duration is
// clamped rather than rejected.
func TestTimerStartClampsOutOfRange(t *testing.T) {
	s := timerServer()
	body := strings.NewReader(`{"seconds": 900}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/timer/start", body)
	rec := httptest.NewRecorder()

	s.handleTimerStart(rec, req)

	resp := decodeTimer(t, rec)
	if resp.InitialSeconds != 300 {
		t.Errorf("initial = %d, want 300 (clamped)", resp.InitialSeconds)
	}
}

// TestTimerSkip verifies that skipping a running timer completes it.
func TestTimerSkip(t *testing.T) {
	s := timerServer()
	s.keeper.Get(1).Start(90)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/timer/skip", nil)
	rec := httptest.NewRecorder()
	s.handleTimerSkip(rec, req)

	resp := decodeTimer(t, rec)
	if resp.State != timer.Completed {
		t.Errorf("state after skip = %q, want completed", resp.State)
	}
	if resp.Active {
		t.Error("skipped timer reported active")
	}
}

// TestTimerAdjustExtends verifies that a positive adjustment extends the
// remaining time.
func TestTimerAdjustExtends(t *testing.T) {
	s := timerServer()
	s.keeper.Get(1).Start(90)

	body := strings.NewReader(`{"delta_seconds": 30}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/timer/adjust", body)
	rec := httptest.NewRecorder()
	s.handleTimerAdjust(rec, req)

	resp := decodeTimer(t, rec)
	if resp.RemainingSeconds != 120 {
		t.Errorf("remaining = %d, want 120", resp.RemainingSeconds)
	}
}

// TestTimerAdjustRequiresDelta verifies that a zero delta is rejected.
func TestTimerAdjustRequiresDelta(t *testing.T) {
	s := timerServer()
	body := strings.NewReader(`{}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/timer/adjust", body)
	rec := httptest.NewRecorder()
	s.handleTimerAdjust(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
