package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/storage"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestListMeasurements verifies the HTTP client sends the right query params
// and correctly parses the JSON array response.
func TestListMeasurements(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/measurements": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("kind"); got != "weight" {
				t.Errorf("kind=%q, want weight", got)
			}
			if got := r.URL.Query().Get("limit"); got != "10" {
				t.Errorf("limit=%q, want 10", got)
			}

			writeTestJSON(t, w, []models.MeasurementRecord{
				{ID: uuid.New(), Kind: "weight", Value: 82.5, Unit: "kg", RecordedAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	records, err := client.ListMeasurements(context.Background(), 1, "weight", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Value != 82.5 {
		t.Errorf("value=%f, want 82.5", records[0].Value)
	}
}

// TestListSessionSets verifies the sets are extracted from the session
// detail envelope.
func TestListSessionSets(t *testing.T) {
	sessionID := uuid.New()
	reps := 8
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions/" + sessionID.String(): func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, map[string]any{
				"session": models.WorkoutSession{ID: sessionID, Status: models.SessionCompleted},
				"sets": []models.CompletedSet{
					{ID: uuid.New(), SessionID: sessionID, SetNumber: 1, Reps: &reps},
				},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	sets, err := client.ListSessionSets(context.Background(), sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(sets))
	}
	if *sets[0].Reps != 8 {
		t.Errorf("reps=%d, want 8", *sets[0].Reps)
	}
}

// TestGetActiveSessionNone verifies that the empty banner response maps to
// ErrNotFound, matching the local storage contract.
func TestGetActiveSessionNone(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions/active": func(w http.ResponseWriter, _ *http.Request) {
			writeTestJSON(t, w, map[string]any{"active": false})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	_, err := client.GetActiveSession(context.Background(), 1)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// TestGetActiveSessionPresent verifies the session is unwrapped from the
// banner envelope.
func TestGetActiveSessionPresent(t *testing.T) {
	sessionID := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions/active": func(w http.ResponseWriter, _ *http.Request) {
			writeTestJSON(t, w, map[string]any{
				"active":  true,
				"session": models.WorkoutSession{ID: sessionID, Status: models.SessionInProgress},
				"elapsed": "12:34",
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	session, err := client.GetActiveSession(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if session.ID != sessionID {
		t.Errorf("session ID = %s, want %s", session.ID, sessionID)
	}
}

// TestGetDataStats verifies the stats endpoint parses into a single struct.
func TestGetDataStats(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats": func(w http.ResponseWriter, _ *http.Request) {
			writeTestJSON(t, w, storage.DataStats{
				TotalRoutines: 2,
				TotalSessions: 40,
				TotalSets:     600,
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	stats, err := client.GetDataStats(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSets != 600 {
		t.Errorf("total_sets=%d, want 600", stats.TotalSets)
	}
}

// TestHTTPClientServerError verifies the client returns an error on non-200 responses.
func TestHTTPClientServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/routines": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"database down"}`))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	_, err := client.ListRoutines(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}
