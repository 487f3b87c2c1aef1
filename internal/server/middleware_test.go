package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestDevIdentity verifies that without Tailscale every request is
// attributed to the seeded local user, id and info both.
func TestDevIdentity(t *testing.T) {
	var gotUserID int
	var gotInfo UserInfo
	handler := DevIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = userIDFromContext(r)
		gotInfo = userInfoFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timer", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotUserID != 1 {
		t.Errorf("userID = %d, want 1", gotUserID)
	}
	if gotInfo.Login != "local" || gotInfo.DisplayName != "Local Dev User" {
		t.Errorf("info = %+v, want the seeded local user", gotInfo)
	}
}

// TestUserIDFromContext verifies the id helper for both a request that went
// through identity middleware and one that did not.
func TestUserIDFromContext(t *testing.T) {
	bare := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := userIDFromContext(bare); id != 1 {
		t.Errorf("userID without middleware = %d, want 1", id)
	}

	tagged := bare.WithContext(context.WithValue(bare.Context(), userIDKey, 7))
	if id := userIDFromContext(tagged); id != 7 {
		t.Errorf("userID = %d, want 7", id)
	}
}

// TestUserInfoFromContext verifies the info helper against a tailnet
// identity stored by middleware and against the dev fallback.
func TestUserInfoFromContext(t *testing.T) {
	bare := httptest.NewRequest(http.MethodGet, "/", nil)
	if info := userInfoFromContext(bare); info.Login != "local" {
		t.Errorf("login without middleware = %q, want %q", info.Login, "local")
	}

	want := UserInfo{Login: "lifter@tailnet.example", DisplayName: "Serious Lifter"}
	tagged := bare.WithContext(context.WithValue(bare.Context(), userInfoKey, want))
	if info := userInfoFromContext(tagged); info != want {
		t.Errorf("info = %+v, want %+v", info, want)
	}
}

// TestRequestLogging verifies the logging middleware passes the request
// through and preserves the handler's status code.
func TestRequestLogging(t *testing.T) {
	handler := RequestLogging(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/measurements", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

// TestCORSHeaders verifies the permissive CORS headers on a normal request.
func TestCORSHeaders(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/routines", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS origin = %q, want *", got)
	}
}

// TestCORSPreflight verifies OPTIONS requests short-circuit with 204.
func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler ran on a preflight request")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/routines", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS origin on preflight = %q, want *", got)
	}
}
