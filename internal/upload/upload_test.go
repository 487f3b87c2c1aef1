package upload

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// TestContentTypeFor verifies the extension-to-MIME mapping and rejection of
// non-video files.
func TestContentTypeFor(t *testing.T) {
	cases := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"squat.mp4", "video/mp4", false},
		{"bench.MOV", "video/quicktime", false},
		{"deadlift.webm", "video/webm", false},
		{"old.avi", "video/x-msvideo", false},
		{"notes.txt", "", true},
		{"clip.mkv", "", true},
		{"noextension", "", true},
	}
	for _, tc := range cases {
		got, err := ContentTypeFor(tc.path)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ContentTypeFor(%q): expected error", tc.path)
			}
			continue
		}
		if err != nil {
			t.Errorf("ContentTypeFor(%q): %v", tc.path, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ContentTypeFor(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

// TestValidateSize verifies the size cap and empty-file rejection.
func TestValidateSize(t *testing.T) {
	if err := ValidateSize(0); err == nil {
		t.Error("expected error for empty file")
	}
	if err := ValidateSize(1024); err != nil {
		t.Errorf("unexpected error for small file: %v", err)
	}
	if err := ValidateSize(MaxUploadBytes); err != nil {
		t.Errorf("unexpected error at the cap: %v", err)
	}
	if err := ValidateSize(MaxUploadBytes + 1); err == nil {
		t.Error("expected error over the cap")
	}
}

// TestStateDBDedup verifies that a recorded upload is reported as uploaded
// and that a changed hash invalidates the record.
func TestStateDBDedup(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	uploaded, err := state.IsUploaded("a/squat.mp4", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if uploaded {
		t.Error("unknown file reported as uploaded")
	}

	if err := state.MarkUploaded("a/squat.mp4", 100, "abc", "videos/xyz.mp4"); err != nil {
		t.Fatal(err)
	}

	uploaded, err = state.IsUploaded("a/squat.mp4", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if !uploaded {
		t.Error("recorded file not reported as uploaded")
	}

	// Same path, different content
	uploaded, err = state.IsUploaded("a/squat.mp4", 100, "other")
	if err != nil {
		t.Fatal(err)
	}
	if uploaded {
		t.Error("changed file reported as uploaded")
	}

	key, err := state.KeyFor("a/squat.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if key != "videos/xyz.mp4" {
		t.Errorf("key = %q, want videos/xyz.mp4", key)
	}
}

// brokerStub fakes the broker plus the storage endpoint it grants URLs for.
func brokerStub(t *testing.T, putBodies *[][]byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var ts *httptest.Server

	mux.HandleFunc("/request-upload", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Filename    string `json:"filename"`
			ContentType string `json:"contentType"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("broker decode: %v", err)
		}
		if req.ContentType == "" {
			t.Error("broker received empty contentType")
		}
		json.NewEncoder(w).Encode(map[string]string{
			"uploadUrl": ts.URL + "/put/" + req.Filename,
			"key":       "videos/" + req.Filename,
		})
	})
	mux.HandleFunc("/request-view-url", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Key string `json:"key"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]string{"url": ts.URL + "/view/" + req.Key})
	})
	mux.HandleFunc("/put/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("storage endpoint got %s, want PUT", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		*putBodies = append(*putBodies, body)
		w.WriteHeader(http.StatusOK)
	})

	ts = httptest.NewServer(mux)
	return ts
}

// TestUploaderRun verifies the full pipeline: scan, validate, dedup, upload,
// record. The second run must skip everything.
func TestUploaderRun(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "squat.mp4"), []byte("video-bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a video"), 0644); err != nil {
		t.Fatal(err)
	}

	var putBodies [][]byte
	ts := brokerStub(t, &putBodies)
	defer ts.Close()

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	u := New(NewClient(ts.URL), state, dir, false, slog.Default())
	stats, err := u.Run()
	if err != nil {
		t.Fatal(err)
	}

	if stats.FilesUploaded != 1 {
		t.Errorf("uploaded = %d, want 1", stats.FilesUploaded)
	}
	if len(stats.Rejected) != 1 {
		t.Errorf("rejected = %v, want one entry (notes.txt)", stats.Rejected)
	}
	if len(putBodies) != 1 || string(putBodies[0]) != "video-bytes" {
		t.Errorf("storage received %q, want video-bytes", putBodies)
	}

	key, err := state.KeyFor("squat.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if key != "videos/squat.mp4" {
		t.Errorf("key = %q, want videos/squat.mp4", key)
	}

	// Second run: nothing new to do.
	u2 := New(NewClient(ts.URL), state, dir, false, slog.Default())
	stats2, err := u2.Run()
	if err != nil {
		t.Fatal(err)
	}
	if stats2.FilesSkipped != 1 {
		t.Errorf("skipped on rerun = %d, want 1", stats2.FilesSkipped)
	}
	if stats2.FilesUploaded != 0 {
		t.Errorf("uploaded on rerun = %d, want 0", stats2.FilesUploaded)
	}
}

// TestRequestViewURL verifies the view URL round trip.
func TestRequestViewURL(t *testing.T) {
	var putBodies [][]byte
	ts := brokerStub(t, &putBodies)
	defer ts.Close()

	client := NewClient(ts.URL)
	url, err := client.RequestViewURL("videos/squat.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if url != ts.URL+"/view/videos/squat.mp4" {
		t.Errorf("view url = %q", url)
	}
}

// TestRequestUploadBrokerError verifies that broker failures surface as errors.
func TestRequestUploadBrokerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"bucket unavailable"}`, http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	if _, err := client.RequestUpload("squat.mp4", "video/mp4"); err == nil {
		t.Fatal("expected error from failing broker")
	}
}
