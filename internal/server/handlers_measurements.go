package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/stats"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/storage"
)

func (s *Server) handleInsertMeasurement(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	var req struct {
		Kind       string     `json:"kind"`
		Value      float64    `json:"value"`
		Unit       string     `json:"unit"`
		Note       *string    `json:"note"`
		RecordedAt *time.Time `json:"recorded_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Kind == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kind is required"})
		return
	}
	if req.Value <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value must be positive"})
		return
	}
	if req.Unit == "" {
		req.Unit = "kg"
	}
	recordedAt := time.Now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	m := &models.MeasurementRecord{
		ID:         uuid.New(),
		UserID:     uid,
		Kind:       req.Kind,
		Value:      req.Value,
		Unit:       req.Unit,
		Note:       req.Note,
		RecordedAt: recordedAt,
	}
	if err := s.db.InsertMeasurement(r.Context(), m); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	records, ok := s.queryMeasurements(w, r, 0)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleMeasurementStats(w http.ResponseWriter, r *http.Request) {
	records, ok := s.queryMeasurements(w, r, 0)
	if !ok {
		return
	}
	summary := stats.Calculate(storage.ToStatsRecords(records))
	if summary == nil {
		writeJSON(w, http.StatusOK, map[string]any{"summary": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

func (s *Server) handleMeasurementTrend(w http.ResponseWriter, r *http.Request) {
	records, ok := s.queryMeasurements(w, r, 0)
	if !ok {
		return
	}

	window := stats.DefaultTrendWindow
	if v := r.URL.Query().Get("window"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			window = parsed
		}
	}

	direction := stats.Trend(storage.ToStatsRecords(records), window)
	writeJSON(w, http.StatusOK, map[string]any{"direction": direction})
}

func (s *Server) handleMeasurementChart(w http.ResponseWriter, r *http.Request) {
	limit := stats.DefaultChartLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, ok := s.queryMeasurements(w, r, limit)
	if !ok {
		return
	}

	points := stats.ChartSeries(storage.ToStatsRecords(records), limit)
	writeJSON(w, http.StatusOK, points)
}

// queryMeasurements loads the requested measurement kind for the current
// user, newest first. An empty kind defaults to body weight.
func (s *Server) queryMeasurements(w http.ResponseWriter, r *http.Request, limit int) ([]models.MeasurementRecord, bool) {
	uid := userIDFromContext(r)
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "weight"
	}

	records, err := s.db.ListMeasurements(r.Context(), uid, kind, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return records, true
}
