package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/storage"
)

// HTTPClient implements DataSource by calling the REST API. Used for remote
// MCP mode where the binary runs locally (stdio) but data lives on the
// remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func limitParams(limit int) url.Values {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	return v
}

func (c *HTTPClient) ListMeasurements(ctx context.Context, _ int, kind string, limit int) ([]models.MeasurementRecord, error) {
	params := limitParams(limit)
	if kind != "" {
		params.Set("kind", kind)
	}

	body, err := c.get(ctx, "/api/v1/measurements", params)
	if err != nil {
		return nil, err
	}

	var records []models.MeasurementRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode measurements: %w", err)
	}
	return records, nil
}

func (c *HTTPClient) ListSessions(ctx context.Context, _ int, limit int) ([]models.WorkoutSession, error) {
	body, err := c.get(ctx, "/api/v1/sessions", limitParams(limit))
	if err != nil {
		return nil, err
	}

	var sessions []models.WorkoutSession
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return sessions, nil
}

func (c *HTTPClient) ListSessionSets(ctx context.Context, sessionID uuid.UUID) ([]models.CompletedSet, error) {
	body, err := c.get(ctx, "/api/v1/sessions/"+sessionID.String(), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Sets []models.CompletedSet `json:"sets"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode session sets: %w", err)
	}
	return resp.Sets, nil
}

func (c *HTTPClient) GetActiveSession(ctx context.Context, _ int) (*models.WorkoutSession, error) {
	body, err := c.get(ctx, "/api/v1/sessions/active", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Active  bool                   `json:"active"`
		Session *models.WorkoutSession `json:"session"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode active session: %w", err)
	}
	if !resp.Active || resp.Session == nil {
		return nil, storage.ErrNotFound
	}
	return resp.Session, nil
}

func (c *HTTPClient) ListRoutines(ctx context.Context, _ int) ([]models.Routine, error) {
	body, err := c.get(ctx, "/api/v1/routines", nil)
	if err != nil {
		return nil, err
	}

	var routines []models.Routine
	if err := json.Unmarshal(body, &routines); err != nil {
		return nil, fmt.Errorf("httpclient: decode routines: %w", err)
	}
	return routines, nil
}

func (c *HTTPClient) ListExercises(ctx context.Context, _ int) ([]models.Exercise, error) {
	body, err := c.get(ctx, "/api/v1/exercises", nil)
	if err != nil {
		return nil, err
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return exercises, nil
}

func (c *HTTPClient) LastExerciseSets(ctx context.Context, _ int, exerciseID uuid.UUID) ([]models.CompletedSet, error) {
	body, err := c.get(ctx, "/api/v1/exercises/"+exerciseID.String()+"/last-sets", nil)
	if err != nil {
		return nil, err
	}

	var sets []models.CompletedSet
	if err := json.Unmarshal(body, &sets); err != nil {
		return nil, fmt.Errorf("httpclient: decode last sets: %w", err)
	}
	return sets, nil
}

func (c *HTTPClient) GetDataStats(ctx context.Context, _ int) (*storage.DataStats, error) {
	body, err := c.get(ctx, "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats storage.DataStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}
