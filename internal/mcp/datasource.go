package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListMeasurements(ctx context.Context, userID int, kind string, limit int) ([]models.MeasurementRecord, error)
	ListSessions(ctx context.Context, userID, limit int) ([]models.WorkoutSession, error)
	ListSessionSets(ctx context.Context, sessionID uuid.UUID) ([]models.CompletedSet, error)
	GetActiveSession(ctx context.Context, userID int) (*models.WorkoutSession, error)
	ListRoutines(ctx context.Context, userID int) ([]models.Routine, error)
	ListExercises(ctx context.Context, userID int) ([]models.Exercise, error)
	LastExerciseSets(ctx context.Context, userID int, exerciseID uuid.UUID) ([]models.CompletedSet, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
