package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/routineio"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/storage"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/timer"
	"tailscale.com/client/local"
)

// Store is the slice of the storage layer the HTTP handlers use. Satisfied
// by *storage.DB; handler tests substitute a fake.
type Store interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)

	ListRoutines(ctx context.Context, userID int) ([]models.Routine, error)
	GetRoutine(ctx context.Context, userID int, routineID uuid.UUID) (*models.Routine, error)
	ListRoutineDays(ctx context.Context, routineID uuid.UUID) ([]models.RoutineDay, error)
	ListRoutineBlocks(ctx context.Context, dayID uuid.UUID) ([]models.RoutineBlock, error)
	ListRoutineExercises(ctx context.Context, blockID uuid.UUID) ([]models.RoutineExercise, error)
	GetRoutineDay(ctx context.Context, userID int, dayID uuid.UUID) (*models.RoutineDay, error)
	GetRoutineBlock(ctx context.Context, userID int, blockID uuid.UUID) (*models.RoutineBlock, error)
	ReorderRoutineDays(ctx context.Context, routineID uuid.UUID, updates []models.SortOrderUpdate) error
	ReorderBlockExercises(ctx context.Context, blockID uuid.UUID, updates []models.SortOrderUpdate) error

	ListExercises(ctx context.Context, userID int) ([]models.Exercise, error)
	LastExerciseSets(ctx context.Context, userID int, exerciseID uuid.UUID) ([]models.CompletedSet, error)

	StartSession(ctx context.Context, userID int, routineDayID *uuid.UUID) (*models.WorkoutSession, error)
	ListSessions(ctx context.Context, userID, limit int) ([]models.WorkoutSession, error)
	GetSession(ctx context.Context, userID int, sessionID uuid.UUID) (*models.WorkoutSession, error)
	GetActiveSession(ctx context.Context, userID int) (*models.WorkoutSession, error)
	CloseSession(ctx context.Context, userID int, sessionID uuid.UUID, status models.SessionStatus) (*models.WorkoutSession, error)
	LogSet(ctx context.Context, set *models.CompletedSet) error
	ListSessionSets(ctx context.Context, sessionID uuid.UUID) ([]models.CompletedSet, error)

	InsertMeasurement(ctx context.Context, m *models.MeasurementRecord) error
	ListMeasurements(ctx context.Context, userID int, kind string, limit int) ([]models.MeasurementRecord, error)

	GetPreference(ctx context.Context, userID int, key string) (string, error)
	SetPreference(ctx context.Context, userID int, key, value string) error
}

var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       Store
	keeper   *timer.Keeper
	importer *routineio.Importer
	exporter *routineio.Exporter
	log      *slog.Logger
	lc       *local.Client
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, keeper *timer.Keeper, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		keeper:   keeper,
		importer: routineio.NewImporter(db, log),
		exporter: routineio.NewExporter(db),
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale switches identity resolution from the dev fallback to
// Tailscale WhoIs lookups. Must be called before serving requests.
func (s *Server) SetTailscale(lc *local.Client) {
	s.lc = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/stats", s.handleStats)

		r.Post("/routines/import", s.handleImportRoutine)
		r.Get("/routines", s.handleListRoutines)
		r.Get("/routines/{id}", s.handleGetRoutine)
		r.Get("/routines/{id}/export", s.handleExportRoutine)
		r.Post("/routines/{id}/days/reorder", s.handleReorderDays)
		r.Post("/blocks/{id}/exercises/reorder", s.handleReorderBlockExercises)

		r.Get("/exercises", s.handleListExercises)
		r.Get("/exercises/{id}/last-sets", s.handleLastSets)

		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/active", s.handleActiveSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Post("/sessions/{id}/finish", s.handleFinishSession)
		r.Post("/sessions/{id}/abandon", s.handleAbandonSession)
		r.Post("/sessions/{id}/sets", s.handleLogSet)

		r.Get("/timer", s.handleTimerGet)
		r.Post("/timer/start", s.handleTimerStart)
		r.Post("/timer/skip", s.handleTimerSkip)
		r.Post("/timer/adjust", s.handleTimerAdjust)

		r.Post("/measurements", s.handleInsertMeasurement)
		r.Get("/measurements", s.handleListMeasurements)
		r.Get("/measurements/stats", s.handleMeasurementStats)
		r.Get("/measurements/trend", s.handleMeasurementTrend)
		r.Get("/measurements/chart", s.handleMeasurementChart)

		r.Get("/preferences/{key}", s.handleGetPreference)
		r.Put("/preferences/{key}", s.handleSetPreference)
	})
}
