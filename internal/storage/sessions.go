package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
)

// ErrSessionInProgress is returned when starting a session while another
// one is still in progress for the same user.
var ErrSessionInProgress = errors.New("a session is already in progress")

// StartSession creates an in_progress session. A partial unique index on
// (user_id) WHERE status = 'in_progress' enforces the at-most-one-active
// invariant; a violation maps to ErrSessionInProgress.
func (db *DB) StartSession(ctx context.Context, userID int, routineDayID *uuid.UUID) (*models.WorkoutSession, error) {
	s := &models.WorkoutSession{
		ID:           uuid.New(),
		UserID:       userID,
		RoutineDayID: routineDayID,
		StartedAt:    time.Now().UTC(),
		Status:       models.SessionInProgress,
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_sessions (id, user_id, routine_day_id, started_at, status)
		 VALUES ($1,$2,$3,$4,$5)`,
		s.ID, s.UserID, s.RoutineDayID, s.StartedAt, s.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrSessionInProgress
		}
		return nil, fmt.Errorf("inserting session: %w", err)
	}
	return s, nil
}

// GetActiveSession retrieves the user's in_progress session, or ErrNotFound.
func (db *DB) GetActiveSession(ctx context.Context, userID int) (*models.WorkoutSession, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, routine_day_id, started_at, completed_at, status
		 FROM workout_sessions
		 WHERE user_id = $1 AND status = 'in_progress'`, userID)
	return scanSession(row)
}

// GetSession retrieves one session owned by the user.
func (db *DB) GetSession(ctx context.Context, userID int, sessionID uuid.UUID) (*models.WorkoutSession, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, routine_day_id, started_at, completed_at, status
		 FROM workout_sessions
		 WHERE id = $1 AND user_id = $2`, sessionID, userID)
	return scanSession(row)
}

func scanSession(row pgx.Row) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	err := row.Scan(&s.ID, &s.UserID, &s.RoutineDayID, &s.StartedAt, &s.CompletedAt, &s.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return &s, nil
}

// ListSessions retrieves session history, newest first.
func (db *DB) ListSessions(ctx context.Context, userID, limit int) ([]models.WorkoutSession, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, routine_day_id, started_at, completed_at, status
		 FROM workout_sessions
		 WHERE user_id = $1
		 ORDER BY started_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSession
	for rows.Next() {
		var s models.WorkoutSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.RoutineDayID, &s.StartedAt, &s.CompletedAt, &s.Status); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// CloseSession moves an in_progress session to a terminal status
// (completed or abandoned). Terminal sessions are never reopened, so the
// update matches only in_progress rows; anything else is ErrNotFound.
func (db *DB) CloseSession(ctx context.Context, userID int, sessionID uuid.UUID, status models.SessionStatus) (*models.WorkoutSession, error) {
	if status != models.SessionCompleted && status != models.SessionAbandoned {
		return nil, fmt.Errorf("status %q is not terminal", status)
	}
	row := db.Pool.QueryRow(ctx,
		`UPDATE workout_sessions
		 SET status = $1, completed_at = NOW()
		 WHERE id = $2 AND user_id = $3 AND status = 'in_progress'
		 RETURNING id, user_id, routine_day_id, started_at, completed_at, status`,
		status, sessionID, userID)
	return scanSession(row)
}

// LogSet inserts a completed set, assigning the next set number for the
// exercise within the session atomically.
func (db *DB) LogSet(ctx context.Context, set *models.CompletedSet) error {
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO completed_sets (id, session_id, exercise_id, set_number,
		 weight, reps, time_seconds, distance_m, rir, note, video_key, performed_at)
		 VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(set_number), 0) + 1
			 FROM completed_sets WHERE session_id = $2 AND exercise_id = $3),
			$4,$5,$6,$7,$8,$9,$10,$11)
		 RETURNING set_number`,
		set.ID, set.SessionID, set.ExerciseID,
		set.Weight, set.Reps, set.TimeSeconds, set.DistanceM,
		set.RIR, set.Note, set.VideoKey, set.PerformedAt).Scan(&set.SetNumber)
	if err != nil {
		return fmt.Errorf("inserting completed set: %w", err)
	}
	return nil
}

// ListSessionSets retrieves a session's sets ordered for display: by
// exercise, then set number.
func (db *DB) ListSessionSets(ctx context.Context, sessionID uuid.UUID) ([]models.CompletedSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, exercise_id, set_number, weight, reps,
		 time_seconds, distance_m, rir, note, video_key, performed_at
		 FROM completed_sets
		 WHERE session_id = $1
		 ORDER BY exercise_id ASC, set_number ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session sets: %w", err)
	}
	defer rows.Close()

	return scanSets(rows)
}

// LastExerciseSets retrieves the sets from the most recent prior session
// containing the exercise, the "previous performance" lookup.
func (db *DB) LastExerciseSets(ctx context.Context, userID int, exerciseID uuid.UUID) ([]models.CompletedSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT cs.id, cs.session_id, cs.exercise_id, cs.set_number, cs.weight, cs.reps,
		 cs.time_seconds, cs.distance_m, cs.rir, cs.note, cs.video_key, cs.performed_at
		 FROM completed_sets cs
		 WHERE cs.exercise_id = $1 AND cs.session_id = (
			SELECT ws.id FROM workout_sessions ws
			JOIN completed_sets inner_cs ON inner_cs.session_id = ws.id
			WHERE ws.user_id = $2 AND inner_cs.exercise_id = $1 AND ws.status != 'in_progress'
			ORDER BY ws.started_at DESC
			LIMIT 1
		 )
		 ORDER BY cs.set_number ASC`, exerciseID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying last exercise sets: %w", err)
	}
	defer rows.Close()

	return scanSets(rows)
}

func scanSets(rows pgx.Rows) ([]models.CompletedSet, error) {
	var result []models.CompletedSet
	for rows.Next() {
		var s models.CompletedSet
		if err := rows.Scan(&s.ID, &s.SessionID, &s.ExerciseID, &s.SetNumber,
			&s.Weight, &s.Reps, &s.TimeSeconds, &s.DistanceM,
			&s.RIR, &s.Note, &s.VideoKey, &s.PerformedAt); err != nil {
			return nil, fmt.Errorf("scanning completed set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
