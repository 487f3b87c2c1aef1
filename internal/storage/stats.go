package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about all stored data.
type DataStats struct {
	TotalRoutines     int64          `json:"total_routines"`
	TotalSessions     int64          `json:"total_sessions"`
	TotalSets         int64          `json:"total_sets"`
	TotalMeasurements int64          `json:"total_measurements"`
	EarliestSession   *time.Time     `json:"earliest_session"`
	LatestSession     *time.Time     `json:"latest_session"`
	SetsByExercise    []ExerciseStat `json:"sets_by_exercise"`
}

// ExerciseStat holds summary numbers for a single exercise.
type ExerciseStat struct {
	Name      string   `json:"name"`
	Sets      int64    `json:"sets"`
	TotalReps int64    `json:"total_reps"`
	MaxWeight *float64 `json:"max_weight,omitempty"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM routines WHERE user_id = $1`, userID,
	).Scan(&stats.TotalRoutines)
	if err != nil {
		return nil, fmt.Errorf("counting routines: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(started_at), MAX(started_at)
		 FROM workout_sessions WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSessions, &stats.EarliestSession, &stats.LatestSession)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM completed_sets cs
		 JOIN workout_sessions ws ON ws.id = cs.session_id
		 WHERE ws.user_id = $1`, userID,
	).Scan(&stats.TotalSets)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM measurements WHERE user_id = $1`, userID,
	).Scan(&stats.TotalMeasurements)
	if err != nil {
		return nil, fmt.Errorf("counting measurements: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT e.name, COUNT(*), COALESCE(SUM(cs.reps), 0), MAX(cs.weight)
		 FROM completed_sets cs
		 JOIN workout_sessions ws ON ws.id = cs.session_id
		 JOIN exercises e ON e.id = cs.exercise_id
		 WHERE ws.user_id = $1
		 GROUP BY e.name
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sets by exercise: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s ExerciseStat
		if err := rows.Scan(&s.Name, &s.Sets, &s.TotalReps, &s.MaxWeight); err != nil {
			return nil, fmt.Errorf("scanning exercise stat: %w", err)
		}
		stats.SetsByExercise = append(stats.SetsByExercise, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
