package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a workout session.
// Terminal sessions (completed/abandoned) are never reopened.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// WorkoutSession is one continuous workout occurrence, either tied to a
// routine day or freeform (RoutineDayID nil).
type WorkoutSession struct {
	ID           uuid.UUID     `json:"id"`
	UserID       int           `json:"user_id"`
	RoutineDayID *uuid.UUID    `json:"routine_day_id,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	Status       SessionStatus `json:"status"`
}

// RIR is "Reps In Reserve", a self-reported effort scale.
// -1 means failure, 3 means comfortable.
type RIR int

// Valid reports whether the value is inside the RIR domain {-1,0,1,2,3}.
func (r RIR) Valid() bool {
	return r >= -1 && r <= 3
}

// CompletedSet is one logged set within a session. Exactly which of the
// measured values are populated depends on the exercise's measurement type.
type CompletedSet struct {
	ID          uuid.UUID `json:"id"`
	SessionID   uuid.UUID `json:"session_id"`
	ExerciseID  uuid.UUID `json:"exercise_id"`
	SetNumber   int       `json:"set_number"`
	Weight      *float64  `json:"weight,omitempty"`
	Reps        *int      `json:"reps,omitempty"`
	TimeSeconds *int      `json:"time_seconds,omitempty"`
	DistanceM   *float64  `json:"distance_m,omitempty"`
	RIR         *RIR      `json:"rir,omitempty"`
	Note        *string   `json:"note,omitempty"`
	VideoKey    *string   `json:"video_key,omitempty"`
	PerformedAt time.Time `json:"performed_at"`
}
