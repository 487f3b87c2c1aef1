package models

import (
	"time"

	"github.com/google/uuid"
)

// MeasurementType describes how an exercise is quantified.
type MeasurementType string

const (
	MeasureWeightReps MeasurementType = "weight_reps"
	MeasureTime       MeasurementType = "time"
	MeasureDistance   MeasurementType = "distance"
)

// Valid reports whether the measurement type is one of the known values.
func (m MeasurementType) Valid() bool {
	switch m {
	case MeasureWeightReps, MeasureTime, MeasureDistance:
		return true
	}
	return false
}

// MuscleGroup is a named grouping of exercises in the catalog.
type MuscleGroup struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Exercise is a catalog entry referenced by routines and completed sets.
type Exercise struct {
	ID              uuid.UUID       `json:"id"`
	UserID          int             `json:"user_id"`
	Name            string          `json:"name"`
	MeasurementType MeasurementType `json:"measurement_type"`
	WeightUnit      string          `json:"weight_unit"`
	Instructions    *string         `json:"instructions,omitempty"`
	MuscleGroupID   int             `json:"muscle_group_id"`
	MuscleGroup     string          `json:"muscle_group"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Routine is the top of the routine graph: routine → days → blocks → exercises.
type Routine struct {
	ID          uuid.UUID `json:"id"`
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Goal        *string   `json:"goal,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RoutineDay is one training day within a routine, ordered by SortOrder.
type RoutineDay struct {
	ID        uuid.UUID `json:"id"`
	RoutineID uuid.UUID `json:"routine_id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
}

// RoutineBlock is a named sub-grouping of exercises within a day
// (e.g. warm-up vs main work).
type RoutineBlock struct {
	ID        uuid.UUID `json:"id"`
	DayID     uuid.UUID `json:"day_id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
}

// RoutineExercise is an exercise prescription inside a block.
type RoutineExercise struct {
	ID           uuid.UUID `json:"id"`
	BlockID      uuid.UUID `json:"block_id"`
	ExerciseID   uuid.UUID `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	SortOrder    int       `json:"sort_order"`
	TargetSeries int       `json:"target_series"`
	TargetReps   string    `json:"target_reps"`
	TargetRIR    *int      `json:"target_rir,omitempty"`
	RestSeconds  int       `json:"rest_seconds"`
	Tempo        *string   `json:"tempo,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}

// SortOrderUpdate is one entry of a reorder request: the row to move and
// its new position.
type SortOrderUpdate struct {
	ID        uuid.UUID `json:"id"`
	SortOrder int       `json:"sort_order"`
}
