package routineio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
)

// RoutineReader is the slice of the store the exporter reads from. Lists
// come back ordered by sort_order ascending.
type RoutineReader interface {
	GetRoutine(ctx context.Context, userID int, routineID uuid.UUID) (*models.Routine, error)
	ListRoutineDays(ctx context.Context, routineID uuid.UUID) ([]models.RoutineDay, error)
	ListRoutineBlocks(ctx context.Context, dayID uuid.UUID) ([]models.RoutineBlock, error)
	ListRoutineExercises(ctx context.Context, blockID uuid.UUID) ([]models.RoutineExercise, error)
	GetExercise(ctx context.Context, exerciseID uuid.UUID) (*models.Exercise, error)
}

// Exporter builds a round-trippable document from a stored routine graph.
type Exporter struct {
	store RoutineReader
}

// NewExporter creates an Exporter.
func NewExporter(store RoutineReader) *Exporter {
	return &Exporter{store: store}
}

// Export assembles the document for one routine: the nested day/block/entry
// structure plus a flat exercise list containing every exercise the routine
// references, so the document imports cleanly into an empty catalog.
func (e *Exporter) Export(ctx context.Context, userID int, routineID uuid.UUID) (*Document, error) {
	routine, err := e.store.GetRoutine(ctx, userID, routineID)
	if err != nil {
		return nil, fmt.Errorf("loading routine: %w", err)
	}

	doc := &Document{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Routine: &RoutineDoc{
			Name:        routine.Name,
			Description: routine.Description,
			Goal:        routine.Goal,
		},
	}

	seen := make(map[uuid.UUID]bool)

	days, err := e.store.ListRoutineDays(ctx, routineID)
	if err != nil {
		return nil, fmt.Errorf("loading days: %w", err)
	}
	for _, day := range days {
		dayDoc := DayDoc{Name: day.Name}

		blocks, err := e.store.ListRoutineBlocks(ctx, day.ID)
		if err != nil {
			return nil, fmt.Errorf("loading blocks for day %q: %w", day.Name, err)
		}
		for _, block := range blocks {
			blockDoc := BlockDoc{Name: block.Name}

			entries, err := e.store.ListRoutineExercises(ctx, block.ID)
			if err != nil {
				return nil, fmt.Errorf("loading entries for block %q: %w", block.Name, err)
			}
			for _, entry := range entries {
				ex, err := e.store.GetExercise(ctx, entry.ExerciseID)
				if err != nil {
					return nil, fmt.Errorf("loading exercise %s: %w", entry.ExerciseID, err)
				}
				if !seen[ex.ID] {
					seen[ex.ID] = true
					doc.Exercises = append(doc.Exercises, ExerciseDef{
						Name:            ex.Name,
						MeasurementType: string(ex.MeasurementType),
						WeightUnit:      ex.WeightUnit,
						Instructions:    ex.Instructions,
						MuscleGroupName: ex.MuscleGroup,
					})
				}
				blockDoc.Exercises = append(blockDoc.Exercises, ExerciseRef{
					ExerciseName: ex.Name,
					TargetSeries: entry.TargetSeries,
					TargetReps:   entry.TargetReps,
					TargetRIR:    entry.TargetRIR,
					RestSeconds:  entry.RestSeconds,
					Tempo:        entry.Tempo,
					Notes:        entry.Notes,
				})
			}
			dayDoc.Blocks = append(dayDoc.Blocks, blockDoc)
		}
		doc.Routine.Days = append(doc.Routine.Days, dayDoc)
	}

	return doc, nil
}
