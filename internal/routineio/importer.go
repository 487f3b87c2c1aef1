package routineio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
)

// RoutineTx is the slice of the store an import runs against. The store
// guarantees that everything done through one RoutineTx commits or rolls
// back as a unit.
type RoutineTx interface {
	FindExerciseByName(ctx context.Context, userID int, name string) (*models.Exercise, error)
	FindMuscleGroupByName(ctx context.Context, name string) (int, error)
	CreateExercise(ctx context.Context, ex *models.Exercise) error
	CreateRoutine(ctx context.Context, r *models.Routine) error
	CreateRoutineDay(ctx context.Context, d *models.RoutineDay) error
	CreateRoutineBlock(ctx context.Context, b *models.RoutineBlock) error
	CreateRoutineExercise(ctx context.Context, re *models.RoutineExercise) error
}

// TxStore opens routine-import transactions.
type TxStore interface {
	RoutineImportTx(ctx context.Context, fn func(tx RoutineTx) error) error
}

// Result summarizes what an import created.
type Result struct {
	RoutineID        uuid.UUID `json:"routine_id"`
	RoutineName      string    `json:"routine_name"`
	Days             int       `json:"days"`
	Blocks           int       `json:"blocks"`
	Exercises        int       `json:"exercises"`
	ExercisesCreated int       `json:"exercises_created"`
}

// Importer turns a validated document into a persisted routine graph.
type Importer struct {
	store TxStore
	log   *slog.Logger
}

// NewImporter creates an Importer.
func NewImporter(store TxStore, log *slog.Logger) *Importer {
	return &Importer{store: store, log: log}
}

// Import creates the routine, its days/blocks/exercise entries, and any
// missing catalog exercises for the given owner. The whole graph is written
// inside one transaction: any failure rolls everything back and surfaces as
// a single error. Sort orders come from array position (1-based), never
// from the input.
func (imp *Importer) Import(ctx context.Context, doc *Document, userID int) (*Result, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	result := &Result{RoutineName: doc.Routine.Name}

	err := imp.store.RoutineImportTx(ctx, func(tx RoutineTx) error {
		// Resolve every referenced exercise up front so a bad reference
		// fails before the routine row is written.
		resolved := make(map[string]uuid.UUID)
		for _, day := range doc.Routine.Days {
			for _, block := range day.Blocks {
				for _, ref := range block.Exercises {
					if _, ok := resolved[ref.ExerciseName]; ok {
						continue
					}
					id, created, err := imp.resolveExercise(ctx, tx, doc, userID, ref.ExerciseName)
					if err != nil {
						return err
					}
					resolved[ref.ExerciseName] = id
					if created {
						result.ExercisesCreated++
					}
				}
			}
		}

		routine := &models.Routine{
			ID:          uuid.New(),
			UserID:      userID,
			Name:        doc.Routine.Name,
			Description: doc.Routine.Description,
			Goal:        doc.Routine.Goal,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.CreateRoutine(ctx, routine); err != nil {
			return fmt.Errorf("creating routine: %w", err)
		}
		result.RoutineID = routine.ID

		for di, day := range doc.Routine.Days {
			dayRow := &models.RoutineDay{
				ID:        uuid.New(),
				RoutineID: routine.ID,
				Name:      day.Name,
				SortOrder: di + 1,
			}
			if err := tx.CreateRoutineDay(ctx, dayRow); err != nil {
				return fmt.Errorf("creating day %q: %w", day.Name, err)
			}
			result.Days++

			for bi, block := range day.Blocks {
				blockRow := &models.RoutineBlock{
					ID:        uuid.New(),
					DayID:     dayRow.ID,
					Name:      block.Name,
					SortOrder: bi + 1,
				}
				if err := tx.CreateRoutineBlock(ctx, blockRow); err != nil {
					return fmt.Errorf("creating block %q: %w", block.Name, err)
				}
				result.Blocks++

				for ei, ref := range block.Exercises {
					entry := &models.RoutineExercise{
						ID:           uuid.New(),
						BlockID:      blockRow.ID,
						ExerciseID:   resolved[ref.ExerciseName],
						SortOrder:    ei + 1,
						TargetSeries: ref.TargetSeries,
						TargetReps:   ref.TargetReps,
						TargetRIR:    ref.TargetRIR,
						RestSeconds:  ref.RestSeconds,
						Tempo:        ref.Tempo,
						Notes:        ref.Notes,
					}
					if err := tx.CreateRoutineExercise(ctx, entry); err != nil {
						return fmt.Errorf("creating entry %q: %w", ref.ExerciseName, err)
					}
					result.Exercises++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	imp.log.Info("routine imported",
		"routine", result.RoutineName,
		"days", result.Days,
		"blocks", result.Blocks,
		"exercises", result.Exercises,
		"exercises_created", result.ExercisesCreated,
	)
	return result, nil
}

// resolveExercise finds an existing catalog exercise by exact name, or
// creates one from the document's flat exercise list. A name that is
// neither in the catalog nor defined by the document is an error.
func (imp *Importer) resolveExercise(ctx context.Context, tx RoutineTx, doc *Document, userID int, name string) (uuid.UUID, bool, error) {
	existing, err := tx.FindExerciseByName(ctx, userID, name)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("looking up exercise %q: %w", name, err)
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	def := doc.exerciseDef(name)
	if def == nil {
		return uuid.Nil, false, fmt.Errorf("exercise %q is not in the catalog and the document does not define it", name)
	}

	groupID, err := tx.FindMuscleGroupByName(ctx, def.MuscleGroupName)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("resolving muscle group %q: %w", def.MuscleGroupName, err)
	}

	ex := &models.Exercise{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            def.Name,
		MeasurementType: models.MeasurementType(def.MeasurementType),
		WeightUnit:      def.WeightUnit,
		Instructions:    def.Instructions,
		MuscleGroupID:   groupID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := tx.CreateExercise(ctx, ex); err != nil {
		return uuid.Nil, false, fmt.Errorf("creating exercise %q: %w", name, err)
	}
	return ex.ID, true, nil
}
