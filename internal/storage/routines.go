package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
)

// ErrNotFound is returned when a requested row does not exist for the user.
var ErrNotFound = errors.New("not found")

// routineTx implements routineio.RoutineTx over an open pgx transaction.
type routineTx struct {
	tx pgx.Tx
}

func (r *routineTx) FindExerciseByName(ctx context.Context, userID int, name string) (*models.Exercise, error) {
	row := r.tx.QueryRow(ctx,
		`SELECT e.id, e.user_id, e.name, e.measurement_type, e.weight_unit, e.instructions,
		 e.muscle_group_id, mg.name, e.created_at
		 FROM exercises e
		 JOIN muscle_groups mg ON mg.id = e.muscle_group_id
		 WHERE e.user_id = $1 AND e.name = $2`,
		userID, name)

	ex, err := scanExercise(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding exercise %q: %w", name, err)
	}
	return ex, nil
}

func (r *routineTx) FindMuscleGroupByName(ctx context.Context, name string) (int, error) {
	var id int
	err := r.tx.QueryRow(ctx,
		`SELECT id FROM muscle_groups WHERE name = $1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("unknown muscle group %q", name)
	}
	if err != nil {
		return 0, fmt.Errorf("finding muscle group %q: %w", name, err)
	}
	return id, nil
}

func (r *routineTx) CreateExercise(ctx context.Context, ex *models.Exercise) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO exercises (id, user_id, name, measurement_type, weight_unit, instructions, muscle_group_id, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		ex.ID, ex.UserID, ex.Name, ex.MeasurementType, ex.WeightUnit, ex.Instructions, ex.MuscleGroupID, ex.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting exercise: %w", err)
	}
	return nil
}

func (r *routineTx) CreateRoutine(ctx context.Context, routine *models.Routine) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO routines (id, user_id, name, description, goal, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		routine.ID, routine.UserID, routine.Name, routine.Description, routine.Goal, routine.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting routine: %w", err)
	}
	return nil
}

func (r *routineTx) CreateRoutineDay(ctx context.Context, day *models.RoutineDay) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO routine_days (id, routine_id, name, sort_order)
		 VALUES ($1,$2,$3,$4)`,
		day.ID, day.RoutineID, day.Name, day.SortOrder)
	if err != nil {
		return fmt.Errorf("inserting routine day: %w", err)
	}
	return nil
}

func (r *routineTx) CreateRoutineBlock(ctx context.Context, block *models.RoutineBlock) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO routine_blocks (id, day_id, name, sort_order)
		 VALUES ($1,$2,$3,$4)`,
		block.ID, block.DayID, block.Name, block.SortOrder)
	if err != nil {
		return fmt.Errorf("inserting routine block: %w", err)
	}
	return nil
}

func (r *routineTx) CreateRoutineExercise(ctx context.Context, entry *models.RoutineExercise) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO routine_exercises (id, block_id, exercise_id, sort_order,
		 target_series, target_reps, target_rir, rest_seconds, tempo, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		entry.ID, entry.BlockID, entry.ExerciseID, entry.SortOrder,
		entry.TargetSeries, entry.TargetReps, entry.TargetRIR, entry.RestSeconds, entry.Tempo, entry.Notes)
	if err != nil {
		return fmt.Errorf("inserting routine exercise: %w", err)
	}
	return nil
}

// ListRoutines retrieves a user's routines, newest first.
func (db *DB) ListRoutines(ctx context.Context, userID int) ([]models.Routine, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, description, goal, created_at
		 FROM routines
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying routines: %w", err)
	}
	defer rows.Close()

	var result []models.Routine
	for rows.Next() {
		var r models.Routine
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Description, &r.Goal, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning routine: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetRoutine retrieves one routine owned by the user.
func (db *DB) GetRoutine(ctx context.Context, userID int, routineID uuid.UUID) (*models.Routine, error) {
	var r models.Routine
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, description, goal, created_at
		 FROM routines
		 WHERE id = $1 AND user_id = $2`,
		routineID, userID).Scan(&r.ID, &r.UserID, &r.Name, &r.Description, &r.Goal, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying routine: %w", err)
	}
	return &r, nil
}

// ListRoutineDays retrieves a routine's days ordered by sort_order.
func (db *DB) ListRoutineDays(ctx context.Context, routineID uuid.UUID) ([]models.RoutineDay, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, routine_id, name, sort_order
		 FROM routine_days
		 WHERE routine_id = $1
		 ORDER BY sort_order ASC`, routineID)
	if err != nil {
		return nil, fmt.Errorf("querying routine days: %w", err)
	}
	defer rows.Close()

	var result []models.RoutineDay
	for rows.Next() {
		var d models.RoutineDay
		if err := rows.Scan(&d.ID, &d.RoutineID, &d.Name, &d.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning routine day: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// ListRoutineBlocks retrieves a day's blocks ordered by sort_order.
func (db *DB) ListRoutineBlocks(ctx context.Context, dayID uuid.UUID) ([]models.RoutineBlock, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, day_id, name, sort_order
		 FROM routine_blocks
		 WHERE day_id = $1
		 ORDER BY sort_order ASC`, dayID)
	if err != nil {
		return nil, fmt.Errorf("querying routine blocks: %w", err)
	}
	defer rows.Close()

	var result []models.RoutineBlock
	for rows.Next() {
		var b models.RoutineBlock
		if err := rows.Scan(&b.ID, &b.DayID, &b.Name, &b.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning routine block: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// ListRoutineExercises retrieves a block's exercise entries ordered by
// sort_order, with exercise names joined in.
func (db *DB) ListRoutineExercises(ctx context.Context, blockID uuid.UUID) ([]models.RoutineExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT re.id, re.block_id, re.exercise_id, e.name, re.sort_order,
		 re.target_series, re.target_reps, re.target_rir, re.rest_seconds, re.tempo, re.notes
		 FROM routine_exercises re
		 JOIN exercises e ON e.id = re.exercise_id
		 WHERE re.block_id = $1
		 ORDER BY re.sort_order ASC`, blockID)
	if err != nil {
		return nil, fmt.Errorf("querying routine exercises: %w", err)
	}
	defer rows.Close()

	var result []models.RoutineExercise
	for rows.Next() {
		var re models.RoutineExercise
		if err := rows.Scan(&re.ID, &re.BlockID, &re.ExerciseID, &re.ExerciseName, &re.SortOrder,
			&re.TargetSeries, &re.TargetReps, &re.TargetRIR, &re.RestSeconds, &re.Tempo, &re.Notes); err != nil {
			return nil, fmt.Errorf("scanning routine exercise: %w", err)
		}
		result = append(result, re)
	}
	return result, rows.Err()
}

// GetRoutineDay retrieves one day and checks ownership through its routine.
func (db *DB) GetRoutineDay(ctx context.Context, userID int, dayID uuid.UUID) (*models.RoutineDay, error) {
	var d models.RoutineDay
	err := db.Pool.QueryRow(ctx,
		`SELECT rd.id, rd.routine_id, rd.name, rd.sort_order
		 FROM routine_days rd
		 JOIN routines r ON r.id = rd.routine_id
		 WHERE rd.id = $1 AND r.user_id = $2`,
		dayID, userID).Scan(&d.ID, &d.RoutineID, &d.Name, &d.SortOrder)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying routine day: %w", err)
	}
	return &d, nil
}

// GetRoutineBlock retrieves one block and checks ownership through its day
// and routine.
func (db *DB) GetRoutineBlock(ctx context.Context, userID int, blockID uuid.UUID) (*models.RoutineBlock, error) {
	var b models.RoutineBlock
	err := db.Pool.QueryRow(ctx,
		`SELECT rb.id, rb.day_id, rb.name, rb.sort_order
		 FROM routine_blocks rb
		 JOIN routine_days rd ON rd.id = rb.day_id
		 JOIN routines r ON r.id = rd.routine_id
		 WHERE rb.id = $1 AND r.user_id = $2`,
		blockID, userID).Scan(&b.ID, &b.DayID, &b.Name, &b.SortOrder)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying routine block: %w", err)
	}
	return &b, nil
}

// ReorderRoutineDays applies new sort orders to a routine's days in one
// transaction. Rows not belonging to the routine are ignored.
func (db *DB) ReorderRoutineDays(ctx context.Context, routineID uuid.UUID, updates []models.SortOrderUpdate) error {
	return db.reorder(ctx,
		`UPDATE routine_days SET sort_order = $1 WHERE id = $2 AND routine_id = $3`,
		routineID, updates)
}

// ReorderBlockExercises applies new sort orders to a block's exercise
// entries in one transaction.
func (db *DB) ReorderBlockExercises(ctx context.Context, blockID uuid.UUID, updates []models.SortOrderUpdate) error {
	return db.reorder(ctx,
		`UPDATE routine_exercises SET sort_order = $1 WHERE id = $2 AND block_id = $3`,
		blockID, updates)
}

func (db *DB) reorder(ctx context.Context, query string, parentID uuid.UUID, updates []models.SortOrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning reorder: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, u := range updates {
		if _, err := tx.Exec(ctx, query, u.SortOrder, u.ID, parentID); err != nil {
			return fmt.Errorf("updating sort order for %s: %w", u.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing reorder: %w", err)
	}
	return nil
}
