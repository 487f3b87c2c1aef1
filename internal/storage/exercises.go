package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
)

const exerciseColumns = `e.id, e.user_id, e.name, e.measurement_type, e.weight_unit, e.instructions,
	 e.muscle_group_id, mg.name, e.created_at`

func scanExercise(row pgx.Row) (*models.Exercise, error) {
	var ex models.Exercise
	err := row.Scan(&ex.ID, &ex.UserID, &ex.Name, &ex.MeasurementType, &ex.WeightUnit,
		&ex.Instructions, &ex.MuscleGroupID, &ex.MuscleGroup, &ex.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ex, nil
}

// GetExercise retrieves one catalog exercise by id.
func (db *DB) GetExercise(ctx context.Context, exerciseID uuid.UUID) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+exerciseColumns+`
		 FROM exercises e
		 JOIN muscle_groups mg ON mg.id = e.muscle_group_id
		 WHERE e.id = $1`, exerciseID)

	ex, err := scanExercise(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying exercise: %w", err)
	}
	return ex, nil
}

// ListExercises retrieves a user's exercise catalog ordered by name.
func (db *DB) ListExercises(ctx context.Context, userID int) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+exerciseColumns+`
		 FROM exercises e
		 JOIN muscle_groups mg ON mg.id = e.muscle_group_id
		 WHERE e.user_id = $1
		 ORDER BY e.name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, *ex)
	}
	return result, rows.Err()
}

// ListMuscleGroups retrieves the fixed muscle group catalog.
func (db *DB) ListMuscleGroups(ctx context.Context) ([]models.MuscleGroup, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name FROM muscle_groups ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying muscle groups: %w", err)
	}
	defer rows.Close()

	var result []models.MuscleGroup
	for rows.Next() {
		var mg models.MuscleGroup
		if err := rows.Scan(&mg.ID, &mg.Name); err != nil {
			return nil, fmt.Errorf("scanning muscle group: %w", err)
		}
		result = append(result, mg)
	}
	return result, rows.Err()
}
