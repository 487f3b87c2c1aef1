package storage

import (
	"context"
	"fmt"

	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
	"github.com/serlox-hub/gym-routine-page-sub001/internal/stats"
)

// InsertMeasurement stores a body-weight or body-measurement record.
func (db *DB) InsertMeasurement(ctx context.Context, m *models.MeasurementRecord) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO measurements (id, user_id, kind, value, unit, note, recorded_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		m.ID, m.UserID, m.Kind, m.Value, m.Unit, m.Note, m.RecordedAt)
	if err != nil {
		return fmt.Errorf("inserting measurement: %w", err)
	}
	return nil
}

// ListMeasurements retrieves a user's records of one kind, newest first,
// the ordering the stats package expects.
func (db *DB) ListMeasurements(ctx context.Context, userID int, kind string, limit int) ([]models.MeasurementRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, kind, value, unit, note, recorded_at
		 FROM measurements
		 WHERE user_id = $1 AND kind = $2
		 ORDER BY recorded_at DESC
		 LIMIT $3`, userID, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("querying measurements: %w", err)
	}
	defer rows.Close()

	var result []models.MeasurementRecord
	for rows.Next() {
		var m models.MeasurementRecord
		if err := rows.Scan(&m.ID, &m.UserID, &m.Kind, &m.Value, &m.Unit, &m.Note, &m.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning measurement: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// ToStatsRecords converts measurement rows (newest first) into the shape
// the stats calculators take.
func ToStatsRecords(records []models.MeasurementRecord) []stats.Record {
	out := make([]stats.Record, len(records))
	for i, m := range records {
		out[i] = stats.Record{Value: m.Value, RecordedAt: m.RecordedAt}
	}
	return out
}
