package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetPreference retrieves one user preference value, or ErrNotFound.
func (db *DB) GetPreference(ctx context.Context, userID int, key string) (string, error) {
	var value string
	err := db.Pool.QueryRow(ctx,
		`SELECT value FROM user_preferences WHERE user_id = $1 AND key = $2`,
		userID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying preference %q: %w", key, err)
	}
	return value, nil
}

// SetPreference upserts one user preference value.
func (db *DB) SetPreference(ctx context.Context, userID int, key, value string) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_preferences (user_id, key, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, key) DO UPDATE SET value = $3, updated_at = NOW()`,
		userID, key, value)
	if err != nil {
		return fmt.Errorf("upserting preference %q: %w", key, err)
	}
	return nil
}
