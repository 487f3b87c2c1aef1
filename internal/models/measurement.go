package models

import (
	"time"

	"github.com/google/uuid"
)

// MeasurementRecord is a body-weight or body-measurement entry.
// Lists of records are ordered by RecordedAt descending (newest first);
// the stats package depends on that ordering.
type MeasurementRecord struct {
	ID         uuid.UUID `json:"id"`
	UserID     int       `json:"user_id"`
	Kind       string    `json:"kind"` // "weight", "waist", "chest", ...
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Note       *string   `json:"note,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}
