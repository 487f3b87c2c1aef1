// Package routineio implements the user-facing routine JSON format:
// parsing, validation, the transactional import transformer, and the
// exporter that produces round-trippable documents.
package routineio

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/serlox-hub/gym-routine-page-sub001/internal/models"
)

// FormatVersion is the document version this code writes and accepts.
const FormatVersion = 1

// Document is the top-level routine import/export file.
type Document struct {
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exportedAt"`
	Exercises  []ExerciseDef `json:"exercises"`
	Routine    *RoutineDoc   `json:"routine"`
}

// ExerciseDef is one entry of the flat exercise list. Routine entries
// reference these by name, not by id.
type ExerciseDef struct {
	Name            string  `json:"name"`
	MeasurementType string  `json:"measurement_type"`
	WeightUnit      string  `json:"weight_unit"`
	Instructions    *string `json:"instructions,omitempty"`
	MuscleGroupName string  `json:"muscle_group_name"`
}

// RoutineDoc is the nested routine definition.
type RoutineDoc struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Goal        *string  `json:"goal,omitempty"`
	Days        []DayDoc `json:"days"`
}

// DayDoc is one ordered training day. Ordering comes from array position;
// any sort fields in the input are not trusted.
type DayDoc struct {
	Name   string     `json:"name"`
	Blocks []BlockDoc `json:"blocks"`
}

// BlockDoc is one ordered block within a day.
type BlockDoc struct {
	Name      string        `json:"name"`
	Exercises []ExerciseRef `json:"exercises"`
}

// ExerciseRef is an exercise-in-block entry with its prescription data.
type ExerciseRef struct {
	ExerciseName string  `json:"exercise_name"`
	TargetSeries int     `json:"target_series"`
	TargetReps   string  `json:"target_reps"`
	TargetRIR    *int    `json:"target_rir,omitempty"`
	RestSeconds  int     `json:"rest_seconds"`
	Tempo        *string `json:"tempo,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// Parse decodes and validates a routine document. Malformed JSON and a
// missing top-level routine key fail here, before any write is attempted.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing routine document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the structural invariants that can be decided without a
// database: the routine key is present, names are non-empty, and exercise
// definitions carry a known measurement type.
func (d *Document) Validate() error {
	if d.Routine == nil {
		return fmt.Errorf("document has no routine")
	}
	if d.Routine.Name == "" {
		return fmt.Errorf("routine name is empty")
	}
	for i, def := range d.Exercises {
		if def.Name == "" {
			return fmt.Errorf("exercise definition %d has no name", i+1)
		}
		if !models.MeasurementType(def.MeasurementType).Valid() {
			return fmt.Errorf("exercise %q has unknown measurement type %q", def.Name, def.MeasurementType)
		}
	}
	for di, day := range d.Routine.Days {
		if day.Name == "" {
			return fmt.Errorf("day %d has no name", di+1)
		}
		for bi, block := range day.Blocks {
			if block.Name == "" {
				return fmt.Errorf("day %q block %d has no name", day.Name, bi+1)
			}
			for ei, ref := range block.Exercises {
				if ref.ExerciseName == "" {
					return fmt.Errorf("day %q block %q entry %d has no exercise name", day.Name, block.Name, ei+1)
				}
			}
		}
	}
	return nil
}

// exerciseDef returns the flat-list definition for a referenced name,
// or nil when the document does not define it. Matching is case-sensitive.
func (d *Document) exerciseDef(name string) *ExerciseDef {
	for i := range d.Exercises {
		if d.Exercises[i].Name == name {
			return &d.Exercises[i]
		}
	}
	return nil
}

// Filename returns the suggested download name for an exported document.
func (d *Document) Filename() string {
	if d.Routine == nil || d.Routine.Name == "" {
		return "routine.json"
	}
	return d.Routine.Name + ".json"
}
