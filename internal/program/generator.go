// Package program turns workout templates into concrete exercise
// lists by drawing from the exercise database.
package program

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wabbazzar/shredly2-sub003/internal/exercises"
	"github.com/wabbazzar/shredly2-sub003/internal/models"
)

// BlockSpec describes one block of a workout template. For straight-set
// types Count individual exercises are generated; for compound types
// one block with Count sub-exercises is generated.
type BlockSpec struct {
	Type         models.ExerciseType `json:"type" validate:"required"`
	Count        int                 `json:"count" validate:"gte=1,lte=12"`
	Filter       exercises.Filter    `json:"filter"`
	DurationSecs int                 `json:"duration_seconds,omitempty" validate:"gte=0,lte=7200"`
	RestSecs     int                 `json:"rest_seconds,omitempty" validate:"gte=0,lte=3600"`
}

// Template is an ordered list of blocks making up one workout.
type Template struct {
	Name   string      `json:"name" validate:"required"`
	Blocks []BlockSpec `json:"blocks" validate:"required,min=1,dive"`
}

// Generator produces workouts from templates. Selection is round-robin
// per (category, equipment, muscle group) filter so repeated calls walk
// through the database instead of repeating the first match. Not safe
// for concurrent use; callers serialize.
type Generator struct {
	db      *exercises.Database
	cursors map[exercises.Filter]int
}

// NewGenerator returns a generator backed by the given database.
func NewGenerator(db *exercises.Database) *Generator {
	return &Generator{
		db:      db,
		cursors: make(map[exercises.Filter]int),
	}
}

// next returns the next exercise for the filter, advancing its cursor.
func (g *Generator) next(f exercises.Filter) (exercises.Exercise, error) {
	pool := g.db.Select(f)
	if len(pool) == 0 {
		return exercises.Exercise{}, fmt.Errorf("no exercises match filter %+v", f)
	}
	i := g.cursors[f] % len(pool)
	g.cursors[f] = i + 1
	return pool[i], nil
}

// Generate builds the exercise list for one workout from the template.
func (g *Generator) Generate(t Template) ([]models.LiveExercise, error) {
	if len(t.Blocks) == 0 {
		return nil, fmt.Errorf("template %q has no blocks", t.Name)
	}

	var out []models.LiveExercise
	for _, block := range t.Blocks {
		if !block.Type.Valid() {
			return nil, fmt.Errorf("template %q: unknown exercise type %q", t.Name, block.Type)
		}
		count := block.Count
		if count < 1 {
			count = 1
		}

		switch block.Type {
		case models.TypeStrength, models.TypeBodyweight:
			for i := 0; i < count; i++ {
				ex, err := g.next(block.Filter)
				if err != nil {
					return nil, fmt.Errorf("template %q: %w", t.Name, err)
				}
				out = append(out, straightSet(ex, block))
			}
		default:
			live, err := g.compound(block)
			if err != nil {
				return nil, fmt.Errorf("template %q: %w", t.Name, err)
			}
			out = append(out, live)
		}
	}
	return out, nil
}

func straightSet(ex exercises.Exercise, block BlockSpec) models.LiveExercise {
	rest := block.RestSecs
	if rest == 0 {
		rest = ex.RestSeconds
	}
	return models.LiveExercise{
		ID:         uuid.New(),
		ExerciseID: ex.ID,
		Name:       ex.Name,
		Type:       block.Type,
		Prescription: models.Prescription{
			Sets:        ex.DefaultSets,
			Reps:        ex.DefaultReps,
			Tempo:       ex.Tempo,
			RestSeconds: rest,
		},
	}
}

func (g *Generator) compound(block BlockSpec) (models.LiveExercise, error) {
	subs := make([]models.SubExercise, 0, block.Count)
	for i := 0; i < block.Count; i++ {
		ex, err := g.next(block.Filter)
		if err != nil {
			return models.LiveExercise{}, err
		}
		subs = append(subs, models.SubExercise{
			ExerciseID: ex.ID,
			Name:       ex.Name,
			Prescription: models.Prescription{
				Reps:        ex.DefaultReps,
				WorkSeconds: ex.WorkSeconds,
				RestSeconds: ex.RestSeconds,
			},
		})
	}

	duration := block.DurationSecs
	if duration == 0 {
		duration = defaultBlockSeconds(block.Type)
	}

	live := models.LiveExercise{
		ID:   uuid.New(),
		Type: block.Type,
		Name: blockName(block.Type, subs),
		Prescription: models.Prescription{
			WorkSeconds: duration,
			RestSeconds: block.RestSecs,
		},
		SubExercises: subs,
	}
	if block.Type == models.TypeInterval {
		// Interval blocks run each segment once per set.
		live.Sets = 1
	}
	return live, nil
}

func defaultBlockSeconds(t models.ExerciseType) int {
	switch t {
	case models.TypeEMOM:
		return 600
	case models.TypeAMRAP:
		return 720
	case models.TypeCircuit:
		return 900
	case models.TypeInterval:
		return 30
	}
	return 600
}

func blockName(t models.ExerciseType, subs []models.SubExercise) string {
	label := map[models.ExerciseType]string{
		models.TypeEMOM:     "EMOM",
		models.TypeAMRAP:    "AMRAP",
		models.TypeCircuit:  "Circuit",
		models.TypeInterval: "Intervals",
	}[t]
	switch len(subs) {
	case 0:
		return label
	case 1:
		return label + ": " + subs[0].Name
	}
	return fmt.Sprintf("%s: %s +%d", label, subs[0].Name, len(subs)-1)
}
