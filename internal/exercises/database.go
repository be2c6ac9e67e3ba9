// Package exercises loads and queries the bundled exercise database.
// Compound blocks (EMOM, AMRAP, circuit, interval) are constructed
// dynamically from individual exercises and are never stored here.
package exercises

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Exercise is one entry of the database: an individual movement with
// its default prescription.
type Exercise struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Equipment    []string `json:"equipment"`
	MuscleGroups []string `json:"muscle_groups"`
	DefaultSets  int      `json:"default_sets,omitempty"`
	DefaultReps  int      `json:"default_reps,omitempty"`
	Tempo        string   `json:"tempo,omitempty"`
	WorkSeconds  int      `json:"work_seconds,omitempty"`
	RestSeconds  int      `json:"rest_seconds,omitempty"`
}

// Database is an in-memory, read-only view of the exercise catalog.
type Database struct {
	byID       map[string]Exercise
	byCategory map[string][]Exercise
	total      int
}

type dbFile struct {
	ExerciseDatabase struct {
		TotalExercises int `json:"total_exercises"`
		Categories     map[string]struct {
			Exercises []Exercise `json:"exercises"`
		} `json:"categories"`
	} `json:"exercise_database"`
}

// Load parses the exercise database from the given filesystem path.
func Load(fsys fs.FS, path string) (*Database, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading exercise database: %w", err)
	}

	var file dbFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing exercise database: %w", err)
	}

	db := &Database{
		byID:       make(map[string]Exercise),
		byCategory: make(map[string][]Exercise),
	}
	for category, group := range file.ExerciseDatabase.Categories {
		for _, ex := range group.Exercises {
			ex.Category = category
			if _, dup := db.byID[ex.ID]; dup {
				return nil, fmt.Errorf("duplicate exercise id %q", ex.ID)
			}
			db.byID[ex.ID] = ex
			db.byCategory[category] = append(db.byCategory[category], ex)
			db.total++
		}
	}
	return db, nil
}

// Get returns the exercise with the given ID.
func (db *Database) Get(id string) (Exercise, bool) {
	ex, ok := db.byID[id]
	return ex, ok
}

// Total returns the number of exercises in the database.
func (db *Database) Total() int {
	return db.total
}

// Categories returns the category names in sorted order.
func (db *Database) Categories() []string {
	out := make([]string, 0, len(db.byCategory))
	for c := range db.byCategory {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Filter selects exercises matching every set field.
type Filter struct {
	Category    string
	Equipment   string
	MuscleGroup string
}

// Select returns all exercises matching the filter, in a stable order
// (category, then database order within it).
func (db *Database) Select(f Filter) []Exercise {
	var out []Exercise
	for _, category := range db.Categories() {
		if f.Category != "" && f.Category != category {
			continue
		}
		for _, ex := range db.byCategory[category] {
			if f.Equipment != "" && !containsFold(ex.Equipment, f.Equipment) {
				continue
			}
			if f.MuscleGroup != "" && !containsFold(ex.MuscleGroups, f.MuscleGroup) {
				continue
			}
			out = append(out, ex)
		}
	}
	return out
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
