package program

import (
	"testing"
	"testing/fstest"

	"github.com/wabbazzar/shredly2-sub003/internal/exercises"
	"github.com/wabbazzar/shredly2-sub003/internal/models"
)

const testDB = `{
  "exercise_database": {
    "categories": {
      "strength": {
        "exercises": [
          {"id": "squat", "name": "Squat", "equipment": ["barbell"], "muscle_groups": ["quads"], "default_sets": 3, "default_reps": 5, "tempo": "2-1-2", "rest_seconds": 120},
          {"id": "bench", "name": "Bench Press", "equipment": ["barbell"], "muscle_groups": ["chest"], "default_sets": 3, "default_reps": 8, "rest_seconds": 90},
          {"id": "push-up", "name": "Push-Up", "equipment": [], "muscle_groups": ["chest"], "default_sets": 3, "default_reps": 12}
        ]
      },
      "cardio": {
        "exercises": [
          {"id": "burpees", "name": "Burpees", "equipment": [], "muscle_groups": ["full-body"], "default_reps": 10, "work_seconds": 40},
          {"id": "jump-rope", "name": "Jump Rope", "equipment": ["rope"], "muscle_groups": ["calves"], "work_seconds": 60}
        ]
      }
    }
  }
}`

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	fsys := fstest.MapFS{"exercises.json": {Data: []byte(testDB)}}
	db, err := exercises.Load(fsys, "exercises.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return NewGenerator(db)
}

// TestGenerateStraightSets verifies that strength blocks expand into
// one LiveExercise per count, carrying database prescriptions.
func TestGenerateStraightSets(t *testing.T) {
	g := newTestGenerator(t)

	out, err := g.Generate(Template{
		Name: "upper",
		Blocks: []BlockSpec{
			{Type: models.TypeStrength, Count: 2, Filter: exercises.Filter{Category: "strength"}},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d exercises, want 2", len(out))
	}
	if out[0].ExerciseID != "squat" || out[1].ExerciseID != "bench" {
		t.Errorf("ids = %q, %q; want squat, bench", out[0].ExerciseID, out[1].ExerciseID)
	}
	if out[0].Sets != 3 || out[0].Reps != 5 || out[0].Tempo != "2-1-2" {
		t.Errorf("squat prescription = %+v", out[0].Prescription)
	}
	if out[0].RestSeconds != 120 {
		t.Errorf("rest = %d, want 120", out[0].RestSeconds)
	}
}

// TestGenerateRoundRobin verifies the per-filter cursor walks the pool
// across calls instead of repeating the first match.
func TestGenerateRoundRobin(t *testing.T) {
	g := newTestGenerator(t)
	tmpl := Template{
		Name: "day",
		Blocks: []BlockSpec{
			{Type: models.TypeStrength, Count: 2, Filter: exercises.Filter{Category: "strength"}},
		},
	}

	first, err := g.Generate(tmpl)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := g.Generate(tmpl)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// Pool of 3, cursor continues: squat, bench then push-up, squat.
	if second[0].ExerciseID != "push-up" || second[1].ExerciseID != "squat" {
		t.Errorf("second call ids = %q, %q; want push-up, squat", second[0].ExerciseID, second[1].ExerciseID)
	}
	if first[0].ExerciseID == second[0].ExerciseID {
		t.Error("cursor did not advance between calls")
	}
}

// TestGenerateCompoundBlock verifies EMOM blocks produce a single
// LiveExercise with sub-exercises and a block duration.
func TestGenerateCompoundBlock(t *testing.T) {
	g := newTestGenerator(t)

	out, err := g.Generate(Template{
		Name: "finisher",
		Blocks: []BlockSpec{
			{Type: models.TypeEMOM, Count: 2, Filter: exercises.Filter{Category: "cardio"}, DurationSecs: 300},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d exercises, want 1", len(out))
	}
	ex := out[0]
	if ex.Type != models.TypeEMOM {
		t.Errorf("type = %q, want emom", ex.Type)
	}
	if ex.WorkSeconds != 300 {
		t.Errorf("duration = %d, want 300", ex.WorkSeconds)
	}
	if len(ex.SubExercises) != 2 {
		t.Fatalf("sub-exercises = %d, want 2", len(ex.SubExercises))
	}
	if ex.SubExercises[0].ExerciseID != "burpees" || ex.SubExercises[1].ExerciseID != "jump-rope" {
		t.Errorf("subs = %+v", ex.SubExercises)
	}
	if ex.SubExercises[0].WorkSeconds != 40 {
		t.Errorf("sub work seconds = %d, want 40", ex.SubExercises[0].WorkSeconds)
	}
}

// TestGenerateDefaults verifies block duration defaults per type and
// the empty-pool error path.
func TestGenerateDefaults(t *testing.T) {
	g := newTestGenerator(t)

	out, err := g.Generate(Template{
		Name: "amrap",
		Blocks: []BlockSpec{
			{Type: models.TypeAMRAP, Count: 1, Filter: exercises.Filter{Category: "cardio"}},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out[0].WorkSeconds != 720 {
		t.Errorf("default AMRAP duration = %d, want 720", out[0].WorkSeconds)
	}

	_, err = g.Generate(Template{
		Name: "empty",
		Blocks: []BlockSpec{
			{Type: models.TypeStrength, Count: 1, Filter: exercises.Filter{Category: "swimming"}},
		},
	})
	if err == nil {
		t.Fatal("expected error for empty pool")
	}
}
