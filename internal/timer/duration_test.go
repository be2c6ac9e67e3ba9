package timer

import (
	"testing"

	"github.com/wabbazzar/shredly2-sub003/internal/models"
)

func testOptions() Options {
	o := Options{}
	o.setDefaults()
	return o
}

// TestTempoSecondsPerRep verifies tempo string parsing, including the
// malformed cases that must fall back rather than fail.
func TestTempoSecondsPerRep(t *testing.T) {
	tests := []struct {
		tempo  string
		want   int
		wantOK bool
	}{
		{"3-1-2", 6, true},
		{"2-0-2", 4, true},
		{"4-2-4", 10, true},
		{" 3 - 1 - 2 ", 6, true},
		{"", 0, false},
		{"3-1", 0, false},
		{"3-1-2-1", 0, false},
		{"x-1-2", 0, false},
		{"3--2", 0, false},
	}
	for _, tt := range tests {
		got, ok := tempoSecondsPerRep(tt.tempo)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("tempoSecondsPerRep(%q) = (%d, %v), want (%d, %v)",
				tt.tempo, got, ok, tt.want, tt.wantOK)
		}
	}
}

// TestWorkDurationTempoBased verifies reps x seconds-per-rep, with the
// fixed per-rep constant used for absent or malformed tempo strings.
func TestWorkDurationTempoBased(t *testing.T) {
	o := testOptions()
	p := ResolveProfile(models.TypeStrength)

	ex := &models.LiveExercise{Type: models.TypeStrength}
	ex.Reps = 5
	ex.Tempo = "3-1-2"
	if got := workDuration(ex, 0, p, o); got != 30 {
		t.Errorf("tempo work duration = %d, want 30", got)
	}

	ex.Tempo = "bad-tempo"
	if got, want := workDuration(ex, 0, p, o), 5*o.DefaultRepSeconds; got != want {
		t.Errorf("malformed tempo work duration = %d, want %d", got, want)
	}

	ex.Tempo = ""
	if got, want := workDuration(ex, 0, p, o), 5*o.DefaultRepSeconds; got != want {
		t.Errorf("absent tempo work duration = %d, want %d", got, want)
	}
}

// TestWorkDurationFromPrescription verifies that EMOM/AMRAP use the
// prescribed work time as the whole block's duration.
func TestWorkDurationFromPrescription(t *testing.T) {
	o := testOptions()
	ex := &models.LiveExercise{Type: models.TypeEMOM}
	ex.WorkSeconds = 300
	if got := workDuration(ex, 0, ResolveProfile(models.TypeEMOM), o); got != 300 {
		t.Errorf("EMOM block duration = %d, want 300", got)
	}
}

// TestWorkDurationFallback verifies the fixed default when nothing is
// prescribed.
func TestWorkDurationFallback(t *testing.T) {
	o := testOptions()
	ex := &models.LiveExercise{Type: models.TypeCircuit}
	if got := workDuration(ex, 0, ResolveProfile(models.TypeCircuit), o); got != o.DefaultWorkSeconds {
		t.Errorf("fallback work duration = %d, want %d", got, o.DefaultWorkSeconds)
	}
}

// TestRestDurationFloor verifies the configured minimum rest floor and
// the default for absent rest prescriptions.
func TestRestDurationFloor(t *testing.T) {
	o := testOptions()
	ex := &models.LiveExercise{Type: models.TypeStrength}

	ex.RestSeconds = 3
	if got := restDuration(ex, 0, o); got != o.MinRestSeconds {
		t.Errorf("floored rest = %d, want %d", got, o.MinRestSeconds)
	}

	ex.RestSeconds = 0
	if got := restDuration(ex, 0, o); got != o.DefaultRestSeconds {
		t.Errorf("default rest = %d, want %d", got, o.DefaultRestSeconds)
	}

	ex.RestSeconds = 45
	if got := restDuration(ex, 0, o); got != 45 {
		t.Errorf("prescribed rest = %d, want 45", got)
	}
}

// TestIntervalSubExerciseOverride verifies that the current
// sub-exercise's work and rest take priority over the parent
// prescription.
func TestIntervalSubExerciseOverride(t *testing.T) {
	o := testOptions()
	p := ResolveProfile(models.TypeInterval)

	ex := &models.LiveExercise{Type: models.TypeInterval}
	ex.WorkSeconds = 30
	ex.RestSeconds = 20
	ex.SubExercises = []models.SubExercise{
		{ExerciseID: "burpees", Prescription: models.Prescription{WorkSeconds: 40, RestSeconds: 15}},
		{ExerciseID: "plank"},
	}

	if got := workDuration(ex, 0, p, o); got != 40 {
		t.Errorf("sub 0 work = %d, want 40", got)
	}
	if got := restDuration(ex, 0, o); got != 15 {
		t.Errorf("sub 0 rest = %d, want 15", got)
	}

	// Sub-exercise 1 has no override; the parent prescription applies.
	if got := workDuration(ex, 1, p, o); got != 30 {
		t.Errorf("sub 1 work = %d, want 30", got)
	}
	if got := restDuration(ex, 1, o); got != 20 {
		t.Errorf("sub 1 rest = %d, want 20", got)
	}
}

// TestResolveProfileFallback verifies that unknown exercise types fall
// back to the strength profile.
func TestResolveProfileFallback(t *testing.T) {
	got := ResolveProfile(models.ExerciseType("yoga"))
	want := ResolveProfile(models.TypeStrength)
	if got.LogTiming != want.LogTiming || got.WorkCalculation != want.WorkCalculation {
		t.Errorf("fallback profile = %+v, want strength profile %+v", got, want)
	}
	if got.LogTiming != LogAfterEachSet {
		t.Errorf("strength log timing = %q, want %q", got.LogTiming, LogAfterEachSet)
	}
}
