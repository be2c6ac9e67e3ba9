package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledWorkoutRow is a row ready for insertion into the
// scheduled_workouts table.
type ScheduledWorkoutRow struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"date"`
	Name      string    `json:"name"`
	Template  string    `json:"template"`
	Status    string    `json:"status"`
	RawJSON   []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Scheduled workout statuses.
const (
	WorkoutPlanned   = "planned"
	WorkoutActive    = "active"
	WorkoutCompleted = "completed"
	WorkoutSkipped   = "skipped"
)

// SessionLogRow is a row for the session_logs table: one completed (or
// stopped) execution of a single exercise.
type SessionLogRow struct {
	ID           uuid.UUID    `json:"id"`
	WorkoutID    *uuid.UUID   `json:"workout_id,omitempty"`
	ExerciseID   string       `json:"exercise_id"`
	ExerciseName string       `json:"exercise_name"`
	ExerciseType ExerciseType `json:"exercise_type"`
	StartedAt    time.Time    `json:"started_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	TotalSets    int          `json:"total_sets"`
	SetsDone     int          `json:"sets_done"`
}

// SetLogRow is a row for the set_logs table: the data the user entered
// during one data-entry phase.
type SetLogRow struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	SetNumber int       `json:"set_number"`
	Reps      int       `json:"reps" validate:"gte=0,lte=500"`
	Weight    *float64  `json:"weight,omitempty" validate:"omitempty,gte=0"`
	RPE       *int      `json:"rpe,omitempty" validate:"omitempty,gte=1,lte=10"`
	Notes     string    `json:"notes,omitempty"`
	LoggedAt  time.Time `json:"logged_at"`
}
