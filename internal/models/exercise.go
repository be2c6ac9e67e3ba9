package models

import "github.com/google/uuid"

// ExerciseType identifies one of the six execution patterns the timer
// engine knows how to drive.
type ExerciseType string

const (
	TypeStrength   ExerciseType = "strength"
	TypeBodyweight ExerciseType = "bodyweight"
	TypeEMOM       ExerciseType = "emom"
	TypeAMRAP      ExerciseType = "amrap"
	TypeCircuit    ExerciseType = "circuit"
	TypeInterval   ExerciseType = "interval"
)

// Valid reports whether t is one of the known exercise types.
func (t ExerciseType) Valid() bool {
	switch t {
	case TypeStrength, TypeBodyweight, TypeEMOM, TypeAMRAP, TypeCircuit, TypeInterval:
		return true
	}
	return false
}

// Prescription holds the set/rep/timing prescription for one exercise.
// Zero values mean "not prescribed"; duration calculators fall back to
// configured defaults.
type Prescription struct {
	Sets        int    `json:"sets" validate:"gte=0,lte=50"`
	Reps        int    `json:"reps" validate:"gte=0,lte=200"`
	Tempo       string `json:"tempo,omitempty"`
	WorkSeconds int    `json:"work_seconds" validate:"gte=0,lte=14400"`
	RestSeconds int    `json:"rest_seconds" validate:"gte=0,lte=3600"`
}

// SubExercise is one movement inside a compound block: an EMOM rotation
// slot, an interval segment, or a circuit station. Its prescription
// overrides the parent's where set.
type SubExercise struct {
	ExerciseID string `json:"exercise_id" validate:"required"`
	Name       string `json:"name"`
	Prescription
}

// LiveExercise is the unit of execution handed to the timer engine by
// the scheduling subsystem. The engine only reads it for the duration
// of one execution.
type LiveExercise struct {
	ID         uuid.UUID    `json:"id"`
	ExerciseID string       `json:"exercise_id"`
	Name       string       `json:"name" validate:"required"`
	Type       ExerciseType `json:"type" validate:"required,oneof=strength bodyweight emom amrap circuit interval"`
	Prescription
	SubExercises []SubExercise `json:"sub_exercises,omitempty" validate:"dive"`
}
