package timer

import (
	"time"

	"github.com/wabbazzar/shredly2-sub003/internal/models"
)

// Phase is one state of the timer state machine.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseCountdown Phase = "countdown"
	PhaseWork      Phase = "work"
	PhaseRest      Phase = "rest"
	PhasePaused    Phase = "paused"
	PhaseEntry     Phase = "entry"
	PhaseComplete  Phase = "complete"
)

// EventType identifies an engine event.
type EventType string

const (
	EventPhaseChange      EventType = "phase_change"
	EventTick             EventType = "tick"
	EventCountdownTick    EventType = "countdown_tick"
	EventMinuteMarker     EventType = "minute_marker"
	EventSetComplete      EventType = "set_complete"
	EventExerciseComplete EventType = "exercise_complete"
	EventWorkComplete     EventType = "work_phase_complete"
)

// State is a snapshot of the engine's execution state. RemainingSeconds
// is always derived from Target and the wall clock at tick time, never
// accumulated per tick, so it cannot drift.
//
// For countdown-mode phases Target marks the phase end; for count-up
// work it marks the phase start and RemainingSeconds carries elapsed
// time instead.
type State struct {
	Mode             Mode                `json:"mode"`
	Phase            Phase               `json:"phase"`
	ExerciseType     models.ExerciseType `json:"exercise_type,omitempty"`
	TotalSeconds     float64             `json:"total_seconds"`
	RemainingSeconds float64             `json:"remaining_seconds"`
	Target           time.Time           `json:"target"`

	CurrentSet         int `json:"current_set"`
	TotalSets          int `json:"total_sets"`
	CurrentSubExercise int `json:"current_sub_exercise"`
	TotalSubExercises  int `json:"total_sub_exercises"`
	CurrentMinute      int `json:"current_minute"`
	TotalMinutes       int `json:"total_minutes"`

	AudioEnabled bool `json:"audio_enabled"`
}

// Event is delivered synchronously to every subscriber on every state
// change. State is a full snapshot so observers need not special-case
// any event type.
type Event struct {
	Type           EventType `json:"type"`
	State          State     `json:"state"`
	PreviousPhase  Phase     `json:"previous_phase,omitempty"`
	CountdownValue int       `json:"countdown_value,omitempty"`
}
