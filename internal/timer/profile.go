package timer

import "github.com/wabbazzar/shredly2-sub003/internal/models"

// Mode selects how the tick loop interprets the target timestamp.
type Mode string

const (
	// ModeCountdown anchors the target at phase end; remaining time
	// counts down to zero.
	ModeCountdown Mode = "countdown"
	// ModeCountUp anchors the target at phase start; elapsed time
	// counts up (circuit blocks).
	ModeCountUp Mode = "count_up"
)

// WorkCalculation selects the strategy for computing a work phase's
// duration.
type WorkCalculation string

const (
	// WorkTempoBased derives duration from reps x seconds-per-rep,
	// where seconds-per-rep comes from the 3-part tempo string.
	WorkTempoBased WorkCalculation = "tempo_based"
	// WorkFromPrescription uses the prescribed work seconds directly.
	// EMOM and AMRAP treat it as the whole block's duration.
	WorkFromPrescription WorkCalculation = "from_prescription"
	// WorkFixed uses the prescribed work seconds or a fixed default.
	WorkFixed WorkCalculation = "fixed"
)

// CountdownBefore names the phase a dedicated get-ready countdown
// precedes, if any.
type CountdownBefore string

const (
	BeforeWork CountdownBefore = "work"
	BeforeRest CountdownBefore = "rest"
	BeforeNone CountdownBefore = ""
)

// LogTiming controls when the engine pauses for data entry.
type LogTiming string

const (
	// LogAfterEachSet enters data entry after every completed set,
	// before rest begins.
	LogAfterEachSet LogTiming = "after_each_set"
	// LogAfterBlock enters data entry once, after the whole block.
	LogAfterBlock LogTiming = "after_block"
)

// Profile is the per exercise-type behavior record consumed by the
// engine. Profiles are immutable for the duration of one execution.
type Profile struct {
	Mode            Mode            `json:"mode"`
	Phases          []Phase         `json:"phases"`
	WorkCalculation WorkCalculation `json:"work_calculation"`
	CountdownBefore CountdownBefore `json:"countdown_before,omitempty"`

	// CountdownBeforeWork moves the pre-work countdown into the tail
	// of the preceding rest phase instead of a dedicated countdown
	// phase. Interval blocks only.
	CountdownBeforeWork bool `json:"countdown_before_work,omitempty"`

	// CountdownAtMinuteEnd emits a 3-2-1 cue in the last seconds of
	// every minute. EMOM blocks only.
	CountdownAtMinuteEnd bool `json:"countdown_at_minute_end,omitempty"`

	LogTiming         LogTiming `json:"log_timing"`
	MinuteMarkers     bool      `json:"minute_markers,omitempty"`
	WorkCompleteChime bool      `json:"work_complete_chime,omitempty"`
}

// HasRestPhase reports whether the profile's phase sequence includes a
// discrete rest phase.
func (p Profile) HasRestPhase() bool {
	for _, ph := range p.Phases {
		if ph == PhaseRest {
			return true
		}
	}
	return false
}

var profiles = map[models.ExerciseType]Profile{
	models.TypeStrength: {
		Mode:            ModeCountdown,
		Phases:          []Phase{PhaseWork, PhaseRest},
		WorkCalculation: WorkTempoBased,
		LogTiming:       LogAfterEachSet,
	},
	models.TypeBodyweight: {
		Mode:            ModeCountdown,
		Phases:          []Phase{PhaseWork, PhaseRest},
		WorkCalculation: WorkTempoBased,
		LogTiming:       LogAfterEachSet,
	},
	models.TypeEMOM: {
		Mode:                 ModeCountdown,
		Phases:               []Phase{PhaseWork},
		WorkCalculation:      WorkFromPrescription,
		CountdownBefore:      BeforeWork,
		CountdownAtMinuteEnd: true,
		LogTiming:            LogAfterBlock,
		MinuteMarkers:        true,
	},
	models.TypeAMRAP: {
		Mode:            ModeCountdown,
		Phases:          []Phase{PhaseWork},
		WorkCalculation: WorkFromPrescription,
		CountdownBefore: BeforeWork,
		LogTiming:       LogAfterBlock,
		MinuteMarkers:   true,
	},
	models.TypeCircuit: {
		Mode:            ModeCountUp,
		Phases:          []Phase{PhaseWork},
		WorkCalculation: WorkFromPrescription,
		CountdownBefore: BeforeWork,
		LogTiming:       LogAfterBlock,
		MinuteMarkers:   true,
	},
	models.TypeInterval: {
		Mode:                ModeCountdown,
		Phases:              []Phase{PhaseWork, PhaseRest},
		WorkCalculation:     WorkFromPrescription,
		CountdownBefore:     BeforeWork,
		CountdownBeforeWork: true,
		LogTiming:           LogAfterBlock,
		WorkCompleteChime:   true,
	},
}

// ResolveProfile returns the execution profile for an exercise type,
// falling back to the strength profile for unknown types.
func ResolveProfile(t models.ExerciseType) Profile {
	if p, ok := profiles[t]; ok {
		return p
	}
	return profiles[models.TypeStrength]
}
