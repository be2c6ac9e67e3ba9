package ctl

import (
	"fmt"
)

// control issues one of the simple session transitions and prints the
// phase the engine landed in.
func control(baseURL, apiKey, verb string, jsonOut bool) error {
	var state struct {
		Phase string `json:"phase"`
	}
	if err := postJSON(baseURL, apiKey, "/api/v1/session/"+verb, nil, &state); err != nil {
		return err
	}
	if jsonOut {
		return printJSON(state)
	}
	fmt.Printf("\n  %s  phase is now %s\n\n", colorize(green, "OK"), colorize(phaseColor(state.Phase), state.Phase))
	return nil
}

// Start begins the loaded exercise.
func Start(baseURL, apiKey string, jsonOut bool) error {
	return control(baseURL, apiKey, "start", jsonOut)
}

// Pause freezes the running timer.
func Pause(baseURL, apiKey string, jsonOut bool) error {
	return control(baseURL, apiKey, "pause", jsonOut)
}

// Resume continues a paused timer.
func Resume(baseURL, apiKey string, jsonOut bool) error {
	return control(baseURL, apiKey, "resume", jsonOut)
}

// Skip jumps past the current phase.
func Skip(baseURL, apiKey string, jsonOut bool) error {
	return control(baseURL, apiKey, "skip", jsonOut)
}

// Stop cancels the session and returns the timer to idle.
func Stop(baseURL, apiKey string, jsonOut bool) error {
	return control(baseURL, apiKey, "stop", jsonOut)
}

// Entry moves the timer into the data-entry phase.
func Entry(baseURL, apiKey string, jsonOut bool) error {
	return control(baseURL, apiKey, "entry", jsonOut)
}

// LogOptions carries the set data for the log command.
type LogOptions struct {
	Reps   int
	Weight float64
	RPE    int
	Notes  string
	JSON   bool
}

// Log records the just-finished set and releases the timer.
func Log(baseURL, apiKey string, opts LogOptions) error {
	body := map[string]any{"reps": opts.Reps}
	if opts.Weight > 0 {
		body["weight"] = opts.Weight
	}
	if opts.RPE > 0 {
		body["rpe"] = opts.RPE
	}
	if opts.Notes != "" {
		body["notes"] = opts.Notes
	}

	var state struct {
		Phase      string `json:"phase"`
		CurrentSet int    `json:"current_set"`
		TotalSets  int    `json:"total_sets"`
	}
	if err := postJSON(baseURL, apiKey, "/api/v1/session/log", body, &state); err != nil {
		return err
	}
	if opts.JSON {
		return printJSON(state)
	}
	fmt.Printf("\n  %s  set logged, phase is now %s",
		colorize(green, "OK"), colorize(phaseColor(state.Phase), state.Phase))
	if state.TotalSets > 0 {
		fmt.Printf(" (set %d of %d)", state.CurrentSet, state.TotalSets)
	}
	fmt.Print("\n\n")
	return nil
}

// Audio toggles the daemon's audio cue flag.
func Audio(baseURL, apiKey string, enabled, jsonOut bool) error {
	var state struct {
		AudioEnabled bool `json:"audio_enabled"`
	}
	body := map[string]bool{"enabled": enabled}
	if err := postJSON(baseURL, apiKey, "/api/v1/session/audio", body, &state); err != nil {
		return err
	}
	if jsonOut {
		return printJSON(state)
	}
	setting := "off"
	if state.AudioEnabled {
		setting = "on"
	}
	fmt.Printf("\n  %s  audio cues %s\n\n", colorize(green, "OK"), setting)
	return nil
}
