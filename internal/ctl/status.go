package ctl

import (
	"fmt"
)

type stateResponse struct {
	SessionID string `json:"session_id"`
	State     struct {
		Mode             string  `json:"mode"`
		Phase            string  `json:"phase"`
		ExerciseType     string  `json:"exercise_type"`
		TotalSeconds     float64 `json:"total_seconds"`
		RemainingSeconds float64 `json:"remaining_seconds"`
		CurrentSet       int     `json:"current_set"`
		TotalSets        int     `json:"total_sets"`
		CurrentSub       int     `json:"current_sub_exercise"`
		TotalSubs        int     `json:"total_sub_exercises"`
		CurrentMinute    int     `json:"current_minute"`
		TotalMinutes     int     `json:"total_minutes"`
		AudioEnabled     bool    `json:"audio_enabled"`
	} `json:"state"`
}

// Status shows the daemon's current session state.
func Status(baseURL string, jsonOut bool) error {
	var resp stateResponse
	if err := getJSON(baseURL, "/api/v1/session/state", &resp); err != nil {
		return err
	}
	if jsonOut {
		return printJSON(resp)
	}

	st := resp.State
	fmt.Println()
	fmt.Println(header("  SESSION"))
	fmt.Printf("  phase      %s\n", colorize(phaseColor(st.Phase), st.Phase))
	if st.ExerciseType != "" {
		fmt.Printf("  exercise   %s\n", st.ExerciseType)
	}

	if st.Mode == "count_up" {
		fmt.Printf("  elapsed    %s / %s\n", formatSeconds(st.RemainingSeconds), formatSeconds(st.TotalSeconds))
	} else {
		fmt.Printf("  remaining  %s\n", formatSeconds(st.RemainingSeconds))
	}
	if st.TotalSeconds > 0 {
		pct := int(100 * (st.TotalSeconds - st.RemainingSeconds) / st.TotalSeconds)
		if st.Mode == "count_up" {
			pct = int(100 * st.RemainingSeconds / st.TotalSeconds)
		}
		fmt.Printf("  [%s]\n", progressBar(pct, 30))
	}

	if st.TotalSets > 0 {
		fmt.Printf("  set        %d of %d\n", st.CurrentSet, st.TotalSets)
	}
	if st.TotalMinutes > 0 {
		fmt.Printf("  minute     %d of %d\n", st.CurrentMinute, st.TotalMinutes)
	}
	if st.TotalSubs > 1 {
		fmt.Printf("  movement   %d of %d\n", st.CurrentSub+1, st.TotalSubs)
	}
	audio := "off"
	if st.AudioEnabled {
		audio = "on"
	}
	fmt.Printf("  audio      %s\n", audio)
	fmt.Println()
	return nil
}
