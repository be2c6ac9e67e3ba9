package ctl

import (
	"fmt"
	"net/url"
	"time"
)

// LogsOptions configures the logs command.
type LogsOptions struct {
	Start string
	End   string
	JSON  bool
}

// Logs lists completed exercise sessions.
func Logs(baseURL string, opts LogsOptions) error {
	params := url.Values{}
	if opts.Start != "" {
		params.Set("start", opts.Start)
	}
	if opts.End != "" {
		params.Set("end", opts.End)
	}
	path := "/api/v1/logs"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var sessions []struct {
		ID           string     `json:"id"`
		ExerciseName string     `json:"exercise_name"`
		ExerciseType string     `json:"exercise_type"`
		StartedAt    time.Time  `json:"started_at"`
		CompletedAt  *time.Time `json:"completed_at"`
		TotalSets    int        `json:"total_sets"`
		SetsDone     int        `json:"sets_done"`
	}
	if err := getJSON(baseURL, path, &sessions); err != nil {
		return err
	}
	if opts.JSON {
		return printJSON(sessions)
	}

	fmt.Println()
	fmt.Println(header("  SESSION LOGS"))
	if len(sessions) == 0 {
		fmt.Println("  No sessions in range.")
		fmt.Println()
		return nil
	}
	for _, s := range sessions {
		status := colorize(yellow, "stopped")
		if s.CompletedAt != nil {
			status = colorize(green, "done")
		}
		fmt.Printf("  %s  %-24s %-10s sets %d/%d  %s\n",
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.ExerciseName, colorize(dim, s.ExerciseType),
			s.SetsDone, s.TotalSets, status)
		fmt.Printf("           %s\n", colorize(dim, s.ID))
	}
	fmt.Println()
	return nil
}

// Sets lists the sets logged during one session.
func Sets(baseURL, sessionID string, jsonOut bool) error {
	var sets []struct {
		SetNumber int      `json:"set_number"`
		Reps      int      `json:"reps"`
		Weight    *float64 `json:"weight"`
		RPE       *int     `json:"rpe"`
		Notes     string   `json:"notes"`
	}
	if err := getJSON(baseURL, "/api/v1/logs/"+sessionID+"/sets", &sets); err != nil {
		return err
	}
	if jsonOut {
		return printJSON(sets)
	}

	fmt.Println()
	fmt.Println(header("  SETS"))
	for _, s := range sets {
		line := fmt.Sprintf("  set %d  %d reps", s.SetNumber, s.Reps)
		if s.Weight != nil {
			line += fmt.Sprintf("  %.1f kg", *s.Weight)
		}
		if s.RPE != nil {
			line += fmt.Sprintf("  RPE %d", *s.RPE)
		}
		fmt.Println(line)
		if s.Notes != "" {
			fmt.Printf("         %s\n", colorize(dim, s.Notes))
		}
	}
	if len(sets) == 0 {
		fmt.Println("  No sets logged.")
	}
	fmt.Println()
	return nil
}
