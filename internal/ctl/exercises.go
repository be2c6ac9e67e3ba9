package ctl

import (
	"fmt"
	"net/url"
	"strings"
)

// ExercisesOptions configures the exercises command.
type ExercisesOptions struct {
	Category    string
	Equipment   string
	MuscleGroup string
	JSON        bool
}

// Exercises lists the daemon's exercise catalog.
func Exercises(baseURL string, opts ExercisesOptions) error {
	params := url.Values{}
	if opts.Category != "" {
		params.Set("category", opts.Category)
	}
	if opts.Equipment != "" {
		params.Set("equipment", opts.Equipment)
	}
	if opts.MuscleGroup != "" {
		params.Set("muscle_group", opts.MuscleGroup)
	}
	path := "/api/v1/exercises"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp struct {
		Exercises []struct {
			ID           string   `json:"id"`
			Name         string   `json:"name"`
			Category     string   `json:"category"`
			Equipment    []string `json:"equipment"`
			MuscleGroups []string `json:"muscle_groups"`
			DefaultSets  int      `json:"default_sets"`
			DefaultReps  int      `json:"default_reps"`
			WorkSeconds  int      `json:"work_seconds"`
		} `json:"exercises"`
		Categories []string `json:"categories"`
	}
	if err := getJSON(baseURL, path, &resp); err != nil {
		return err
	}
	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  EXERCISES"))
	if len(resp.Exercises) == 0 {
		fmt.Println("  No exercises match.")
		fmt.Println()
		return nil
	}
	for _, ex := range resp.Exercises {
		detail := ""
		switch {
		case ex.DefaultSets > 0:
			detail = fmt.Sprintf("%d x %d", ex.DefaultSets, ex.DefaultReps)
		case ex.WorkSeconds > 0:
			detail = formatSeconds(float64(ex.WorkSeconds))
		}
		fmt.Printf("  %-24s %-12s %-10s %s\n",
			ex.Name, colorize(dim, ex.Category), detail,
			colorize(dim, strings.Join(ex.MuscleGroups, ", ")))
	}
	fmt.Println()
	return nil
}
