package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wabbazzar/shredly2-sub003/internal/exercises"
	"github.com/wabbazzar/shredly2-sub003/internal/program"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetSessionState = mcp.NewTool("get_session_state",
	mcp.WithDescription("Get the current timer state: phase, remaining seconds, set and minute counters, and the loaded exercise type."),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("Browse the exercise catalog with optional filters."),
	mcp.WithString("category", mcp.Description("Filter by category (e.g. strength, cardio, mobility, flexibility)")),
	mcp.WithString("equipment", mcp.Description("Filter by required equipment (e.g. barbell, dumbbell)")),
	mcp.WithString("muscle_group", mcp.Description("Filter by muscle group (e.g. chest, quads)")),
)

var toolGenerateWorkout = mcp.NewTool("generate_workout",
	mcp.WithDescription("Generate a workout from a template. The template is a JSON object with a name and a list of blocks; each block has a type (strength, bodyweight, emom, amrap, circuit, interval), a count, and an optional filter."),
	mcp.WithString("template", mcp.Required(), mcp.Description("Template JSON")),
)

var toolGetSchedule = mcp.NewTool("get_schedule",
	mcp.WithDescription("Query scheduled workouts in a date range."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetWorkoutLogs = mcp.NewTool("get_workout_logs",
	mcp.WithDescription("Query completed exercise sessions in a date range."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetSetLogs = mcp.NewTool("get_set_logs",
	mcp.WithDescription("Get the sets logged during one session, with reps, weight, and RPE."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID from get_workout_logs")),
)

// --- Tool handlers ---

func (h *handlers) getSessionState(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(map[string]any{
		"session_id": h.session.SessionID(),
		"state":      h.session.Engine().State(),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := exercises.Filter{
		Category:    req.GetString("category", ""),
		Equipment:   req.GetString("equipment", ""),
		MuscleGroup: req.GetString("muscle_group", ""),
	}
	result, err := mcp.NewToolResultJSON(h.exercises.Select(filter))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) generateWorkout(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("template")
	if err != nil {
		return mcp.NewToolResultError("template parameter is required"), nil
	}

	var tmpl program.Template
	if err := json.Unmarshal([]byte(raw), &tmpl); err != nil {
		return mcp.NewToolResultError("invalid template JSON: " + err.Error()), nil
	}

	list, err := h.generator.Generate(tmpl)
	if err != nil {
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(list)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	rows, err := h.ds.QuerySchedule(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_schedule", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	rows, err := h.ds.QuerySessionLogs(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_workout_logs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSetLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid session_id: " + err.Error()), nil
	}

	rows, err := h.ds.QuerySetLogs(ctx, id)
	if err != nil {
		h.log.Error("mcp get_set_logs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
