package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wabbazzar/shredly2-sub003/internal/exercises"
)

// --- Resource definitions ---

var resCurrentSession = mcp.NewResource(
	"shredly://current_session",
	"Current Session",
	mcp.WithResourceDescription("Live timer state for the session in progress: phase, remaining time, set and minute counters"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"shredly://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercises in the bundled database, grouped by category"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) currentSession(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(map[string]any{
		"session_id": h.session.SessionID(),
		"state":      h.session.Engine().State(),
		"profile":    h.session.Engine().Config(),
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) exerciseCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	byCategory := make(map[string][]exercises.Exercise)
	for _, c := range h.exercises.Categories() {
		byCategory[c] = h.exercises.Select(exercises.Filter{Category: c})
	}

	data, err := json.Marshal(byCategory)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
