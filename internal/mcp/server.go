// Package mcp exposes the workout engine to language-model assistants
// over the Model Context Protocol.
package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wabbazzar/shredly2-sub003/internal/exercises"
	"github.com/wabbazzar/shredly2-sub003/internal/models"
	"github.com/wabbazzar/shredly2-sub003/internal/program"
	"github.com/wabbazzar/shredly2-sub003/internal/session"
)

// DataSource abstracts the persistence layer for MCP tools.
type DataSource interface {
	QuerySchedule(ctx context.Context, start, end time.Time) ([]models.ScheduledWorkoutRow, error)
	QuerySessionLogs(ctx context.Context, start, end time.Time) ([]models.SessionLogRow, error)
	QuerySetLogs(ctx context.Context, sessionID uuid.UUID) ([]models.SetLogRow, error)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, sm *session.Manager, db *exercises.Database, gen *program.Generator, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Shredly", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Shredly workout timer server. Inspect the live session, browse the exercise catalog, generate workouts, and query training history."),
	)

	h := &handlers{ds: ds, session: sm, exercises: db, generator: gen, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetSessionState, Handler: h.getSessionState},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGenerateWorkout, Handler: h.generateWorkout},
		server.ServerTool{Tool: toolGetSchedule, Handler: h.getSchedule},
		server.ServerTool{Tool: toolGetWorkoutLogs, Handler: h.getWorkoutLogs},
		server.ServerTool{Tool: toolGetSetLogs, Handler: h.getSetLogs},
	)

	s.AddResources(
		server.ServerResource{Resource: resCurrentSession, Handler: h.currentSession},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds        DataSource
	session   *session.Manager
	exercises *exercises.Database
	generator *program.Generator
	log       *slog.Logger
}
