// Package server exposes the HTTP API: exercise catalog, workout
// generation, scheduling, history, and live session control.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wabbazzar/shredly2-sub003/internal/exercises"
	"github.com/wabbazzar/shredly2-sub003/internal/models"
	"github.com/wabbazzar/shredly2-sub003/internal/program"
	"github.com/wabbazzar/shredly2-sub003/internal/session"
	"github.com/wabbazzar/shredly2-sub003/internal/ws"
)

// Store is the persistence surface the handlers read and write.
type Store interface {
	InsertScheduledWorkout(ctx context.Context, row models.ScheduledWorkoutRow) error
	GetScheduledWorkout(ctx context.Context, id uuid.UUID) (models.ScheduledWorkoutRow, []byte, error)
	QuerySchedule(ctx context.Context, start, end time.Time) ([]models.ScheduledWorkoutRow, error)
	UpdateWorkoutStatus(ctx context.Context, id uuid.UUID, status string) error
	QuerySessionLogs(ctx context.Context, start, end time.Time) ([]models.SessionLogRow, error)
	QuerySetLogs(ctx context.Context, sessionID uuid.UUID) ([]models.SetLogRow, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     Store
	session   *session.Manager
	exercises *exercises.Database
	generator *program.Generator
	hub       *ws.Hub
	validate  *validator.Validate
	log       *slog.Logger
	apiKey    string
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, sm *session.Manager, db *exercises.Database, gen *program.Generator, hub *ws.Hub, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:     store,
		session:   sm,
		exercises: db,
		generator: gen,
		hub:       hub,
		validate:  validator.New(),
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// Mount attaches an extra handler subtree, such as the MCP transport.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/health", s.handleHealth)

	// Catalog and history (no auth, tsnet handles access)
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/{id}", s.handleGetExercise)
	s.router.Get("/api/v1/schedule", s.handleQuerySchedule)
	s.router.Get("/api/v1/schedule/{id}", s.handleGetScheduledWorkout)
	s.router.Get("/api/v1/logs", s.handleQuerySessionLogs)
	s.router.Get("/api/v1/logs/{id}/sets", s.handleQuerySetLogs)

	// Session state is readable without auth so displays can follow along.
	s.router.Get("/api/v1/session/state", s.handleSessionState)
	s.router.Get("/api/v1/session/config", s.handleSessionConfig)
	if s.hub != nil {
		s.router.Handle("/api/v1/session/events", s.hub.Handler())
	}

	// Mutations require the API key.
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/generate", s.handleGenerate)
		r.Post("/api/v1/schedule", s.handleScheduleWorkout)
		r.Post("/api/v1/schedule/{id}/status", s.handleUpdateWorkoutStatus)

		r.Post("/api/v1/session/initialize", s.handleSessionInitialize)
		r.Post("/api/v1/session/start", s.sessionControl(func() { s.session.Engine().Start() }))
		r.Post("/api/v1/session/pause", s.sessionControl(func() { s.session.Engine().Pause() }))
		r.Post("/api/v1/session/resume", s.sessionControl(func() { s.session.Engine().Resume() }))
		r.Post("/api/v1/session/skip", s.sessionControl(func() { s.session.Engine().Skip() }))
		r.Post("/api/v1/session/stop", s.sessionControl(func() { s.session.Engine().Stop() }))
		r.Post("/api/v1/session/entry", s.sessionControl(func() { s.session.Engine().EnterDataEntry() }))
		r.Post("/api/v1/session/log", s.handleLogSet)
		r.Post("/api/v1/session/audio", s.handleSetAudio)
	})
}
