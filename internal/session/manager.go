// Package session coordinates one live workout session: it owns the
// timer engine, journals its events locally, persists logs to the
// store, and fans events out to observers.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wabbazzar/shredly2-sub003/internal/models"
	"github.com/wabbazzar/shredly2-sub003/internal/timer"
)

// Store is the subset of the persistence layer the manager writes to.
type Store interface {
	InsertSessionLog(ctx context.Context, row models.SessionLogRow) error
	InsertSetLog(ctx context.Context, row models.SetLogRow) error
}

// Broadcaster receives every timer event for fan-out to live clients.
type Broadcaster interface {
	BroadcastEvent(ev timer.Event)
}

// SetEntry is the data captured during one data-entry phase.
type SetEntry struct {
	Reps   int      `json:"reps" validate:"gte=0,lte=500"`
	Weight *float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
	RPE    *int     `json:"rpe,omitempty" validate:"omitempty,gte=1,lte=10"`
	Notes  string   `json:"notes,omitempty" validate:"max=500"`
}

// Manager drives a single workout session at a time. All methods are
// safe for concurrent use.
type Manager struct {
	engine  *timer.Engine
	store   Store
	journal *Journal
	bcast   Broadcaster
	logger  *slog.Logger

	mu        sync.Mutex
	sessionID uuid.UUID
	workoutID *uuid.UUID
	exercise  *models.LiveExercise
	startedAt time.Time
	setsDone  int

	unsubscribe func()
}

// NewManager wires a manager around the engine. journal and bcast may
// be nil; persistence to the store is skipped when store is nil (used
// in tests).
func NewManager(engine *timer.Engine, store Store, journal *Journal, bcast Broadcaster, logger *slog.Logger) *Manager {
	m := &Manager{
		engine:  engine,
		store:   store,
		journal: journal,
		bcast:   bcast,
		logger:  logger,
	}
	m.unsubscribe = engine.Subscribe(m.onEvent)
	return m
}

// Close detaches the manager from the engine.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Engine exposes the underlying timer engine for direct control.
func (m *Manager) Engine() *timer.Engine { return m.engine }

// SessionID returns the ID of the current session, or uuid.Nil when no
// exercise is loaded.
func (m *Manager) SessionID() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Initialize loads an exercise into the engine and opens a new session.
func (m *Manager) Initialize(ex *models.LiveExercise, workoutID *uuid.UUID) error {
	if ex == nil {
		return fmt.Errorf("initialize: nil exercise")
	}
	if !ex.Type.Valid() {
		return fmt.Errorf("initialize: unknown exercise type %q", ex.Type)
	}

	m.mu.Lock()
	m.sessionID = uuid.New()
	m.workoutID = workoutID
	m.exercise = ex
	m.startedAt = time.Now()
	m.setsDone = 0
	m.mu.Unlock()

	m.engine.InitializeForExercise(ex)
	m.logger.Info("session initialized",
		"session_id", m.SessionID(),
		"exercise", ex.Name,
		"type", ex.Type)
	return nil
}

// LogSet records the user's data entry for the just-finished set and
// releases the timer from the entry phase.
func (m *Manager) LogSet(ctx context.Context, entry SetEntry) error {
	m.mu.Lock()
	sid := m.sessionID
	m.mu.Unlock()

	if sid == uuid.Nil {
		return fmt.Errorf("log set: no active session")
	}
	state := m.engine.State()
	if state.Phase != timer.PhaseEntry {
		return fmt.Errorf("log set: timer is in %s, not data entry", state.Phase)
	}

	if m.store != nil {
		row := models.SetLogRow{
			ID:        uuid.New(),
			SessionID: sid,
			SetNumber: state.CurrentSet,
			Reps:      entry.Reps,
			Weight:    entry.Weight,
			RPE:       entry.RPE,
			Notes:     entry.Notes,
			LoggedAt:  time.Now(),
		}
		if err := m.store.InsertSetLog(ctx, row); err != nil {
			return fmt.Errorf("persisting set log: %w", err)
		}
	}

	m.mu.Lock()
	m.setsDone++
	m.mu.Unlock()

	m.engine.ExitDataEntry()
	return nil
}

// onEvent runs synchronously on every engine event. It must not call
// back into the engine.
func (m *Manager) onEvent(ev timer.Event) {
	m.mu.Lock()
	sid := m.sessionID
	m.mu.Unlock()
	if sid == uuid.Nil {
		return
	}

	if m.journal != nil {
		if err := m.journal.Record(sid, ev); err != nil {
			m.logger.Warn("journal write failed", "error", err)
		}
	}
	if m.bcast != nil {
		m.bcast.BroadcastEvent(ev)
	}
	if ev.Type == timer.EventExerciseComplete {
		m.finishSession()
	}
}

// finishSession persists the session summary row once the exercise
// completes. Runs off the event path so a slow database cannot stall
// the engine's dispatch loop.
func (m *Manager) finishSession() {
	m.mu.Lock()
	row := models.SessionLogRow{
		ID:        m.sessionID,
		WorkoutID: m.workoutID,
		StartedAt: m.startedAt,
		SetsDone:  m.setsDone,
	}
	if m.exercise != nil {
		row.ExerciseID = m.exercise.ExerciseID
		row.ExerciseName = m.exercise.Name
		row.ExerciseType = m.exercise.Type
		row.TotalSets = m.engine.State().TotalSets
	}
	m.mu.Unlock()

	now := time.Now()
	row.CompletedAt = &now

	if m.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.store.InsertSessionLog(ctx, row); err != nil {
			m.logger.Error("persisting session log failed", "error", err, "session_id", row.ID)
			return
		}
		m.logger.Info("session complete", "session_id", row.ID, "sets", row.SetsDone)
	}()
}
