package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wabbazzar/shredly2-sub003/internal/models"
	"github.com/wabbazzar/shredly2-sub003/internal/timer"
)

type fakeStore struct {
	setLogs     []models.SetLogRow
	sessionLogs chan models.SessionLogRow
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessionLogs: make(chan models.SessionLogRow, 4)}
}

func (s *fakeStore) InsertSessionLog(_ context.Context, row models.SessionLogRow) error {
	s.sessionLogs <- row
	return nil
}

func (s *fakeStore) InsertSetLog(_ context.Context, row models.SetLogRow) error {
	s.setLogs = append(s.setLogs, row)
	return nil
}

type recordingBroadcaster struct {
	events []timer.Event
}

func (b *recordingBroadcaster) BroadcastEvent(ev timer.Event) {
	b.events = append(b.events, ev)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T, store Store, bcast Broadcaster) *Manager {
	t.Helper()
	engine := timer.New(timer.Options{TickInterval: time.Hour})
	t.Cleanup(engine.Stop)
	m := NewManager(engine, store, nil, bcast, testLogger())
	t.Cleanup(m.Close)
	return m
}

func pressExercise() *models.LiveExercise {
	return &models.LiveExercise{
		ID:         uuid.New(),
		ExerciseID: "bench",
		Name:       "Bench Press",
		Type:       models.TypeStrength,
		Prescription: models.Prescription{
			Sets: 1, Reps: 5, RestSeconds: 60,
		},
	}
}

// TestInitializeOpensSession verifies a fresh session ID per exercise
// and that invalid input is rejected.
func TestInitializeOpensSession(t *testing.T) {
	m := newTestManager(t, nil, nil)

	if err := m.Initialize(nil, nil); err == nil {
		t.Error("expected error for nil exercise")
	}
	if err := m.Initialize(&models.LiveExercise{Name: "x", Type: "yoga"}, nil); err == nil {
		t.Error("expected error for unknown type")
	}

	if err := m.Initialize(pressExercise(), nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	first := m.SessionID()
	if first == uuid.Nil {
		t.Fatal("session id not assigned")
	}
	if got := m.Engine().State().Phase; got != timer.PhaseIdle {
		t.Errorf("phase = %q, want idle", got)
	}

	if err := m.Initialize(pressExercise(), nil); err != nil {
		t.Fatalf("re-initialize: %v", err)
	}
	if m.SessionID() == first {
		t.Error("session id not rotated on re-initialize")
	}
}

// TestLogSetPersistsAndCompletes walks a one-set exercise through work,
// data entry, and completion, checking both persistence paths.
func TestLogSetPersistsAndCompletes(t *testing.T) {
	store := newFakeStore()
	bcast := &recordingBroadcaster{}
	m := newTestManager(t, store, bcast)

	if err := m.LogSet(context.Background(), SetEntry{Reps: 5}); err == nil {
		t.Error("expected error with no active session")
	}

	if err := m.Initialize(pressExercise(), nil); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	m.Engine().Start()
	m.Engine().EnterDataEntry()
	if got := m.Engine().State().Phase; got != timer.PhaseEntry {
		t.Fatalf("phase = %q, want entry", got)
	}

	weight := 60.5
	if err := m.LogSet(context.Background(), SetEntry{Reps: 5, Weight: &weight}); err != nil {
		t.Fatalf("log set: %v", err)
	}

	if len(store.setLogs) != 1 {
		t.Fatalf("set logs = %d, want 1", len(store.setLogs))
	}
	row := store.setLogs[0]
	if row.SessionID != m.SessionID() || row.SetNumber != 1 || row.Reps != 5 {
		t.Errorf("set log row = %+v", row)
	}
	if row.Weight == nil || *row.Weight != 60.5 {
		t.Errorf("weight = %v, want 60.5", row.Weight)
	}

	// One set of one: exiting entry completes the exercise, which
	// persists the session summary asynchronously.
	if got := m.Engine().State().Phase; got != timer.PhaseComplete {
		t.Errorf("phase = %q, want complete", got)
	}
	select {
	case session := <-store.sessionLogs:
		if session.ID != m.SessionID() {
			t.Errorf("session id = %v, want %v", session.ID, m.SessionID())
		}
		if session.SetsDone != 1 || session.TotalSets != 1 {
			t.Errorf("sets = %d/%d, want 1/1", session.SetsDone, session.TotalSets)
		}
		if session.ExerciseID != "bench" || session.CompletedAt == nil {
			t.Errorf("session row = %+v", session)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session log never persisted")
	}

	if len(bcast.events) == 0 {
		t.Fatal("no events broadcast")
	}
	last := bcast.events[len(bcast.events)-1]
	if last.Type != timer.EventExerciseComplete {
		t.Errorf("last event = %q, want exercise_complete", last.Type)
	}
}

// TestJournalRoundTrip records events through a real journal file and
// reads them back.
func TestJournalRoundTrip(t *testing.T) {
	j, err := OpenJournal(t.TempDir())
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer j.Close()

	sid := uuid.New()
	other := uuid.New()
	events := []timer.Event{
		{Type: timer.EventPhaseChange, State: timer.State{Phase: timer.PhaseWork, RemainingSeconds: 30}},
		{Type: timer.EventTick, State: timer.State{Phase: timer.PhaseWork, RemainingSeconds: 29.5}},
		{Type: timer.EventSetComplete, State: timer.State{Phase: timer.PhaseWork}},
	}
	for _, ev := range events {
		if err := j.Record(sid, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := j.Record(other, timer.Event{Type: timer.EventTick, State: timer.State{Phase: timer.PhaseRest}}); err != nil {
		t.Fatalf("record other: %v", err)
	}

	got, err := j.Recent(sid, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}
	// Most recent first.
	if got[0].EventType != timer.EventSetComplete {
		t.Errorf("first entry = %q, want set_complete", got[0].EventType)
	}
	if got[2].EventType != timer.EventPhaseChange || got[2].Remaining != 30 {
		t.Errorf("oldest entry = %+v", got[2])
	}
	for _, e := range got {
		if e.SessionID != sid {
			t.Errorf("foreign session leaked: %+v", e)
		}
	}

	limited, err := j.Recent(sid, 1)
	if err != nil {
		t.Fatalf("recent limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited entries = %d, want 1", len(limited))
	}
}
