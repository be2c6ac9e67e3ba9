package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"

	"github.com/wabbazzar/shredly2-sub003/internal/exercises"
	"github.com/wabbazzar/shredly2-sub003/internal/models"
	"github.com/wabbazzar/shredly2-sub003/internal/program"
	"github.com/wabbazzar/shredly2-sub003/internal/session"
	"github.com/wabbazzar/shredly2-sub003/internal/storage"
	"github.com/wabbazzar/shredly2-sub003/internal/timer"
)

const testAPIKey = "test-key"

const testDB = `{
  "exercise_database": {
    "categories": {
      "strength": {
        "exercises": [
          {"id": "squat", "name": "Squat", "equipment": ["barbell"], "muscle_groups": ["quads"], "default_sets": 2, "default_reps": 5, "rest_seconds": 60},
          {"id": "push-up", "name": "Push-Up", "equipment": [], "muscle_groups": ["chest"], "default_sets": 3, "default_reps": 12}
        ]
      }
    }
  }
}`

type fakeStore struct {
	scheduled   map[uuid.UUID]models.ScheduledWorkoutRow
	sessionLogs []models.SessionLogRow
	setLogs     []models.SetLogRow
}

func newFakeStore() *fakeStore {
	return &fakeStore{scheduled: make(map[uuid.UUID]models.ScheduledWorkoutRow)}
}

func (s *fakeStore) InsertScheduledWorkout(_ context.Context, row models.ScheduledWorkoutRow) error {
	s.scheduled[row.ID] = row
	return nil
}

func (s *fakeStore) GetScheduledWorkout(_ context.Context, id uuid.UUID) (models.ScheduledWorkoutRow, []byte, error) {
	row, ok := s.scheduled[id]
	if !ok {
		return row, nil, storage.ErrNotFound
	}
	return row, row.RawJSON, nil
}

func (s *fakeStore) QuerySchedule(_ context.Context, start, end time.Time) ([]models.ScheduledWorkoutRow, error) {
	var out []models.ScheduledWorkoutRow
	for _, row := range s.scheduled {
		if !row.Date.Before(start) && row.Date.Before(end) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateWorkoutStatus(_ context.Context, id uuid.UUID, status string) error {
	row, ok := s.scheduled[id]
	if !ok {
		return storage.ErrNotFound
	}
	row.Status = status
	s.scheduled[id] = row
	return nil
}

func (s *fakeStore) QuerySessionLogs(_ context.Context, _, _ time.Time) ([]models.SessionLogRow, error) {
	return s.sessionLogs, nil
}

func (s *fakeStore) QuerySetLogs(_ context.Context, _ uuid.UUID) ([]models.SetLogRow, error) {
	return s.setLogs, nil
}

func (s *fakeStore) InsertSessionLog(_ context.Context, row models.SessionLogRow) error {
	s.sessionLogs = append(s.sessionLogs, row)
	return nil
}

func (s *fakeStore) InsertSetLog(_ context.Context, row models.SetLogRow) error {
	s.setLogs = append(s.setLogs, row)
	return nil
}

func newTestServer(t *testing.T) (*Server, *fakeStore) {
	t.Helper()

	fsys := fstest.MapFS{"exercises.json": {Data: []byte(testDB)}}
	db, err := exercises.Load(fsys, "exercises.json")
	if err != nil {
		t.Fatalf("load exercises: %v", err)
	}

	store := newFakeStore()
	engine := timer.New(timer.Options{TickInterval: time.Hour})
	t.Cleanup(engine.Stop)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sm := session.NewManager(engine, store, nil, nil, logger)
	t.Cleanup(sm.Close)

	s := New(store, sm, db, program.NewGenerator(db), nil, testAPIKey, logger)
	return s, store
}

func doJSON(t *testing.T, s *Server, method, path string, body any, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if auth {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestHealth verifies the unauthenticated health check.
func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/v1/health", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
}

// TestListExercises verifies catalog listing and filtering.
func TestListExercises(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/exercises?equipment=barbell", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Exercises []exercises.Exercise `json:"exercises"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Exercises) != 1 || resp.Exercises[0].ID != "squat" {
		t.Errorf("exercises = %+v, want [squat]", resp.Exercises)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/exercises/nope", nil, false)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown exercise status = %d, want 404", rec.Code)
	}
}

// TestAPIKeyRequired verifies mutations are rejected without the key.
func TestAPIKeyRequired(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/session/start", nil, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/start", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec2 := httptest.NewRecorder()
	s.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec2.Code)
	}
}

// TestGenerate verifies template expansion over HTTP.
func TestGenerate(t *testing.T) {
	s, _ := newTestServer(t)

	tmpl := program.Template{
		Name: "upper",
		Blocks: []program.BlockSpec{
			{Type: models.TypeStrength, Count: 2, Filter: exercises.Filter{Category: "strength"}},
		},
	}
	rec := doJSON(t, s, http.MethodPost, "/api/v1/generate", tmpl, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Exercises []models.LiveExercise `json:"exercises"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Exercises) != 2 {
		t.Errorf("exercises = %d, want 2", len(resp.Exercises))
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/generate", program.Template{Name: "empty"}, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty template status = %d, want 400", rec.Code)
	}
}

// TestScheduleLifecycle posts a workout, reads it back, and moves its
// status.
func TestScheduleLifecycle(t *testing.T) {
	s, store := newTestServer(t)

	body := map[string]any{
		"date": "2026-08-28",
		"template": program.Template{
			Name: "leg day",
			Blocks: []program.BlockSpec{
				{Type: models.TypeStrength, Count: 1, Filter: exercises.Filter{Category: "strength"}},
			},
		},
	}
	rec := doJSON(t, s, http.MethodPost, "/api/v1/schedule", body, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := store.scheduled[created.ID]; !ok {
		t.Fatal("workout not stored")
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/schedule/"+created.ID.String(), nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var detail struct {
		Name      string                `json:"name"`
		Status    string                `json:"status"`
		Exercises []models.LiveExercise `json:"exercises"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.Name != "leg day" || detail.Status != models.WorkoutPlanned || len(detail.Exercises) != 1 {
		t.Errorf("detail = %+v", detail)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/schedule/"+created.ID.String()+"/status",
		map[string]string{"status": models.WorkoutCompleted}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status update = %d, body = %s", rec.Code, rec.Body.String())
	}
	if store.scheduled[created.ID].Status != models.WorkoutCompleted {
		t.Errorf("stored status = %q, want completed", store.scheduled[created.ID].Status)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/schedule/"+uuid.NewString()+"/status",
		map[string]string{"status": models.WorkoutSkipped}, true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown workout status = %d, want 404", rec.Code)
	}
}

// TestSessionFlow drives a full session through the HTTP surface:
// initialize from a scheduled workout, start, enter data entry, log.
func TestSessionFlow(t *testing.T) {
	s, store := newTestServer(t)

	// Seed a scheduled workout with one strength exercise.
	ex := models.LiveExercise{
		ID:         uuid.New(),
		ExerciseID: "squat",
		Name:       "Squat",
		Type:       models.TypeStrength,
		Prescription: models.Prescription{
			Sets: 2, Reps: 5, RestSeconds: 60,
		},
	}
	raw, _ := json.Marshal([]models.LiveExercise{ex})
	wid := uuid.New()
	store.scheduled[wid] = models.ScheduledWorkoutRow{
		ID: wid, Date: time.Now(), Name: "leg day",
		Status: models.WorkoutPlanned, RawJSON: raw,
	}

	rec := doJSON(t, s, http.MethodPost, "/api/v1/session/initialize",
		map[string]any{"workout_id": wid, "index": 0}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("initialize = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/session/state", nil, false)
	var snap struct {
		State timer.State `json:"state"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if snap.State.Phase != timer.PhaseIdle || snap.State.TotalSets != 2 {
		t.Fatalf("state after initialize = %+v", snap.State)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/start", nil, true)
	var state timer.State
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Phase != timer.PhaseWork {
		t.Fatalf("phase after start = %q, want work", state.Phase)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/entry", nil, true)
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Phase != timer.PhaseEntry {
		t.Fatalf("phase after entry = %q, want entry", state.Phase)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/log",
		map[string]any{"reps": 5}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("log = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(store.setLogs) != 1 || store.setLogs[0].Reps != 5 {
		t.Errorf("set logs = %+v", store.setLogs)
	}
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// First of two sets: exiting entry moves into rest.
	if state.Phase != timer.PhaseRest {
		t.Errorf("phase after log = %q, want rest", state.Phase)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/log",
		map[string]any{"reps": 5}, true)
	if rec.Code != http.StatusConflict {
		t.Errorf("log outside entry = %d, want 409", rec.Code)
	}
}

// TestInitializeValidation covers the request guards.
func TestInitializeValidation(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/session/initialize",
		map[string]any{}, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty request = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/initialize",
		map[string]any{"workout_id": uuid.New(), "index": 0}, true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown workout = %d, want 404", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/session/initialize",
		map[string]any{"exercise": map[string]any{"name": "Yoga", "type": "yoga"}}, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad type = %d, want 400", rec.Code)
	}
}
