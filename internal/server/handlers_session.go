package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/wabbazzar/shredly2-sub003/internal/models"
	"github.com/wabbazzar/shredly2-sub003/internal/session"
)

type initializeRequest struct {
	// Either an inline exercise or a reference into a scheduled workout.
	Exercise  *models.LiveExercise `json:"exercise,omitempty"`
	WorkoutID *uuid.UUID           `json:"workout_id,omitempty"`
	Index     int                  `json:"index" validate:"gte=0"`
}

func (s *Server) handleSessionInitialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ex := req.Exercise
	if ex == nil {
		if req.WorkoutID == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise or workout_id required"})
			return
		}
		_, body, err := s.store.GetScheduledWorkout(r.Context(), *req.WorkoutID)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
			return
		}
		var list []models.LiveExercise
		if err := json.Unmarshal(body, &list); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stored workout is corrupt"})
			return
		}
		if req.Index >= len(list) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise index out of range"})
			return
		}
		ex = &list[req.Index]
	}

	if err := s.validate.Struct(ex); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.session.Initialize(ex, req.WorkoutID); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": s.session.SessionID(),
		"state":      s.session.Engine().State(),
	})
}

// sessionControl wraps a guarded engine transition. The transition
// itself never fails; the response is the state it left behind.
func (s *Server) sessionControl(fn func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn()
		writeJSON(w, http.StatusOK, s.session.Engine().State())
	}
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": s.session.SessionID(),
		"state":      s.session.Engine().State(),
	})
}

func (s *Server) handleSessionConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Engine().Config())
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	var entry session.SetEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.validate.Struct(entry); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.session.LogSet(r.Context(), entry); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.session.Engine().State())
}

type audioRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleSetAudio(w http.ResponseWriter, r *http.Request) {
	var req audioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.session.Engine().SetAudioEnabled(req.Enabled)
	writeJSON(w, http.StatusOK, s.session.Engine().State())
}
