package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
	"github.com/Behrad-Mahdavi/NexusOs/internal/timer"
	"github.com/Behrad-Mahdavi/NexusOs/internal/tracker"
)

// timerStartRequest starts a countdown; zero minutes uses the default
type timerStartRequest struct {
	DurationMinutes int    `json:"duration_minutes"`
	TaskID          string `json:"task_id,omitempty"`
}

type timerCompleteResponse struct {
	Timer   timer.View           `json:"timer"`
	Session *models.FocusSession `json:"session"`
}

func (s *Server) handleGetTimer(w http.ResponseWriter, r *http.Request) {
	st, err := s.timer.Get(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err, "get timer")
		return
	}
	respondJSON(w, http.StatusOK, st.ViewAt(s.timer.Now()))
}

func (s *Server) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	var req timerStartRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.DurationMinutes < 0 || req.DurationMinutes > 24*60 {
		respondServiceError(w, r, &tracker.ValidationError{FieldErrors: map[string]string{
			"duration_minutes": "must be between 1 and 1440",
		}}, "start timer")
		return
	}

	st, err := s.timer.Start(r.Context(), userID(r), time.Duration(req.DurationMinutes)*time.Minute, req.TaskID)
	if err != nil {
		respondServiceError(w, r, err, "start timer")
		return
	}
	respondJSON(w, http.StatusOK, st.ViewAt(s.timer.Now()))
}

func (s *Server) handlePauseTimer(w http.ResponseWriter, r *http.Request) {
	s.timerTransition(w, r, "pause timer", s.timer.Pause)
}

func (s *Server) handleResumeTimer(w http.ResponseWriter, r *http.Request) {
	s.timerTransition(w, r, "resume timer", s.timer.Resume)
}

func (s *Server) handleResetTimer(w http.ResponseWriter, r *http.Request) {
	s.timerTransition(w, r, "reset timer", s.timer.Reset)
}

func (s *Server) handleCompleteTimer(w http.ResponseWriter, r *http.Request) {
	st, session, err := s.timer.Complete(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err, "complete timer")
		return
	}
	respondJSON(w, http.StatusOK, timerCompleteResponse{
		Timer:   st.ViewAt(s.timer.Now()),
		Session: session,
	})
}

func (s *Server) timerTransition(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, userID string) (timer.State, error)) {
	st, err := fn(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err, action)
		return
	}
	respondJSON(w, http.StatusOK, st.ViewAt(s.timer.Now()))
}

// decodeBody decodes an optional JSON body; an empty body leaves v untouched
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
