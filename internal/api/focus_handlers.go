package api

import (
	"net/http"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

func (s *Server) handleListFocusSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.tracker.ListFocusSessions(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err, "list focus sessions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

func (s *Server) handleRecordFocusSession(w http.ResponseWriter, r *http.Request) {
	var session models.FocusSession
	if !decodeJSON(w, r, &session) {
		return
	}

	saved, err := s.tracker.RecordFocusSession(r.Context(), userID(r), session)
	if err != nil {
		respondServiceError(w, r, err, "record focus session")
		return
	}

	respondJSON(w, http.StatusCreated, saved)
}
