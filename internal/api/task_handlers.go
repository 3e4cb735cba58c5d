package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
	"github.com/Behrad-Mahdavi/NexusOs/internal/tracker"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filters := models.TaskFilters{
		Context: models.TaskContext(r.URL.Query().Get("context")),
		Status:  models.TaskStatus(r.URL.Query().Get("status")),
		Type:    models.TaskType(r.URL.Query().Get("type")),
	}

	tasks, err := s.tracker.ListTasks(r.Context(), userID(r), filters)
	if err != nil {
		respondServiceError(w, r, err, "list tasks")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"total": len(tasks),
	})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tracker.GetTask(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "get task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// handleSaveTask upserts a task; on PUT /tasks/{id} the path id wins
func (s *Server) handleSaveTask(w http.ResponseWriter, r *http.Request) {
	var task models.Task
	if !decodeJSON(w, r, &task) {
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		task.ID = id
	}

	saved, err := s.tracker.SaveTask(r.Context(), userID(r), task)
	if err != nil {
		respondServiceError(w, r, err, "save task")
		return
	}

	respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteTask(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err, "delete task")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "task deleted",
	})
}

func (s *Server) handleSetTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req models.StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := s.tracker.SetTaskStatus(r.Context(), userID(r), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondServiceError(w, r, err, "update task status")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	var req models.ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "current_page" {
			respondServiceError(w, r, progressFieldError("must be a whole number"), "save reading progress")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CurrentPage == nil {
		respondServiceError(w, r, progressFieldError("is required"), "save reading progress")
		return
	}

	resp, err := s.tracker.SaveReadingProgress(r.Context(), userID(r), chi.URLParam(r, "id"), *req.CurrentPage)
	if err != nil {
		respondServiceError(w, r, err, "save reading progress")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func progressFieldError(msg string) error {
	return &tracker.ValidationError{FieldErrors: map[string]string{"current_page": msg}}
}

func (s *Server) handleReadingProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.tracker.ReadingProgress(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "get reading progress")
		return
	}

	respondJSON(w, http.StatusOK, progress)
}

func (s *Server) handleReadingToday(w http.ResponseWriter, r *http.Request) {
	totals, err := s.tracker.ReadingToday(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err, "get reading totals")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"totals": totals,
	})
}
