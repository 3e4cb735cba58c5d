package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.tracker.ListCourses(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err, "list courses")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"courses": courses,
		"total":   len(courses),
	})
}

func (s *Server) handleSaveCourse(w http.ResponseWriter, r *http.Request) {
	var course models.Course
	if !decodeJSON(w, r, &course) {
		return
	}

	saved, err := s.tracker.SaveCourse(r.Context(), userID(r), course)
	if err != nil {
		respondServiceError(w, r, err, "save course")
		return
	}

	respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteCourse(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err, "delete course")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "course deleted",
	})
}

func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := s.tracker.ListAssignments(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err, "list assignments")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"assignments": assignments,
		"total":       len(assignments),
	})
}

func (s *Server) handleSaveAssignment(w http.ResponseWriter, r *http.Request) {
	var assignment models.Assignment
	if !decodeJSON(w, r, &assignment) {
		return
	}

	saved, err := s.tracker.SaveAssignment(r.Context(), userID(r), assignment)
	if err != nil {
		respondServiceError(w, r, err, "save assignment")
		return
	}

	respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleToggleAssignment(w http.ResponseWriter, r *http.Request) {
	assignment, err := s.tracker.ToggleAssignment(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "toggle assignment")
		return
	}

	respondJSON(w, http.StatusOK, assignment)
}

func (s *Server) handleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteAssignment(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err, "delete assignment")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "assignment deleted",
	})
}
