package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Behrad-Mahdavi/NexusOs/internal/auth"
	"github.com/Behrad-Mahdavi/NexusOs/internal/timer"
	"github.com/Behrad-Mahdavi/NexusOs/internal/tracker"
)

// Response helpers

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, &apiError{Code: code, Message: message}, nil)
}

func writeError(w http.ResponseWriter, status int, apiErr *apiError, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Data:    data,
		Error:   apiErr,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondServiceError maps service errors onto status codes. Anything
// unrecognised is logged and reported as an internal error without detail.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var vErr *tracker.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusUnprocessableEntity, &apiError{
			Code:    "validation_error",
			Message: vErr.Error(),
			Fields:  vErr.FieldErrors,
		}, nil)
	case errors.Is(err, tracker.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "record not found")
	case errors.Is(err, tracker.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		respondError(w, http.StatusUnauthorized, "unauthorized", "no active session")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, auth.ErrInvalidEmail):
		writeError(w, http.StatusUnprocessableEntity, &apiError{
			Code:    "validation_error",
			Message: err.Error(),
			Fields:  map[string]string{"email": err.Error()},
		}, nil)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrPasswordTooLong):
		writeError(w, http.StatusUnprocessableEntity, &apiError{
			Code:    "validation_error",
			Message: err.Error(),
			Fields:  map[string]string{"password": err.Error()},
		}, nil)
	case errors.Is(err, tracker.ErrConflict), errors.Is(err, auth.ErrUserExists):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, timer.ErrNotRunning),
		errors.Is(err, timer.ErrNotPaused),
		errors.Is(err, timer.ErrAlreadyActive),
		errors.Is(err, timer.ErrIdle):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	default:
		slog.Error("failed to "+action, "error", err, "request_id", requestID(r))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to "+action)
	}
}

// decodeJSON reads the request body into v, answering 400 on malformed input
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ready, checks := s.registry.Ready(r.Context())
	if !ready {
		writeError(w, http.StatusServiceUnavailable, &apiError{
			Code:    "not_ready",
			Message: "service not ready",
		}, checks)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": checks,
	})
}
