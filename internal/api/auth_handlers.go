package api

import (
	"net/http"

	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.auth.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err, "sign up")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err, "sign in")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "no active session")
		return
	}

	if err := s.auth.SignOut(r.Context(), claims); err != nil {
		respondServiceError(w, r, err, "sign out")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "signed out",
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "no active session")
		return
	}

	user, err := s.auth.User(r.Context(), claims.UserID())
	if err != nil {
		respondServiceError(w, r, err, "load session")
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "user no longer exists")
		return
	}

	resp := map[string]interface{}{
		"user": user,
	}
	if claims.ExpiresAt != nil {
		resp["expires_at"] = claims.ExpiresAt.Time
	}
	respondJSON(w, http.StatusOK, resp)
}
