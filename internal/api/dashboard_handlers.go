package api

import "net/http"

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.tracker.Overview(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err, "build dashboard")
		return
	}
	respondJSON(w, http.StatusOK, overview)
}

func (s *Server) handleFinance(w http.ResponseWriter, r *http.Request) {
	finance, err := s.tracker.Finance(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err, "build finance view")
		return
	}
	respondJSON(w, http.StatusOK, finance)
}

func (s *Server) handleUniversity(w http.ResponseWriter, r *http.Request) {
	university, err := s.tracker.University(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err, "build university view")
		return
	}
	respondJSON(w, http.StatusOK, university)
}

func (s *Server) handleFocusStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tracker.FocusStats(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err, "build focus stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
