package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Behrad-Mahdavi/NexusOs/internal/dashboard"
	"github.com/Behrad-Mahdavi/NexusOs/internal/models"
)

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	graph, err := s.tracker.Graph(r.Context(), userID(r))
	if err != nil {
		respondServiceError(w, r, err, "get graph")
		return
	}

	respondJSON(w, http.StatusOK, graph)
}

func (s *Server) handleGraphLayout(w http.ResponseWriter, r *http.Request) {
	layout := dashboard.CircleLayout{}
	if radiusStr := r.URL.Query().Get("radius"); radiusStr != "" {
		if radius, err := strconv.ParseFloat(radiusStr, 64); err == nil && radius > 0 {
			layout.Radius = radius
		}
	}

	positions, err := s.tracker.Layout(r.Context(), userID(r), layout)
	if err != nil {
		respondServiceError(w, r, err, "lay out graph")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"positions": positions,
	})
}

func (s *Server) handleSaveNode(w http.ResponseWriter, r *http.Request) {
	var req models.SaveNodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	node, err := s.tracker.SaveNode(r.Context(), userID(r), req)
	if err != nil {
		respondServiceError(w, r, err, "save node")
		return
	}

	respondJSON(w, http.StatusOK, node)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteNode(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, err, "delete node")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "node deleted",
	})
}
