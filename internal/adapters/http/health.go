package http

import "net/http"

type healthDTO struct {
	Status string `json:"status"`
}

// handleHealth is an unauthenticated liveness probe: reachability of the
// HTTP listener itself, not a deep dependency check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "ok", healthDTO{Status: "healthy"})
}
