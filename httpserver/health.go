package httpserver

import (
	"net/http"

	"github.com/mtlminiapps/runner/core/logger"
)

// handleHealth reports liveness and database readiness.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.log.WarnContext(r.Context(), "readiness check failed", logger.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
