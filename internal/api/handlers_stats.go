package api

import (
	"net/http"
)

func (s *Server) handleFetchStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "fetch stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"upstream": s.cfg.BaseURL,
		"stats":    s.stats.Snapshot(),
	})
}
