package handler

import "net/http"

// handleHealth reports liveness plus the number of requests currently being
// served.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.inflight != nil {
		body["inflight"] = s.inflight.Active()
	}
	s.writeJSON(w, http.StatusOK, body)
}
