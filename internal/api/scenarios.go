package api

import "net/http"

func (s *Server) handleListScenarios(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.List())
}
