package api

import (
	"net/http"

	"github.com/seantiz/asyncdemo/internal/model"
)

// listResponsesResponse is the JSON response for GET /v1/responses.
type listResponsesResponse struct {
	Responses []model.ApiResponse `json:"responses"`
	Total     int                 `json:"total"`
}

func (s *Server) handleListResponses(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListResponses(r.Context())
	if err != nil {
		s.logger.Error("list responses", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list responses")
		return
	}

	s.writeJSON(w, http.StatusOK, listResponsesResponse{
		Responses: rows,
		Total:     len(rows),
	})
}
