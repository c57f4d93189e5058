package api

import (
	"net/http"
	"strconv"

	"github.com/mfigueira/preptrack/internal/errors"
	"github.com/mfigueira/preptrack/internal/models"
)

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	filter := models.HistoryFilter{
		InterviewID: r.URL.Query().Get("interview"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(w, r, errors.NewValidationError("limit", "must be a non-negative integer"))
			return
		}
		filter.Limit = limit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			respondError(w, r, errors.NewValidationError("offset", "must be a non-negative integer"))
			return
		}
		filter.Offset = offset
	}

	results, err := s.HistoryService.GetHistory(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if results == nil {
		results = []models.AttemptResult{}
	}
	respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.HistoryService.ClearHistory(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
