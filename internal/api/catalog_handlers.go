package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mfigueira/preptrack/internal/errors"
	"github.com/mfigueira/preptrack/internal/logger"
	"github.com/mfigueira/preptrack/internal/models"
)

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	interviews, err := s.CatalogService.ListInterviews(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if interviews == nil {
		interviews = []models.InterviewSummary{}
	}
	respondJSON(w, http.StatusOK, interviews)
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	interview, err := s.CatalogService.GetInterview(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, interview)
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var interview models.Interview
	if err := decodeJSON(r, &interview); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.CatalogService.CreateInterview(r.Context(), interview)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var interview models.Interview
	if err := decodeJSON(r, &interview); err != nil {
		respondError(w, r, err)
		return
	}
	if interview.ID != "" && interview.ID != id {
		respondError(w, r, errors.NewBadRequestError("body id does not match URL"))
		return
	}
	interview.ID = id

	if err := s.CatalogService.UpdateInterview(r.Context(), interview); err != nil {
		respondError(w, r, err)
		return
	}

	log := logger.FromContext(r.Context())
	log.Debug("interview updated via API: id=%s", id)
	respondJSON(w, http.StatusOK, map[string]string{"id": id})
}
