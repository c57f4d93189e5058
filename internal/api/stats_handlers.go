package api

import (
	"net/http"

	"github.com/mfigueira/preptrack/internal/models"
)

func (s *Server) handleTopicStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.StatsService.TopicStats(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if stats == nil {
		stats = []models.TopicStats{}
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleInterviewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.StatsService.InterviewStats(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if stats == nil {
		stats = []models.InterviewStats{}
	}
	respondJSON(w, http.StatusOK, stats)
}
