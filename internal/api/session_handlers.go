package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mfigueira/preptrack/internal/errors"
	"github.com/mfigueira/preptrack/internal/models"
)

type startSessionRequest struct {
	InterviewID string `json:"interview_id"`
}

type answerRequest struct {
	QuestionID string        `json:"question_id"`
	Answer     models.Answer `json:"answer"`
}

type navigateRequest struct {
	Index int `json:"index"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.InterviewID == "" {
		respondError(w, r, errors.NewValidationError("interview_id", "must not be empty"))
		return
	}

	session, err := s.SessionService.StartSession(r.Context(), req.InterviewID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := s.SessionService.GetSession(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.QuestionID == "" {
		respondError(w, r, errors.NewValidationError("question_id", "must not be empty"))
		return
	}

	session, err := s.SessionService.Answer(r.Context(), id, req.QuestionID, req.Answer)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req navigateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	session, err := s.SessionService.Navigate(r.Context(), id, req.Index)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := s.SessionService.Submit(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var feedback models.Feedback
	if err := decodeJSON(r, &feedback); err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.SessionService.AttachFeedback(r.Context(), id, feedback); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": id})
}
