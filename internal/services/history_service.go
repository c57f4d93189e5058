package services

import (
	"context"

	"github.com/mfigueira/preptrack/internal/errors"
	"github.com/mfigueira/preptrack/internal/logger"
	"github.com/mfigueira/preptrack/internal/models"
	"github.com/mfigueira/preptrack/internal/repository"
)

// HistoryService exposes the archive of submitted attempts
type HistoryService interface {
	GetHistory(ctx context.Context, filter models.HistoryFilter) ([]models.AttemptResult, error)
	ClearHistory(ctx context.Context) error
}

type historyService struct {
	repo repository.HistoryRepository
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(repo repository.HistoryRepository) HistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) GetHistory(ctx context.Context, filter models.HistoryFilter) ([]models.AttemptResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("loading history: interview_id=%s", filter.InterviewID)

	results, err := s.repo.LoadAll(ctx, filter)
	if err != nil {
		log.Error("failed to load history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return results, nil
}

func (s *historyService) ClearHistory(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("clearing attempt history")

	if err := s.repo.Clear(ctx); err != nil {
		log.Error("failed to clear history: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
