package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mfigueira/preptrack/internal/errors"
	"github.com/mfigueira/preptrack/internal/logger"
	"github.com/mfigueira/preptrack/internal/models"
	"github.com/mfigueira/preptrack/internal/repository"
)

// CatalogService handles interview catalog business logic
type CatalogService interface {
	ListInterviews(ctx context.Context) ([]models.InterviewSummary, error)
	GetInterview(ctx context.Context, id string) (*models.Interview, error)
	CreateInterview(ctx context.Context, interview models.Interview) (*models.Interview, error)
	UpdateInterview(ctx context.Context, interview models.Interview) error
	AddQuestions(ctx context.Context, interviewID string, questions []models.Question) (int, error)
}

type catalogService struct {
	repo repository.CatalogRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) ListInterviews(ctx context.Context) ([]models.InterviewSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing interviews")

	interviews, err := s.repo.ListInterviews(ctx)
	if err != nil {
		log.Error("failed to list interviews: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return interviews, nil
}

func (s *catalogService) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting interview: id=%s", id)

	interview, err := s.repo.GetInterview(ctx, id)
	if err != nil {
		log.Error("failed to get interview: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if interview == nil {
		return nil, errors.NewNotFoundError("interview", id)
	}
	return interview, nil
}

func (s *catalogService) CreateInterview(ctx context.Context, interview models.Interview) (*models.Interview, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating interview: title=%s", interview.Title)

	if err := validateInterview(interview); err != nil {
		return nil, err
	}
	if interview.ID == "" {
		interview.ID = uuid.NewString()
	}
	for i := range interview.Questions {
		if interview.Questions[i].ID == "" {
			interview.Questions[i].ID = uuid.NewString()
		}
	}

	if err := s.repo.InsertInterview(ctx, interview); err != nil {
		log.Error("failed to create interview: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("interview created: id=%s, title=%s, questions=%d", interview.ID, interview.Title, len(interview.Questions))
	return &interview, nil
}

func (s *catalogService) UpdateInterview(ctx context.Context, interview models.Interview) error {
	log := logger.FromContext(ctx)
	log.Debug("updating interview: id=%s", interview.ID)

	if interview.ID == "" {
		return errors.NewValidationError("id", "must not be empty")
	}
	if err := validateInterview(interview); err != nil {
		return err
	}

	existing, err := s.repo.GetInterview(ctx, interview.ID)
	if err != nil {
		log.Error("failed to check interview: %v", err)
		return errors.NewInternalError(err)
	}
	if existing == nil {
		return errors.NewNotFoundError("interview", interview.ID)
	}

	for i := range interview.Questions {
		if interview.Questions[i].ID == "" {
			interview.Questions[i].ID = uuid.NewString()
		}
	}
	if err := s.repo.UpdateInterview(ctx, interview); err != nil {
		log.Error("failed to update interview: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("interview updated: id=%s", interview.ID)
	return nil
}

func (s *catalogService) AddQuestions(ctx context.Context, interviewID string, questions []models.Question) (int, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding %d questions to interview %s", len(questions), interviewID)

	existing, err := s.repo.GetInterview(ctx, interviewID)
	if err != nil {
		log.Error("failed to check interview: %v", err)
		return 0, errors.NewInternalError(err)
	}
	if existing == nil {
		return 0, errors.NewNotFoundError("interview", interviewID)
	}

	for i := range questions {
		if err := validateQuestion(questions[i]); err != nil {
			return 0, err
		}
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
	}

	if err := s.repo.InsertQuestions(ctx, interviewID, questions); err != nil {
		log.Error("failed to insert questions: %v", err)
		return 0, errors.NewInternalError(err)
	}
	log.Info("added %d questions to interview %s", len(questions), interviewID)
	return len(questions), nil
}

func validateInterview(interview models.Interview) error {
	if strings.TrimSpace(interview.Title) == "" {
		return errors.NewValidationError("title", "must not be empty")
	}
	if interview.DurationMinutes <= 0 {
		return errors.NewValidationError("duration_minutes", "must be positive")
	}
	switch interview.Difficulty {
	case "easy", "medium", "hard":
	default:
		return errors.NewValidationError("difficulty", "must be 'easy', 'medium', or 'hard'")
	}
	for _, q := range interview.Questions {
		if err := validateQuestion(q); err != nil {
			return err
		}
	}
	return nil
}

func validateQuestion(q models.Question) error {
	if !q.Kind.Valid() {
		return errors.NewValidationError("kind", "unknown question kind "+string(q.Kind))
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return errors.NewValidationError("prompt", "must not be empty")
	}
	switch q.Kind {
	case models.KindSingleChoice:
		if q.Choice == nil || len(q.Choice.Options) < 2 {
			return errors.NewValidationError("choice", "single-choice questions need at least two options")
		}
		if q.Choice.CorrectIndex < 0 || q.Choice.CorrectIndex >= len(q.Choice.Options) {
			return errors.NewValidationError("choice", "correct_index out of range")
		}
	case models.KindFreeText:
		if q.FreeText == nil {
			return errors.NewValidationError("free_text", "payload required")
		}
	case models.KindCode:
		if q.Code == nil {
			return errors.NewValidationError("code", "payload required")
		}
	case models.KindMarkup:
		if q.Markup == nil {
			return errors.NewValidationError("markup", "payload required")
		}
	}
	return nil
}
