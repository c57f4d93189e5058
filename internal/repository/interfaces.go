package repository

import (
	"context"

	"github.com/mfigueira/preptrack/internal/models"
)

// CatalogRepository handles interview and question data access
type CatalogRepository interface {
	ListInterviews(ctx context.Context) ([]models.InterviewSummary, error)
	// GetInterview returns the interview with its ordered question list,
	// or nil when no interview has the given id.
	GetInterview(ctx context.Context, id string) (*models.Interview, error)
	InsertInterview(ctx context.Context, interview models.Interview) error
	UpdateInterview(ctx context.Context, interview models.Interview) error
	// InsertQuestions appends questions to an interview, preserving order.
	InsertQuestions(ctx context.Context, interviewID string, questions []models.Question) error
}

// HistoryRepository is the durable archive of submitted attempts.
// LoadAll returns results most recent first. A corrupt backing store
// degrades to an empty list rather than an error.
type HistoryRepository interface {
	Append(ctx context.Context, result models.AttemptResult) error
	LoadAll(ctx context.Context, filter models.HistoryFilter) ([]models.AttemptResult, error)
	Clear(ctx context.Context) error
	SetFeedback(ctx context.Context, attemptID string, feedback models.Feedback) error
}
