package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfigueira/preptrack/internal/models"
)

// fakeHistory is an in-memory HistoryRepository for service tests.
type fakeHistory struct {
	results []models.AttemptResult
	err     error
}

func (f *fakeHistory) Append(_ context.Context, result models.AttemptResult) error {
	if f.err != nil {
		return f.err
	}
	f.results = append([]models.AttemptResult{result}, f.results...)
	return nil
}

func (f *fakeHistory) LoadAll(_ context.Context, filter models.HistoryFilter) ([]models.AttemptResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if filter.InterviewID == "" {
		return f.results, nil
	}
	var out []models.AttemptResult
	for _, r := range f.results {
		if r.InterviewID == filter.InterviewID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeHistory) Clear(context.Context) error {
	f.results = nil
	return f.err
}

func (f *fakeHistory) SetFeedback(_ context.Context, attemptID string, feedback models.Feedback) error {
	for i := range f.results {
		if f.results[i].ID == attemptID {
			fb := feedback
			f.results[i].Feedback = &fb
			return nil
		}
	}
	return f.err
}

func statsResult(id, interviewID, title string, score int, end time.Time, topics map[string]models.TopicScore) models.AttemptResult {
	return models.AttemptResult{
		ID:             id,
		InterviewID:    interviewID,
		InterviewTitle: title,
		StartTime:      end.Add(-10 * time.Minute),
		EndTime:        end,
		Score:          score,
		TotalQuestions: 5,
		CorrectAnswers: score,
		Status:         "completed",
		TopicScores:    topics,
	}
}

func TestTopicStats(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	history := &fakeHistory{results: []models.AttemptResult{
		statsResult("a-1", "iv-1", "Frontend Basics", 3, base, map[string]models.TopicScore{
			"css":        {Correct: 2, Total: 3},
			"javascript": {Correct: 1, Total: 2},
		}),
		statsResult("a-2", "iv-2", "DSA Warmup", 1, base.Add(time.Hour), map[string]models.TopicScore{
			"javascript": {Correct: 1, Total: 1},
			"algorithms": {Correct: 0, Total: 2},
		}),
	}}
	svc := NewStatsService(history)

	stats, err := svc.TopicStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 3)

	// Sorted by topic name.
	assert.Equal(t, "algorithms", stats[0].Topic)
	assert.Equal(t, 0.0, stats[0].Accuracy)

	assert.Equal(t, "css", stats[1].Topic)
	assert.Equal(t, 2, stats[1].Correct)
	assert.Equal(t, 3, stats[1].Total)
	assert.InDelta(t, 66.66, stats[1].Accuracy, 0.01)

	assert.Equal(t, "javascript", stats[2].Topic)
	assert.Equal(t, 2, stats[2].Correct)
	assert.Equal(t, 3, stats[2].Total)
}

func TestTopicStats_EmptyHistory(t *testing.T) {
	svc := NewStatsService(&fakeHistory{})

	stats, err := svc.TopicStats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestInterviewStats(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	history := &fakeHistory{results: []models.AttemptResult{
		statsResult("a-1", "iv-1", "Frontend Basics", 2, base, nil),
		statsResult("a-2", "iv-1", "Frontend Basics", 4, base.Add(2*time.Hour), nil),
		statsResult("a-3", "iv-1", "Frontend Basics", 3, base.Add(time.Hour), nil),
		statsResult("a-4", "iv-2", "DSA Warmup", 5, base.Add(30*time.Minute), nil),
	}}
	svc := NewStatsService(history)

	stats, err := svc.InterviewStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Sorted by title.
	dsa := stats[0]
	assert.Equal(t, "iv-2", dsa.InterviewID)
	assert.Equal(t, 1, dsa.Attempts)
	assert.Equal(t, 5, dsa.BestScore)
	assert.Equal(t, 5.0, dsa.AverageScore)

	frontend := stats[1]
	assert.Equal(t, "iv-1", frontend.InterviewID)
	assert.Equal(t, 3, frontend.Attempts)
	assert.Equal(t, 4, frontend.BestScore)
	assert.InDelta(t, 3.0, frontend.AverageScore, 0.001)
	require.NotNil(t, frontend.LastAttemptAt)
	assert.True(t, frontend.LastAttemptAt.Equal(base.Add(2*time.Hour)))
}
