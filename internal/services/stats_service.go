package services

import (
	"context"
	"sort"

	"github.com/mfigueira/preptrack/internal/errors"
	"github.com/mfigueira/preptrack/internal/logger"
	"github.com/mfigueira/preptrack/internal/models"
	"github.com/mfigueira/preptrack/internal/repository"
)

// StatsService aggregates attempt history into dashboard numbers.
// Aggregation happens in Go rather than SQL so both history backends
// (sqlite and file) produce identical results.
type StatsService interface {
	TopicStats(ctx context.Context) ([]models.TopicStats, error)
	InterviewStats(ctx context.Context) ([]models.InterviewStats, error)
}

type statsService struct {
	history repository.HistoryRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(history repository.HistoryRepository) StatsService {
	return &statsService{history: history}
}

func (s *statsService) TopicStats(ctx context.Context) ([]models.TopicStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing topic stats")

	results, err := s.history.LoadAll(ctx, models.HistoryFilter{})
	if err != nil {
		log.Error("failed to load history for topic stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	tally := make(map[string]models.TopicScore)
	for _, res := range results {
		for topic, ts := range res.TopicScores {
			agg := tally[topic]
			agg.Correct += ts.Correct
			agg.Total += ts.Total
			tally[topic] = agg
		}
	}

	stats := make([]models.TopicStats, 0, len(tally))
	for topic, agg := range tally {
		st := models.TopicStats{Topic: topic, Correct: agg.Correct, Total: agg.Total}
		if agg.Total > 0 {
			st.Accuracy = float64(agg.Correct) / float64(agg.Total) * 100
		}
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Topic < stats[j].Topic })

	log.Debug("computed stats for %d topics across %d attempts", len(stats), len(results))
	return stats, nil
}

func (s *statsService) InterviewStats(ctx context.Context) ([]models.InterviewStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing interview stats")

	results, err := s.history.LoadAll(ctx, models.HistoryFilter{})
	if err != nil {
		log.Error("failed to load history for interview stats: %v", err)
		return nil, errors.NewInternalError(err)
	}

	type agg struct {
		title    string
		attempts int
		best     int
		sum      int
		last     *models.AttemptResult
	}
	byInterview := make(map[string]*agg)
	for i := range results {
		res := results[i]
		a, ok := byInterview[res.InterviewID]
		if !ok {
			a = &agg{title: res.InterviewTitle}
			byInterview[res.InterviewID] = a
		}
		a.attempts++
		a.sum += res.Score
		if res.Score > a.best {
			a.best = res.Score
		}
		if a.last == nil || res.EndTime.After(a.last.EndTime) {
			a.last = &results[i]
		}
	}

	stats := make([]models.InterviewStats, 0, len(byInterview))
	for id, a := range byInterview {
		st := models.InterviewStats{
			InterviewID:    id,
			InterviewTitle: a.title,
			Attempts:       a.attempts,
			BestScore:      a.best,
			AverageScore:   float64(a.sum) / float64(a.attempts),
		}
		if a.last != nil {
			t := a.last.EndTime
			st.LastAttemptAt = &t
		}
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].InterviewTitle < stats[j].InterviewTitle })

	log.Debug("computed stats for %d interviews", len(stats))
	return stats, nil
}
