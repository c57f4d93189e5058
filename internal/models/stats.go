package models

import "time"

// TopicStats aggregates per-topic accuracy across all stored attempts.
type TopicStats struct {
	Topic    string  `json:"topic"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"` // 0-100
}

// InterviewStats aggregates attempt outcomes per interview.
type InterviewStats struct {
	InterviewID    string     `json:"interview_id"`
	InterviewTitle string     `json:"interview_title"`
	Attempts       int        `json:"attempts"`
	BestScore      int        `json:"best_score"`
	AverageScore   float64    `json:"average_score"`
	LastAttemptAt  *time.Time `json:"last_attempt_at,omitempty"`
}
