package models

import "time"

// TopicScore is the per-topic correct/total tally of one attempt.
type TopicScore struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// AttemptResult is the immutable archive record of one submitted
// session. The JSON field names are the persisted history schema the
// frontend reads; changing them breaks stored history.
type AttemptResult struct {
	ID             string                `json:"id"`
	InterviewID    string                `json:"interviewId"`
	InterviewTitle string                `json:"interviewTitle"`
	StartTime      time.Time             `json:"startTime"`
	EndTime        time.Time             `json:"endTime"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"totalQuestions"`
	CorrectAnswers int                   `json:"correctAnswers"`
	Status         string                `json:"status"` // always "completed"
	TopicScores    map[string]TopicScore `json:"topicScores"`
	Feedback       *Feedback             `json:"feedback,omitempty"`
}

// HistoryFilter narrows and pages history queries. Zero values mean
// "no filter" / "no limit".
type HistoryFilter struct {
	InterviewID string
	Limit       int
	Offset      int
}
