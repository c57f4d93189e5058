package models

import "time"

// SessionStatus is the lifecycle state of an attempt.
type SessionStatus string

const (
	StatusNotStarted SessionStatus = "not_started"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusSubmitted  SessionStatus = "submitted"
)

// Session is the mutable state of one attempt. Questions are a
// point-in-time copy taken at start, so later catalog edits cannot
// affect an in-flight attempt.
type Session struct {
	ID               string            `json:"id"`
	InterviewID      string            `json:"interview_id"`
	InterviewTitle   string            `json:"interview_title"`
	StartedAt        time.Time         `json:"started_at"`
	EndedAt          *time.Time        `json:"ended_at,omitempty"`
	DurationSeconds  int               `json:"duration_seconds"`
	Questions        []Question        `json:"questions"`
	CurrentIndex     int               `json:"current_index"`
	Answers          map[string]Answer `json:"answers"`
	RemainingSeconds int               `json:"remaining_seconds"`
	Status           SessionStatus     `json:"status"`
	Feedback         *Feedback         `json:"feedback,omitempty"`
}

// Feedback is attached to a session only after submission.
type Feedback struct {
	Rating  int    `json:"rating"` // 1-5
	Comment string `json:"comment,omitempty"`
}

// AnsweredCount returns how many questions have a stored answer.
func (s *Session) AnsweredCount() int {
	return len(s.Answers)
}
