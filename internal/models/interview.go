package models

import "time"

type Interview struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Difficulty      string     `json:"difficulty"` // "easy", "medium", "hard"
	DurationMinutes int        `json:"duration_minutes"`
	Questions       []Question `json:"questions,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// InterviewSummary is the catalog listing shape: no question bodies,
// just enough to render the picker.
type InterviewSummary struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Difficulty      string    `json:"difficulty"`
	DurationMinutes int       `json:"duration_minutes"`
	QuestionCount   int       `json:"question_count"`
	CreatedAt       time.Time `json:"created_at"`
}
