package scoring

import (
	"strings"
	"time"

	"github.com/mfigueira/preptrack/internal/models"
)

// DefaultMinAnswerLength is the trimmed-length threshold under which a
// free-text or code answer counts as incorrect. It is a stand-in for
// real grading, kept behind the Grader interface so a real grader can
// replace it without touching the evaluator.
const DefaultMinAnswerLength = 50

// Grader judges free-text and code answers. Implementations must be
// deterministic for identical input.
type Grader interface {
	Grade(question models.Question, answer models.Answer) bool
}

// GraderFunc adapts a function to the Grader interface.
type GraderFunc func(question models.Question, answer models.Answer) bool

func (f GraderFunc) Grade(question models.Question, answer models.Answer) bool {
	return f(question, answer)
}

// LengthGrader marks an answer correct when its trimmed text exceeds
// MinLength characters.
type LengthGrader struct {
	MinLength int
}

func (g LengthGrader) Grade(_ models.Question, answer models.Answer) bool {
	return len(strings.TrimSpace(answer.Text)) > g.MinLength
}

// Evaluator turns a finished session into an attempt result.
type Evaluator struct {
	textGrader Grader
}

// NewEvaluator creates an Evaluator. A nil grader falls back to the
// length heuristic.
func NewEvaluator(textGrader Grader) *Evaluator {
	if textGrader == nil {
		textGrader = LengthGrader{MinLength: DefaultMinAnswerLength}
	}
	return &Evaluator{textGrader: textGrader}
}

// Evaluate computes the score and per-topic tally for a session. It is
// pure: no side effects, and identical input (including the session's
// end time and the supplied attempt id) yields an identical result.
// Questions without a stored answer count as incorrect but still
// contribute to topic totals.
func (e *Evaluator) Evaluate(session *models.Session, attemptID string) models.AttemptResult {
	topicScores := make(map[string]models.TopicScore)
	correct := 0

	for _, q := range session.Questions {
		answer, answered := session.Answers[q.ID]
		ok := answered && e.isCorrect(q, answer)
		if ok {
			correct++
		}
		for _, topic := range q.Topics {
			ts := topicScores[topic]
			ts.Total++
			if ok {
				ts.Correct++
			}
			topicScores[topic] = ts
		}
	}

	endTime := session.StartedAt
	if session.EndedAt != nil {
		endTime = *session.EndedAt
	}

	return models.AttemptResult{
		ID:             attemptID,
		InterviewID:    session.InterviewID,
		InterviewTitle: session.InterviewTitle,
		StartTime:      session.StartedAt.UTC(),
		EndTime:        endTime.UTC(),
		Score:          correct,
		TotalQuestions: len(session.Questions),
		CorrectAnswers: correct,
		Status:         "completed",
		TopicScores:    topicScores,
	}
}

func (e *Evaluator) isCorrect(q models.Question, answer models.Answer) bool {
	// Answers are stored unvalidated, so the union is discriminated
	// here: a variant that doesn't match the question's kind never
	// scores, whatever its zero values happen to equal.
	if answer.Kind != q.Kind {
		return false
	}
	switch q.Kind {
	case models.KindSingleChoice:
		return q.Choice != nil && answer.ChoiceIndex == q.Choice.CorrectIndex
	case models.KindFreeText, models.KindCode:
		return e.textGrader.Grade(q, answer)
	case models.KindMarkup:
		if answer.Markup == nil {
			return false
		}
		return strings.TrimSpace(answer.Markup.HTML) != "" ||
			strings.TrimSpace(answer.Markup.CSS) != "" ||
			strings.TrimSpace(answer.Markup.JS) != ""
	}
	return false
}

// ElapsedSeconds reports how long the attempt ran, for display purposes.
func ElapsedSeconds(start time.Time, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start) / time.Second)
}
