package scoring

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfigueira/preptrack/internal/models"
)

func evalSession() *models.Session {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(12 * time.Minute)
	return &models.Session{
		ID:             "s-1",
		InterviewID:    "iv-1",
		InterviewTitle: "Frontend Basics",
		StartedAt:      start,
		EndedAt:        &end,
		Status:         models.StatusCompleted,
		Questions: []models.Question{
			{
				ID:     "q1",
				Kind:   models.KindSingleChoice,
				Topics: []string{"css"},
				Choice: &models.ChoicePayload{Options: []string{"a", "b", "c"}, CorrectIndex: 2},
			},
			{
				ID:     "q2",
				Kind:   models.KindFreeText,
				Topics: []string{"javascript"},
			},
			{
				ID:     "q3",
				Kind:   models.KindCode,
				Topics: []string{"javascript", "algorithms"},
			},
			{
				ID:     "q4",
				Kind:   models.KindMarkup,
				Topics: []string{"css"},
			},
		},
		Answers: map[string]models.Answer{},
	}
}

func TestEvaluate_SingleChoice(t *testing.T) {
	e := NewEvaluator(nil)

	session := evalSession()
	session.Answers["q1"] = models.ChoiceAnswer(2)
	assert.Equal(t, 1, e.Evaluate(session, "a-1").Score)

	session.Answers["q1"] = models.ChoiceAnswer(0)
	assert.Equal(t, 0, e.Evaluate(session, "a-2").Score)
}

func TestEvaluate_TextLengthHeuristic(t *testing.T) {
	e := NewEvaluator(nil)
	session := evalSession()

	// At the threshold is not enough; it must be exceeded.
	session.Answers["q2"] = models.TextAnswer(strings.Repeat("x", DefaultMinAnswerLength))
	assert.Equal(t, 0, e.Evaluate(session, "a-1").Score)

	session.Answers["q2"] = models.TextAnswer(strings.Repeat("x", DefaultMinAnswerLength+1))
	assert.Equal(t, 1, e.Evaluate(session, "a-2").Score)

	// Surrounding whitespace does not count toward the length.
	session.Answers["q2"] = models.TextAnswer("   " + strings.Repeat("x", 10) + "   ")
	assert.Equal(t, 0, e.Evaluate(session, "a-3").Score)
}

func TestEvaluate_CodeUsesGrader(t *testing.T) {
	e := NewEvaluator(GraderFunc(func(q models.Question, a models.Answer) bool {
		return strings.Contains(a.Text, "return")
	}))
	session := evalSession()

	session.Answers["q3"] = models.CodeAnswer("function f() { return 1 }")
	assert.Equal(t, 1, e.Evaluate(session, "a-1").Score)

	session.Answers["q3"] = models.CodeAnswer("function f() {}")
	assert.Equal(t, 0, e.Evaluate(session, "a-2").Score)
}

func TestEvaluate_MarkupAnyPaneCounts(t *testing.T) {
	e := NewEvaluator(nil)
	session := evalSession()

	session.Answers["q4"] = models.MarkupAnswerOf("", ".x { color: red }", "")
	assert.Equal(t, 1, e.Evaluate(session, "a-1").Score)

	session.Answers["q4"] = models.MarkupAnswerOf("  ", "\n", "\t")
	assert.Equal(t, 0, e.Evaluate(session, "a-2").Score)
}

func TestEvaluate_KindMismatchNeverScores(t *testing.T) {
	e := NewEvaluator(GraderFunc(func(models.Question, models.Answer) bool {
		return true // accept anything that reaches the grader
	}))
	session := evalSession()
	session.Questions[0].Choice.CorrectIndex = 0

	// A free-text answer's zero-value ChoiceIndex must not match
	// correct_index 0 on a single-choice question.
	session.Answers["q1"] = models.TextAnswer("this is not a choice")
	assert.Equal(t, 0, e.Evaluate(session, "a-1").Score)

	// Nor do stray variants reach the text grader or markup check.
	session.Answers = map[string]models.Answer{
		"q2": models.ChoiceAnswer(0),
		"q3": models.MarkupAnswerOf("<p>hi</p>", "", ""),
		"q4": models.TextAnswer("not markup"),
	}
	assert.Equal(t, 0, e.Evaluate(session, "a-2").Score)

	// Matching variants still grade normally.
	session.Answers = map[string]models.Answer{
		"q1": models.ChoiceAnswer(0),
		"q2": models.TextAnswer("long enough"),
		"q3": models.CodeAnswer("return 42"),
	}
	assert.Equal(t, 3, e.Evaluate(session, "a-3").Score)
}

func TestEvaluate_UnansweredCountInTopicTotals(t *testing.T) {
	e := NewEvaluator(nil)
	session := evalSession()
	session.Answers["q1"] = models.ChoiceAnswer(2)

	result := e.Evaluate(session, "a-1")

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, models.TopicScore{Correct: 1, Total: 2}, result.TopicScores["css"])
	assert.Equal(t, models.TopicScore{Correct: 0, Total: 2}, result.TopicScores["javascript"])
	assert.Equal(t, models.TopicScore{Correct: 0, Total: 1}, result.TopicScores["algorithms"])
}

func TestEvaluate_Deterministic(t *testing.T) {
	e := NewEvaluator(nil)
	session := evalSession()
	session.Answers["q1"] = models.ChoiceAnswer(2)
	session.Answers["q2"] = models.TextAnswer(strings.Repeat("y", 80))

	first := e.Evaluate(session, "a-1")
	second := e.Evaluate(session, "a-1")

	assert.Equal(t, first, second, "identical input must yield an identical result")
}

func TestEvaluate_ResultMetadata(t *testing.T) {
	e := NewEvaluator(nil)
	session := evalSession()

	result := e.Evaluate(session, "attempt-42")

	require.NotNil(t, session.EndedAt)
	assert.Equal(t, "attempt-42", result.ID)
	assert.Equal(t, "iv-1", result.InterviewID)
	assert.Equal(t, "Frontend Basics", result.InterviewTitle)
	assert.Equal(t, session.StartedAt, result.StartTime)
	assert.Equal(t, session.EndedAt.UTC(), result.EndTime)
	assert.Equal(t, "completed", result.Status)
}

func TestElapsedSeconds(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, 90, ElapsedSeconds(start, start.Add(90*time.Second)))
	assert.Equal(t, 0, ElapsedSeconds(start, start), "zero duration")
	assert.Equal(t, 0, ElapsedSeconds(start, start.Add(-time.Minute)), "end before start clamps to zero")
}
