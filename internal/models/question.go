package models

import "time"

// QuestionKind identifies the answer format a question expects.
type QuestionKind string

const (
	KindSingleChoice QuestionKind = "single_choice"
	KindFreeText     QuestionKind = "free_text"
	KindCode         QuestionKind = "code"
	KindMarkup       QuestionKind = "markup"
)

// Valid reports whether k is one of the supported question kinds.
func (k QuestionKind) Valid() bool {
	switch k {
	case KindSingleChoice, KindFreeText, KindCode, KindMarkup:
		return true
	}
	return false
}

type Question struct {
	ID         string       `json:"id"`
	Kind       QuestionKind `json:"kind"`
	Prompt     string       `json:"prompt"`
	Difficulty string       `json:"difficulty"` // "easy", "medium", "hard"
	Topics     []string     `json:"topics"`
	CreatedAt  time.Time    `json:"created_at"`

	// Exactly one payload is set, matching Kind.
	Choice   *ChoicePayload   `json:"choice,omitempty"`
	FreeText *FreeTextPayload `json:"free_text,omitempty"`
	Code     *CodePayload     `json:"code,omitempty"`
	Markup   *MarkupPayload   `json:"markup,omitempty"`
}

// ChoicePayload holds the options for a single-choice question.
// CorrectIndex is an index into Options.
type ChoicePayload struct {
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

type FreeTextPayload struct {
	ExpectedPoints []string `json:"expected_points,omitempty"`
	WordCap        int      `json:"word_cap,omitempty"`
}

type CodePayload struct {
	StarterCode string     `json:"starter_code,omitempty"`
	TestCases   []TestCase `json:"test_cases,omitempty"`
}

type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// MarkupPayload holds starter content for a sandboxed-markup question.
type MarkupPayload struct {
	StarterHTML string `json:"starter_html,omitempty"`
	StarterCSS  string `json:"starter_css,omitempty"`
	StarterJS   string `json:"starter_js,omitempty"`
}
