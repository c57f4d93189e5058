package models

// Answer is a tagged union keyed by question kind. Exactly one of the
// value fields is meaningful for a given Kind; the evaluator matches on
// Kind rather than sniffing shapes.
type Answer struct {
	Kind        QuestionKind  `json:"kind"`
	ChoiceIndex int           `json:"choice_index,omitempty"`
	Text        string        `json:"text,omitempty"`
	Markup      *MarkupAnswer `json:"markup,omitempty"`
}

// MarkupAnswer carries the three editable panes of a sandboxed-markup
// question.
type MarkupAnswer struct {
	HTML string `json:"html,omitempty"`
	CSS  string `json:"css,omitempty"`
	JS   string `json:"js,omitempty"`
}

// ChoiceAnswer builds an answer for a single-choice question.
func ChoiceAnswer(index int) Answer {
	return Answer{Kind: KindSingleChoice, ChoiceIndex: index}
}

// TextAnswer builds an answer for a free-text question.
func TextAnswer(text string) Answer {
	return Answer{Kind: KindFreeText, Text: text}
}

// CodeAnswer builds an answer for a code question.
func CodeAnswer(code string) Answer {
	return Answer{Kind: KindCode, Text: code}
}

// MarkupAnswerOf builds an answer for a sandboxed-markup question.
func MarkupAnswerOf(html, css, js string) Answer {
	return Answer{Kind: KindMarkup, Markup: &MarkupAnswer{HTML: html, CSS: css, JS: js}}
}
