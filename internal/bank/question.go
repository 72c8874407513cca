package bank

import (
	"sort"
	"strings"
)

// Kind identifies a question document kind within a stack directory.
type Kind string

const (
	KindTheory Kind = "theory"
	KindMCQ    Kind = "mcqs"
)

// FileName returns the document file name for the kind, e.g. "mcqs.yaml".
func (k Kind) FileName() string {
	return string(k) + ".yaml"
}

// ParseKind accepts the document kinds and a few common spellings.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "theory", "flashcards", "flashcard":
		return KindTheory, true
	case "mcqs", "mcq":
		return KindMCQ, true
	}
	return "", false
}

// QuestionType is the record-level type of a question.
type QuestionType string

const (
	TypeTheory QuestionType = "theory"
	TypeMCQ    QuestionType = "mcq"
)

// Difficulty is a normalized (lower-case) difficulty label.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the known difficulties in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// DisplayName returns the title-cased label shown in pickers.
func (d Difficulty) DisplayName() string {
	if d == "" {
		return "N/A"
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Question is a single normalized question record. Records are immutable
// once loaded and are always handled by pointer.
type Question struct {
	// ID is qualified with the stack directory and kind, e.g. "Spark/mcqs/12",
	// because raw ids restart at 1 in every stack document. A repeated raw id
	// is suffixed with its position, e.g. "Spark/mcqs/12#14".
	ID         string
	Question   string
	Type       QuestionType
	Stack      string
	Topic      string
	Difficulty Difficulty

	// Options maps option key to option text. MCQ only.
	Options map[string]string

	// Answer is the correct option key. MCQ only.
	Answer string

	// AnswerText is the model answer for theory questions or an explanation for MCQs.
	AnswerText string

	// Tags holds secondary topic aliases found in the source record.
	Tags []string

	// StackAliases holds secondary stack names found in the source record.
	StackAliases []string
}

// IsMCQ reports whether the question can be answered by option key.
func (q *Question) IsMCQ() bool {
	return q.Type == TypeMCQ && len(q.Options) > 0
}

// OptionKeys returns the option keys in sorted order ("A", "B", ...).
func (q *Question) OptionKeys() []string {
	keys := make([]string, 0, len(q.Options))
	for k := range q.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stacks returns the primary stack followed by the secondary aliases.
func (q *Question) Stacks() []string {
	return append([]string{q.Stack}, q.StackAliases...)
}

// IsCorrect reports whether key is the correct option key.
func (q *Question) IsCorrect(key string) bool {
	return key != "" && key == q.Answer
}
