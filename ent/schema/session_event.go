package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records a practice session starting or ending.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

// StackScore is the persisted per-stack result of a finished session.
type StackScore struct {
	Stack     string   `json:"stack"`
	Total     int      `json:"total"`
	Attempted int      `json:"attempted"`
	Correct   int      `json:"correct"`
	Score     int      `json:"score"`
	Strongest []string `json:"strongest,omitempty"`
	Weakest   []string `json:"weakest,omitempty"`
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping the events of one session"),
		field.String("action").
			NotEmpty().
			Comment("start or end"),
		field.String("mode").
			Default("").
			Comment("mcqs, survival or flashcards"),
		field.String("timer_mode").
			Default("none").
			Comment("none, overall or per-question"),
		field.Int("questions").
			Default(0).
			Comment("Questions in the session"),
		field.Int("correct").
			Default(0).
			Comment("Correct answers (on end only)"),
		field.Int("incorrect").
			Default(0).
			Comment("Incorrect answers (on end only)"),
		field.Int("skipped").
			Default(0).
			Comment("Skipped questions (on end only)"),
		field.Int("score").
			Default(0).
			Comment("Overall percentage (on end only)"),
		field.Int("duration_secs").
			Default(0).
			Comment("Running time in seconds (on end only)"),
		field.JSON("stacks", []StackScore{}).
			Optional().
			Comment("Per-stack results (on end only)"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("action"),
	}
}
