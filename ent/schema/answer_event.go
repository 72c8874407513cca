package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records how one question was resolved within a session.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to SessionEvent"),
		field.String("question_id").
			NotEmpty().
			Comment("Qualified question ID, e.g. Spark/mcqs/12"),
		field.String("stack").
			NotEmpty().
			Comment("Canonical tech stack"),
		field.String("topic").
			NotEmpty().
			Comment("Question topic"),
		field.String("difficulty").
			Default("").
			Comment("easy, medium or hard"),
		field.String("selected_key").
			Default("").
			Comment("Chosen option key, empty when skipped"),
		field.String("status").
			NotEmpty().
			Comment("correct, incorrect or skipped"),
		field.Int("time_ms").
			Default(0).
			Comment("Milliseconds spent on the question"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("stack", "topic"),
		index.Fields("status"),
	}
}
