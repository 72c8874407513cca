package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Snapshot stores the last practice setup so the next launch resumes where
// the user left off. Older snapshots are pruned.
type Snapshot struct {
	ent.Schema
}

// SnapshotData is the persisted practice setup. Version is bumped when a
// field changes meaning; unknown fields are ignored on read.
type SnapshotData struct {
	Version      int      `json:"version"`
	Mode         string   `json:"mode,omitempty"`
	TimerMode    string   `json:"timer_mode,omitempty"`
	Difficulties []string `json:"difficulties,omitempty"`
	TechStacks   []string `json:"tech_stacks,omitempty"`
	Topics       []string `json:"topics,omitempty"`
	BestStreak   int      `json:"best_streak,omitempty"`
}

func (Snapshot) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (Snapshot) Fields() []ent.Field {
	return []ent.Field{
		field.JSON("data", SnapshotData{}).
			Comment("Mode, timer, filters and best survival streak"),
	}
}
