package store

import (
	"context"
	"time"

	entschema "github.com/abhisek/stackprep/ent/schema"
)

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// SnapshotData captures the practice setup restored on the next launch.
type SnapshotData = entschema.SnapshotData

// Snapshot is a point-in-time capture of SnapshotData.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages preference snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot. A zero Sequence is assigned from the
	// global counter and a zero Timestamp is set to now.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// StackScore is the per-stack result recorded with a session end event.
type StackScore = entschema.StackScore

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID    string
	Action       string
	Mode         string
	TimerMode    string
	Questions    int
	Correct      int
	Incorrect    int
	Skipped      int
	Score        int
	DurationSecs int
	Stacks       []StackScore
}

// SessionRecord is a stored session end event.
type SessionRecord struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// AnswerEventData captures how one question was resolved.
type AnswerEventData struct {
	SessionID   string
	QuestionID  string
	Stack       string
	Topic       string
	Difficulty  string
	SelectedKey string
	Status      string
	TimeMs      int
}

// TopicAccuracy is the all-time result for one topic.
type TopicAccuracy struct {
	Stack     string
	Topic     string
	Attempted int
	Correct   int
	Skipped   int
}

// Accuracy returns Correct/Attempted, 0 when nothing was attempted.
func (t TopicAccuracy) Accuracy() float64 {
	if t.Attempted == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Attempted)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	QuestionID   string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMUsage sums recorded LLM requests.
type LLMUsage struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to history events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentSessions returns finished sessions, newest first.
	RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error)

	// TopicAccuracy returns per-topic results for stack, or for every stack
	// when stack is empty, ordered by stack then topic.
	TopicAccuracy(ctx context.Context, stack string) ([]TopicAccuracy, error)

	// LLMUsage sums LLM request events.
	LLMUsage(ctx context.Context) (LLMUsage, error)

	// Reset deletes all history and restarts the sequence.
	Reset(ctx context.Context) error
}
