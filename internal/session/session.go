package session

import (
	"time"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/google/uuid"
)

// TopicStat is the running result for one stack topic.
type TopicStat struct {
	Stack     string
	Topic     string
	Attempted int
	Correct   int
}

// Session is a single practice run over an ordered question list. It is
// not safe for concurrent use; the TUI drives it from its update loop.
type Session struct {
	id        string
	questions []*bank.Question
	pos       int
	mode      TimerMode
	remaining int
	phase     Phase
	ledger    *Ledger
	tally     Tally
	gen       uint64

	topicIdx map[topicKey]int
	topics   []TopicStat

	startedAt time.Time
	endedAt   time.Time
	now       func() time.Time
}

type topicKey struct{ stack, topic string }

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithID sets the session ID instead of generating one.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// New creates a session over questions in the given order. Self-paced
// sessions start running; timed sessions wait for Start.
func New(questions []*bank.Question, mode TimerMode, opts ...Option) *Session {
	qs := make([]*bank.Question, len(questions))
	copy(qs, questions)

	s := &Session{
		id:        uuid.New().String(),
		questions: qs,
		mode:      mode,
		phase:     PhaseIdle,
		ledger:    NewLedger(qs),
		topicIdx:  make(map[topicKey]int),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !mode.Timed() {
		s.phase = PhaseRunning
		s.startedAt = s.now()
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the timer mode.
func (s *Session) Mode() TimerMode { return s.mode }

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.questions) }

// Position returns the index of the current question.
func (s *Session) Position() int { return s.pos }

// Remaining returns the seconds left on the countdown.
func (s *Session) Remaining() int { return s.remaining }

// Generation identifies the current running interval. Tick handlers must
// present it; it changes whenever the session leaves PhaseRunning.
func (s *Session) Generation() uint64 { return s.gen }

// Ledger returns the response ledger. Callers must not retain it across
// sessions.
func (s *Session) Ledger() *Ledger { return s.ledger }

// Tally returns the running counts.
func (s *Session) Tally() Tally { return s.tally }

// StartedAt returns when the session started running.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// EndedAt returns when the session ended.
func (s *Session) EndedAt() time.Time { return s.endedAt }

// Elapsed returns the running time so far, or the total once ended.
func (s *Session) Elapsed() time.Duration {
	switch {
	case s.startedAt.IsZero():
		return 0
	case s.phase == PhaseEnded:
		return s.endedAt.Sub(s.startedAt)
	default:
		return s.now().Sub(s.startedAt)
	}
}

// Questions returns the session's questions in order.
func (s *Session) Questions() []*bank.Question {
	out := make([]*bank.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Current returns the current question, or nil for an empty session.
func (s *Session) Current() *bank.Question {
	if s.pos < 0 || s.pos >= len(s.questions) {
		return nil
	}
	return s.questions[s.pos]
}

// CurrentEntry returns the ledger entry of the current question.
func (s *Session) CurrentEntry() Entry {
	q := s.Current()
	if q == nil {
		return Entry{}
	}
	e, _ := s.ledger.Get(q.ID)
	return e
}

// IsLast reports whether the current question is the last one.
func (s *Session) IsLast() bool { return s.pos >= len(s.questions)-1 }

// CanAdvance reports whether Advance would do anything.
func (s *Session) CanAdvance() bool {
	if s.phase != PhaseRunning || len(s.questions) == 0 {
		return false
	}
	return s.mode.Timed() || !s.IsLast()
}

// TopicStats returns the running per-stack, per-topic results in the order
// topics were first resolved.
func (s *Session) TopicStats() []TopicStat {
	out := make([]TopicStat, len(s.topics))
	copy(out, s.topics)
	return out
}

// Start moves a timed session from idle to running and arms the countdown.
// A session with no questions ends immediately.
func (s *Session) Start() bool {
	if s.phase != PhaseIdle {
		return false
	}
	s.phase = PhaseRunning
	s.startedAt = s.now()
	if len(s.questions) == 0 {
		s.end()
		return true
	}
	switch s.mode {
	case TimerOverall:
		s.remaining = OverallBudget(s.questions)
	case TimerPerQuestion:
		s.remaining = Budget(s.questions[s.pos].Difficulty)
	}
	return true
}

// Answer records key for the current question. It reports the resulting
// status and false when nothing changed: the session is not running, there
// is no current question, key is not an option, or the question was
// already resolved.
func (s *Session) Answer(key string) (Status, bool) {
	q := s.Current()
	if s.phase != PhaseRunning || q == nil {
		return StatusUnattempted, false
	}
	if _, ok := q.Options[key]; !ok {
		return s.ledger.Status(q.ID), false
	}
	status := StatusIncorrect
	if q.IsCorrect(key) {
		status = StatusCorrect
	}
	if !s.resolve(q, status, key) {
		return s.ledger.Status(q.ID), false
	}
	return status, true
}

// Advance skips the current question if it is unanswered and moves to the
// next one. Self-paced sessions stay on the last question; timed sessions
// end when advancing past it.
func (s *Session) Advance() bool {
	if !s.CanAdvance() {
		return false
	}
	s.skipCurrent()
	if s.IsLast() {
		s.end()
		return true
	}
	s.pos++
	if s.mode == TimerPerQuestion {
		s.remaining = Budget(s.questions[s.pos].Difficulty)
	}
	return true
}

// End stops a running session. Unattempted questions become skipped so
// the ledger accounts for every question.
func (s *Session) End() bool {
	if s.phase != PhaseRunning {
		return false
	}
	s.end()
	return true
}

// Tick applies one second of countdown. Ticks from another generation, or
// arriving while not running, are ignored.
func (s *Session) Tick(gen uint64) bool {
	if gen != s.gen || s.phase != PhaseRunning || !s.mode.Timed() {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return true
	}

	switch s.mode {
	case TimerOverall:
		s.end()
	case TimerPerQuestion:
		s.Advance()
	}
	return true
}

func (s *Session) end() {
	for _, q := range s.questions {
		s.resolve(q, StatusSkipped, "")
	}
	s.phase = PhaseEnded
	s.remaining = 0
	s.endedAt = s.now()
	s.gen++
}

func (s *Session) skipCurrent() {
	if q := s.Current(); q != nil {
		s.resolve(q, StatusSkipped, "")
	}
}

// resolve is the only place ledger entries change, so the tally and topic
// stats stay in step with the ledger.
func (s *Session) resolve(q *bank.Question, status Status, key string) bool {
	if !s.ledger.resolve(q.ID, status, key) {
		return false
	}
	s.tally.add(status)

	k := topicKey{bank.CanonicalStack(q.Stack), q.Topic}
	i, ok := s.topicIdx[k]
	if !ok {
		i = len(s.topics)
		s.topicIdx[k] = i
		s.topics = append(s.topics, TopicStat{Stack: q.Stack, Topic: q.Topic})
	}
	s.topics[i].Attempted++
	if status == StatusCorrect {
		s.topics[i].Correct++
	}
	return true
}
