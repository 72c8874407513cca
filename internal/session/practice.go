package session

import "github.com/abhisek/stackprep/internal/bank"

// Shuffler returns a permutation of questions without modifying the input.
type Shuffler func([]*bank.Question) []*bank.Question

// Practice owns the loaded question pool together with the active filter
// and timer mode. Any change to either discards the current session and
// builds a new one from a freshly shuffled, filtered list.
type Practice struct {
	pool    []*bank.Question
	filter  bank.Filter
	mode    TimerMode
	shuffle Shuffler
	opts    []Option

	session *Session
}

// PracticeOption configures a Practice.
type PracticeOption func(*Practice)

// WithShuffler replaces the random shuffle, mainly for tests.
func WithShuffler(fn Shuffler) PracticeOption {
	return func(p *Practice) { p.shuffle = fn }
}

// WithSessionOptions applies opts to every session the Practice creates.
func WithSessionOptions(opts ...Option) PracticeOption {
	return func(p *Practice) { p.opts = append(p.opts, opts...) }
}

// NewPractice creates a Practice and its first session.
func NewPractice(pool []*bank.Question, filter bank.Filter, mode TimerMode, opts ...PracticeOption) *Practice {
	p := &Practice{
		pool:    pool,
		filter:  filter,
		mode:    mode,
		shuffle: bank.ShuffleQuestions,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.rebuild()
	return p
}

// Session returns the live session.
func (p *Practice) Session() *Session { return p.session }

// Filter returns the active filter.
func (p *Practice) Filter() bank.Filter { return p.filter }

// Mode returns the active timer mode.
func (p *Practice) Mode() TimerMode { return p.mode }

// Matching returns the number of pool questions matching the filter.
func (p *Practice) Matching() int {
	return len(bank.FilterQuestions(p.pool, p.filter))
}

// SetPool replaces the question pool, e.g. when loading completes.
func (p *Practice) SetPool(pool []*bank.Question) {
	p.pool = pool
	p.rebuild()
}

// SetFilter applies f. It reports false and keeps the session when f
// selects the same questions as the active filter.
func (p *Practice) SetFilter(f bank.Filter) bool {
	if p.filter.Equal(f) {
		return false
	}
	p.filter = f
	p.rebuild()
	return true
}

// SetMode switches the timer mode. It reports false when m is already active.
func (p *Practice) SetMode(m TimerMode) bool {
	if p.mode == m {
		return false
	}
	p.mode = m
	p.rebuild()
	return true
}

// Restart discards the session, ended or not, and starts over with a new
// shuffle. Timed sessions return to idle.
func (p *Practice) Restart() *Session {
	p.rebuild()
	return p.session
}

func (p *Practice) rebuild() {
	qs := p.shuffle(bank.FilterQuestions(p.pool, p.filter))
	p.session = New(qs, p.mode, p.opts...)
}
