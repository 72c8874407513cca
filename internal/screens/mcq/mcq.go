package mcq

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/router"
	"github.com/abhisek/stackprep/internal/screen"
	"github.com/abhisek/stackprep/internal/screens/results"
	sess "github.com/abhisek/stackprep/internal/session"
	"github.com/abhisek/stackprep/internal/store"
	"github.com/abhisek/stackprep/internal/ui/components"
	"github.com/abhisek/stackprep/internal/ui/layout"
)

// Options wires an MCQ screen.
type Options struct {
	Pool      []*bank.Question
	Manifest  bank.Manifest
	Filter    bank.Filter
	Mode      sess.TimerMode
	Events    store.EventRepo      // optional
	Snapshots store.SnapshotRepo   // optional
	Explainer components.Explainer // optional
	Logger    *slog.Logger

	// PracticeOptions are passed to the practice, mainly to fix the
	// shuffle and clock in tests.
	PracticeOptions []sess.PracticeOption
}

// Screen runs MCQ practice sessions.
type Screen struct {
	practice  *sess.Practice
	manifest  bank.Manifest
	events    store.EventRepo
	snaps     store.SnapshotRepo
	explainer components.Explainer
	logger    *slog.Logger

	choice    components.MultiChoice
	explain   components.ExplainPanel
	panel     components.FilterPanel
	filtering bool
	notice    string

	// per session bookkeeping
	shownAt  time.Time
	answerMs map[string]int
	recorded map[string]bool
	started  bool
	finished bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Modal = (*Screen)(nil)

// New creates the screen and its first session.
func New(opts Options) *Screen {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Screen{
		practice:  sess.NewPractice(opts.Pool, opts.Filter, opts.Mode, opts.PracticeOptions...),
		manifest:  opts.Manifest,
		events:    opts.Events,
		snaps:     opts.Snapshots,
		explainer: opts.Explainer,
		logger:    logger,
	}
	s.resetSession()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "MCQs · " + s.practice.Mode().Label()
}

// Modal keeps Esc inside the screen while the filter panel is open.
func (s *Screen) Modal() bool { return s.filtering }

// Session returns the live session.
func (s *Screen) Session() *sess.Session { return s.practice.Session() }

func (s *Screen) locked() bool {
	cur := s.Session()
	return cur.Mode().Timed() && cur.Phase() == sess.PhaseRunning
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.filtering {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Column"},
			{Key: "Space", Description: "Toggle"},
			{Key: "/", Description: "Search"},
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	}

	cur := s.Session()
	switch cur.Phase() {
	case sess.PhaseIdle:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "T", Description: "Practice type"},
			{Key: "F", Description: "Filters"},
			{Key: "Esc", Description: "Back"},
		}
	case sess.PhaseEnded:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Results"},
			{Key: "R", Description: "Restart"},
			{Key: "F", Description: "Filters"},
			{Key: "Esc", Description: "Back"},
		}
	}

	hints := []layout.KeyHint{
		{Key: "A-D", Description: "Answer"},
		{Key: "N", Description: "Next"},
		{Key: "X", Description: "End"},
	}
	if s.explainer != nil && cur.CurrentEntry().Status != sess.StatusUnattempted {
		hints = append(hints, layout.KeyHint{Key: "E", Description: "Explain"})
	}
	if !s.locked() {
		hints = append(hints,
			layout.KeyHint{Key: "R", Description: "Shuffle"},
			layout.KeyHint{Key: "F", Description: "Filters"},
		)
	}
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick(msg)

	case components.ChoiceMsg:
		return s.handleChoice(msg)

	case components.ExplainDoneMsg:
		s.explain.Apply(msg)
		return s, nil

	case tea.KeyMsg:
		if s.filtering {
			return s.handleFilterKey(msg)
		}
		return s.handleKey(msg)
	}

	if s.filtering {
		var cmd tea.Cmd
		s.panel, cmd = s.panel.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	cur := s.Session()
	key := msg.String()
	s.notice = ""

	// Option letters win while the question is open.
	if cur.Phase() == sess.PhaseRunning && cur.CurrentEntry().Status == sess.StatusUnattempted {
		if q := cur.Current(); q != nil && (isOptionKey(q, key) || navKey(key)) {
			var cmd tea.Cmd
			s.choice, cmd = s.choice.Update(msg)
			return s, cmd
		}
	}

	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case "enter", "s":
		switch cur.Phase() {
		case sess.PhaseIdle:
			return s, s.start()
		case sess.PhaseEnded:
			return s, s.showReport()
		}
		if key == "enter" {
			return s.next()
		}

	case "n", "right":
		return s.next()

	case "x":
		if cur.End() {
			s.onEnded()
			return s, s.showReport()
		}

	case "r":
		if s.locked() {
			s.notice = "Shuffling is locked while the timer runs"
			return s, nil
		}
		s.practice.Restart()
		s.resetSession()

	case "t":
		if s.locked() {
			s.notice = "Practice type is locked while the timer runs"
			return s, nil
		}
		s.practice.SetMode(nextMode(s.practice.Mode()))
		s.resetSession()

	case "f":
		if s.locked() {
			s.notice = "Filters are locked while the timer runs"
			return s, nil
		}
		s.panel = components.NewFilterPanel(s.manifest, s.practice.Filter())
		s.filtering = true

	case "e":
		if cur.CurrentEntry().Status != sess.StatusUnattempted {
			return s, s.explain.Request(s.explainer, cur.Current(), cur.CurrentEntry().SelectedKey)
		}
	}
	return s, nil
}

func (s *Screen) handleFilterKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if !s.panel.Searching() {
		switch msg.String() {
		case "esc":
			s.filtering = false
			return s, nil
		case "enter":
			s.filtering = false
			if s.practice.SetFilter(s.panel.Filter()) {
				s.resetSession()
			}
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.panel, cmd = s.panel.Update(msg)
	return s, cmd
}

func (s *Screen) handleChoice(msg components.ChoiceMsg) (screen.Screen, tea.Cmd) {
	cur := s.Session()
	q := cur.Current()
	if q == nil {
		return s, nil
	}
	status, ok := cur.Answer(msg.Key)
	if !ok {
		return s, nil
	}
	s.answerMs[q.ID] = int(time.Since(s.shownAt).Milliseconds())
	s.choice.Reveal(msg.Key)
	s.record(q, status, msg.Key)
	return s, nil
}

func (s *Screen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	cur := s.Session()
	if msg.SessionID != cur.ID() {
		return s, nil
	}
	pos := cur.Position()
	if !cur.Tick(msg.Generation) {
		return s, nil
	}
	if cur.Phase() == sess.PhaseEnded {
		s.onEnded()
		return s, s.showReport()
	}
	if cur.Position() != pos {
		s.showCurrent()
	}
	return s, tickCmd(cur)
}

func (s *Screen) next() (screen.Screen, tea.Cmd) {
	cur := s.Session()
	if !cur.CanAdvance() {
		if cur.Phase() == sess.PhaseRunning && cur.IsLast() {
			s.notice = "Last question. Press X to end the session."
		}
		return s, nil
	}
	cur.Advance()
	if cur.Phase() == sess.PhaseEnded {
		s.onEnded()
		return s, s.showReport()
	}
	s.showCurrent()
	return s, nil
}

func (s *Screen) start() tea.Cmd {
	cur := s.Session()
	if !cur.Start() {
		return nil
	}
	s.recordStart()
	if cur.Phase() == sess.PhaseEnded {
		s.onEnded()
		return nil
	}
	s.showCurrent()
	return tickCmd(cur)
}

// resetSession clears per-session state after the practice built a new
// session.
func (s *Screen) resetSession() {
	s.answerMs = make(map[string]int)
	s.recorded = make(map[string]bool)
	s.started = false
	s.finished = false
	if s.Session().Phase() == sess.PhaseRunning {
		s.recordStart()
	}
	s.showCurrent()
}

func (s *Screen) showCurrent() {
	s.choice = components.NewMultiChoice(s.Session().Current())
	s.explain.Clear()
	s.shownAt = time.Now()
}

// onEnded runs once per session when it reaches PhaseEnded.
func (s *Screen) onEnded() {
	if s.finished {
		return
	}
	s.finished = true
	s.choice.Reveal(s.Session().CurrentEntry().SelectedKey)
	s.recordEnd()
	s.saveSnapshot(context.Background())
}

func (s *Screen) buildReport() results.Input {
	cur := s.Session()
	return results.Input{
		Ledger:    cur.Ledger(),
		Questions: cur.Questions(),
		Stacks:    s.practice.Filter().TechStacks,
		Mode:      cur.Mode(),
		Elapsed:   cur.Elapsed(),
	}
}

func (s *Screen) showReport() tea.Cmd {
	in := s.buildReport()
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: results.New(in)}
	}
}

func nextMode(m sess.TimerMode) sess.TimerMode {
	for i, mode := range sess.TimerModes {
		if mode == m {
			return sess.TimerModes[(i+1)%len(sess.TimerModes)]
		}
	}
	return sess.TimerNone
}

func isOptionKey(q *bank.Question, key string) bool {
	for _, k := range q.OptionKeys() {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	for i := range q.OptionKeys() {
		if key == string(rune('1'+i)) {
			return true
		}
	}
	return false
}

func navKey(key string) bool {
	switch key {
	case "up", "down", "k", "j", "enter":
		return true
	}
	return false
}

// tickCmd arms one second of countdown for cur's live generation.
func tickCmd(cur *sess.Session) tea.Cmd {
	id, gen := cur.ID(), cur.Generation()
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{SessionID: id, Generation: gen}
	})
}
