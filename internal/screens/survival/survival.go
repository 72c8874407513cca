package survival

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/router"
	"github.com/abhisek/stackprep/internal/screen"
	sess "github.com/abhisek/stackprep/internal/session"
	"github.com/abhisek/stackprep/internal/store"
	"github.com/abhisek/stackprep/internal/ui/components"
	"github.com/abhisek/stackprep/internal/ui/layout"
	"github.com/abhisek/stackprep/internal/ui/theme"

	"github.com/google/uuid"
)

// feedbackDoneMsg ends the feedback pause of the given generation.
type feedbackDoneMsg struct {
	Generation uint64
}

// Options wires a survival screen.
type Options struct {
	Questions []*bank.Question
	Shuffle   sess.Shuffler
	Best      int // best streak carried over from earlier runs
	Events    store.EventRepo
	Snapshots store.SnapshotRepo
	Explainer components.Explainer
	Logger    *slog.Logger

	// Delay overrides session.FeedbackDelay.
	Delay time.Duration
}

// Screen runs a survival streak over MCQs.
type Screen struct {
	run       *sess.Survival
	best      int
	delay     time.Duration
	events    store.EventRepo
	snaps     store.SnapshotRepo
	explainer components.Explainer
	logger    *slog.Logger

	choice  components.MultiChoice
	explain components.ExplainPanel
	runID   string
	started time.Time
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New starts a run.
func New(opts Options) *Screen {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = sess.FeedbackDelay
	}
	s := &Screen{
		run:       sess.NewSurvival(opts.Questions, opts.Shuffle),
		best:      opts.Best,
		delay:     delay,
		events:    opts.Events,
		snaps:     opts.Snapshots,
		explainer: opts.Explainer,
		logger:    logger,
	}
	s.beginRun()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Survival"
}

// Run returns the survival state.
func (s *Screen) Run() *sess.Survival { return s.run }

// Best returns the best streak including earlier runs.
func (s *Screen) Best() int { return max(s.best, s.run.Best()) }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.run.GameOver() {
		hints := []layout.KeyHint{{Key: "R", Description: "Try again"}}
		if s.explainer != nil {
			hints = append(hints, layout.KeyHint{Key: "E", Description: "Explain"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return []layout.KeyHint{
		{Key: "A-D", Description: "Answer"},
		{Key: "↑↓", Description: "Move"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.ChoiceMsg:
		return s.handleChoice(msg)

	case feedbackDoneMsg:
		if s.run.Continue(msg.Generation) {
			s.showCurrent()
			if s.run.Streak() > s.best && s.run.Streak() == s.run.Best() {
				best := s.Best()
				return s, func() tea.Msg { return screen.BestStreakMsg{Best: best} }
			}
		}
		return s, nil

	case components.ExplainDoneMsg:
		s.explain.Apply(msg)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		if s.run.GameOver() {
			switch msg.String() {
			case "r", "enter":
				s.run.Restart()
				s.beginRun()
			case "e":
				return s, s.explain.Request(s.explainer, s.run.Current(), s.run.Selected())
			}
			return s, nil
		}
		if s.run.Phase() == sess.SurvivalPlaying {
			var cmd tea.Cmd
			s.choice, cmd = s.choice.Update(msg)
			return s, cmd
		}
	}
	return s, nil
}

func (s *Screen) handleChoice(msg components.ChoiceMsg) (screen.Screen, tea.Cmd) {
	q := s.run.Current()
	correct, ok := s.run.Answer(msg.Key)
	if !ok {
		return s, nil
	}
	s.choice.Reveal(msg.Key)
	s.recordAnswer(q, correct, msg.Key)

	if !correct {
		s.recordEnd()
		return s, nil
	}
	gen := s.run.Generation()
	return s, tea.Tick(s.delay, func(time.Time) tea.Msg {
		return feedbackDoneMsg{Generation: gen}
	})
}

func (s *Screen) beginRun() {
	s.runID = uuid.New().String()
	s.started = time.Now()
	s.showCurrent()
}

func (s *Screen) showCurrent() {
	s.choice = components.NewMultiChoice(s.run.Current())
	s.explain.Clear()
}

func (s *Screen) recordAnswer(q *bank.Question, correct bool, key string) {
	if s.events == nil || q == nil {
		return
	}
	status := sess.StatusIncorrect
	if correct {
		status = sess.StatusCorrect
	}
	err := s.events.AppendAnswerEvent(context.Background(), store.AnswerEventData{
		SessionID:   s.runID,
		QuestionID:  q.ID,
		Stack:       bank.CanonicalStack(q.Stack),
		Topic:       q.Topic,
		Difficulty:  string(q.Difficulty),
		SelectedKey: key,
		Status:      status.String(),
	})
	if err != nil {
		s.logger.Warn("record survival answer", "question", q.ID, "err", err)
	}
}

// recordEnd stores the finished run and the best streak.
func (s *Screen) recordEnd() {
	ctx := context.Background()
	streak := s.run.Streak()
	if s.events != nil {
		err := s.events.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:    s.runID,
			Action:       store.ActionEnd,
			Mode:         "survival",
			Questions:    streak + 1,
			Correct:      streak,
			Incorrect:    1,
			Score:        streak,
			DurationSecs: int(time.Since(s.started).Seconds()),
		})
		if err != nil {
			s.logger.Warn("record survival end", "err", err)
		}
	}

	if s.snaps == nil {
		return
	}
	data := store.SnapshotData{Version: 1}
	if prev, err := s.snaps.Latest(ctx); err == nil && prev != nil {
		data = prev.Data
	}
	if s.Best() <= data.BestStreak {
		return
	}
	data.BestStreak = s.Best()
	if err := s.snaps.Save(ctx, &store.Snapshot{Timestamp: time.Now(), Data: data}); err != nil {
		s.logger.Warn("save best streak", "err", err)
	}
}

func (s *Screen) View(width, height int) string {
	if s.run.Len() == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\nNo MCQs match these filters.\n\nPress Esc to change them.")
	}

	cw := min(width-8, 90)
	var b strings.Builder

	stats := fmt.Sprintf("Streak %d    Best %d", s.run.Streak(), s.Best())
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
		Foreground(theme.ArcadeYellow).Bold(true).Render(stats))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, layout.Divider(width, cw)))
	b.WriteString("\n\n")

	var body strings.Builder
	body.WriteString(s.choice.View(cw))
	switch s.run.Phase() {
	case sess.SurvivalFeedback:
		body.WriteString("\n")
		body.WriteString(theme.Correct.Render("Correct! Keep going..."))
	case sess.SurvivalOver:
		q := s.run.Current()
		body.WriteString("\n")
		body.WriteString(theme.Incorrect.Render(fmt.Sprintf("Game over! Final streak: %d", s.run.Streak())))
		body.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  Answer: %s) %s", q.Answer, q.Options[q.Answer])))
		if q.AnswerText != "" {
			body.WriteString("\n\n")
			body.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render(q.AnswerText))
		}
		if s.explain.Active() {
			body.WriteString("\n\n")
			body.WriteString(s.explain.View(cw))
		}
		body.WriteString("\n\n")
		body.WriteString(components.Button("TRY AGAIN", true, 22))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body.String()))
	return b.String()
}
