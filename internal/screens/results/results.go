package results

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/report"
	"github.com/abhisek/stackprep/internal/router"
	"github.com/abhisek/stackprep/internal/screen"
	sess "github.com/abhisek/stackprep/internal/session"
	"github.com/abhisek/stackprep/internal/ui/components"
	"github.com/abhisek/stackprep/internal/ui/layout"
	"github.com/abhisek/stackprep/internal/ui/theme"
)

// Input is what the results screen needs from a finished session.
type Input struct {
	Ledger    *sess.Ledger
	Questions []*bank.Question
	Stacks    []string // active stack filter; empty reports every stack seen
	Mode      sess.TimerMode
	Elapsed   time.Duration
}

// Screen pages through the per-stack report of a finished session.
type Screen struct {
	pager   *report.Pager
	mode    sess.TimerMode
	elapsed time.Duration
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New builds the report for in.
func New(in Input) *Screen {
	return &Screen{
		pager:   report.NewPager(report.Build(in.Ledger, in.Questions, in.Stacks)),
		mode:    in.Mode,
		elapsed: in.Elapsed,
	}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Results"
}

// Pager exposes the report pager.
func (s *Screen) Pager() *report.Pager { return s.pager }

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	if s.pager.Len() > 1 {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Stack"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Review"},
		layout.KeyHint{Key: "H", Description: "Home"},
	)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "right", "l", "n", "tab":
			s.pager.Next()
		case "left", "h", "p", "shift+tab":
			s.pager.Prev()
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "H", "home":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Session complete!"))
	b.WriteString("\n\n")

	total := s.pager.Report().Overall()
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s · %s", s.mode.Label(), sess.FormatClock(int(s.elapsed.Seconds())))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Attempted: %d/%d    Correct: %d    Score: %d%%",
			total.Attempted, total.Total, total.Correct, total.Score)))
	b.WriteString("\n\n")

	sr, ok := s.pager.Current()
	if !ok {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.TextDim).Italic(true).Render("No questions were in this session."))
		return b.String()
	}
	b.WriteString(renderStack(sr, s.pager, width))
	return b.String()
}

func renderStack(sr report.StackReport, p *report.Pager, width int) string {
	cw := min(width-8, 64)
	center := func(s string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, s) }

	var b strings.Builder

	page := fmt.Sprintf("%s  (%d/%d)", sr.Stack, p.Index()+1, p.Len())
	if p.HasPrev() {
		page = "◂ " + page
	}
	if p.HasNext() {
		page += " ▸"
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Render(page)))
	b.WriteString("\n")
	b.WriteString(center(layout.Divider(width, cw)))
	b.WriteString("\n")

	b.WriteString(center(fmt.Sprintf("%s %d   %s %d   %s %d   %s %d",
		theme.Correct.Render("correct"), sr.Correct,
		theme.Incorrect.Render("incorrect"), sr.Incorrect,
		theme.Skipped.Render("skipped"), sr.Skipped,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("unattempted"), sr.Unattempted)))
	b.WriteString("\n")
	score := components.NewProgressBar("Score", float64(sr.Score)/100, true, cw)
	score.Fill = components.ScoreColor(sr.Score)
	b.WriteString(center(score.View()))
	b.WriteString("\n\n")

	for _, t := range sr.Topics {
		label := fmt.Sprintf("%-22s %2d/%-2d", truncate(t.Topic, 22), t.Correct, t.Attempted)
		bar := components.NewProgressBar(label, float64(t.Percent)/100, true, cw)
		bar.Fill = components.ScoreColor(t.Percent)
		b.WriteString(center(bar.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(center(rankLine("Strongest", sr.Strongest, theme.Correct)))
	b.WriteString("\n")
	b.WriteString(center(rankLine("Needs work", sr.Weakest, theme.Incorrect)))
	return b.String()
}

func rankLine(title string, topics []report.TopicReport, style lipgloss.Style) string {
	if len(topics) == 0 {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(title + ": none")
	}
	parts := make([]string, len(topics))
	for i, t := range topics {
		parts[i] = fmt.Sprintf("%s %d%%", t.Topic, t.Percent)
	}
	return style.Render(title+": ") + lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(parts, " · "))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
