package mcq

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/stackprep/internal/session"
	"github.com/abhisek/stackprep/internal/ui/components"
	"github.com/abhisek/stackprep/internal/ui/layout"
	"github.com/abhisek/stackprep/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.filtering {
		return s.renderFilters(width, height)
	}

	cur := s.Session()
	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, layout.Divider(width, width)))
	b.WriteString("\n\n")

	cw := min(width-8, 90)
	switch {
	case cur.Len() == 0:
		b.WriteString(renderEmpty(width))
	case cur.Phase() == sess.PhaseIdle:
		b.WriteString(s.renderIdle(width, cw))
	case cur.Phase() == sess.PhaseEnded:
		b.WriteString(s.renderEnded(width))
	default:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderQuestion(cw)))
	}

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(components.Banner(s.notice, width))
	}
	return b.String()
}

// renderInfoLine shows the position and, outside a timed run, the live score.
func (s *Screen) renderInfoLine(width int) string {
	cur := s.Session()

	info := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	infoLeft := info.Render("  No questions")
	if q := cur.Current(); q != nil {
		infoLeft = info.Render(fmt.Sprintf("  Q %d/%d  %s · %s · ",
			cur.Position()+1, cur.Len(), q.Stack, q.Topic)) +
			theme.Difficulty(string(q.Difficulty), q.Difficulty.DisplayName())
	}

	var right string
	tally := cur.Tally()
	switch {
	case s.locked():
		right = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render("⏱ " + sess.FormatClock(cur.Remaining()))
	default:
		right = fmt.Sprintf("%s %d  %s %d  %s %d",
			theme.Correct.Render("✓"), tally.Correct,
			theme.Incorrect.Render("✗"), tally.Incorrect,
			theme.Skipped.Render("↷"), tally.Skipped)
		right = lipgloss.NewStyle().Foreground(theme.TextDim).Render(right)
	}

	line := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line
}

func (s *Screen) renderQuestion(cw int) string {
	cur := s.Session()
	q := cur.Current()
	if q == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(s.choice.View(cw))

	entry := cur.CurrentEntry()
	switch entry.Status {
	case sess.StatusCorrect:
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render("Correct!"))
	case sess.StatusIncorrect:
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.Render("Not quite."))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  Answer: %s) %s", q.Answer, q.Options[q.Answer])))
	case sess.StatusSkipped:
		b.WriteString("\n")
		b.WriteString(theme.Skipped.Render("Skipped."))
	}

	if entry.Status != sess.StatusUnattempted && q.AnswerText != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render(q.AnswerText))
	}
	if s.explain.Active() {
		b.WriteString("\n\n")
		b.WriteString(s.explain.View(cw))
	}

	if cur.Mode() == sess.TimerPerQuestion || cur.Mode() == sess.TimerOverall {
		budget := sess.Budget(q.Difficulty)
		if cur.Mode() == sess.TimerOverall {
			budget = sess.OverallBudget(cur.Questions())
		}
		ratio := float64(cur.Remaining()) / float64(max(budget, 1))
		bar := components.NewProgressBar("", ratio, false, cw)
		bar.Fill = theme.Accent
		b.WriteString("\n\n")
		b.WriteString(bar.View())
	}
	return b.String()
}

func (s *Screen) renderIdle(width, cw int) string {
	cur := s.Session()
	var budget string
	switch cur.Mode() {
	case sess.TimerOverall:
		budget = fmt.Sprintf("%s for the whole run", sess.FormatClock(sess.OverallBudget(cur.Questions())))
	case sess.TimerPerQuestion:
		budget = fmt.Sprintf("%ds easy · %ds medium · %ds hard per question",
			sess.BudgetEasy, sess.BudgetMedium, sess.BudgetHard)
	}

	text := fmt.Sprintf("%s · %d questions\n%s\n\nThe score stays hidden until the run ends.",
		cur.Mode().Label(), cur.Len(), budget)
	card := components.Card(lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(text), min(cw, 60))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, card, "", components.Button("START", true, 22)))
}

func (s *Screen) renderEnded(width int) string {
	cur := s.Session()
	tally := cur.Tally()

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
		Foreground(theme.Primary).Bold(true).Render("Session over"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("Correct: %d    Incorrect: %d    Skipped: %d    Time: %s",
			tally.Correct, tally.Incorrect, tally.Skipped,
			sess.FormatClock(int(cur.Elapsed().Seconds())))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Center,
			components.Button("RESULTS", true, 18), "  ", components.Button("RESTART (R)", false, 18))))
	return b.String()
}

func (s *Screen) renderFilters(width, height int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
		Foreground(theme.Primary).Bold(true).Render("Filters"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render("Applying a change starts a fresh, reshuffled session."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.panel.View(width-4, height-4)))
	return b.String()
}

func renderEmpty(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("No questions match these filters.\n\nPress F to change them.")
}
