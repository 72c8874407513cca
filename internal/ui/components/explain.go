package components

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/explain"
	"github.com/abhisek/stackprep/internal/ui/theme"
)

// Explainer produces explanations for a question and the picked option.
type Explainer interface {
	Explain(ctx context.Context, q *bank.Question, selectedKey string) (*explain.Explanation, error)
}

// ExplainDoneMsg carries the outcome of an explanation request.
type ExplainDoneMsg struct {
	QuestionID string
	Result     *explain.Explanation
	Err        error
}

// ExplainPanel shows the explanation of at most one question.
type ExplainPanel struct {
	questionID string
	loading    bool
	result     *explain.Explanation
	err        error
}

// Request starts loading an explanation for q. It returns nil when ex is
// nil or a request for q is already in flight or done.
func (p *ExplainPanel) Request(ex Explainer, q *bank.Question, selectedKey string) tea.Cmd {
	if ex == nil || q == nil {
		return nil
	}
	if p.questionID == q.ID && (p.loading || p.result != nil) {
		return nil
	}
	p.questionID = q.ID
	p.loading = true
	p.result = nil
	p.err = nil
	return func() tea.Msg {
		res, err := ex.Explain(context.Background(), q, selectedKey)
		return ExplainDoneMsg{QuestionID: q.ID, Result: res, Err: err}
	}
}

// Apply stores msg if it belongs to the question the panel shows.
func (p *ExplainPanel) Apply(msg ExplainDoneMsg) bool {
	if msg.QuestionID != p.questionID || !p.loading {
		return false
	}
	p.loading = false
	p.result = msg.Result
	p.err = msg.Err
	return true
}

// Clear hides the panel. A response still in flight is dropped on arrival.
func (p *ExplainPanel) Clear() {
	*p = ExplainPanel{}
}

// Active reports whether the panel has anything to show.
func (p ExplainPanel) Active() bool { return p.questionID != "" }

// Loading reports whether a request is in flight.
func (p ExplainPanel) Loading() bool { return p.loading }

// View renders the panel at the given width.
func (p ExplainPanel) View(width int) string {
	if !p.Active() {
		return ""
	}
	style := lipgloss.NewStyle().Width(width).Foreground(theme.Text)

	switch {
	case p.loading:
		return theme.Hint.Render("Asking for an explanation...")
	case p.err != nil:
		return lipgloss.NewStyle().Width(width).Foreground(theme.Error).
			Render("Explanation unavailable: " + p.err.Error())
	case p.result == nil:
		return ""
	}

	var b strings.Builder
	b.WriteString(style.Render(p.result.Summary))
	if p.result.WhyCorrect != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Correct.Render("Why it's right: "))
		b.WriteString(style.Render(p.result.WhyCorrect))
	}
	if p.result.WhyWrong != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render("Why your pick is wrong: "))
		b.WriteString(style.Render(p.result.WhyWrong))
	}
	return b.String()
}
