package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/ui/theme"
)

// ChoiceMsg is returned by MultiChoice when an option is picked.
type ChoiceMsg struct {
	Key string
}

// MultiChoice renders the options of one MCQ and moves a cursor over them.
// It does not score: the owner decides what a pick means and calls Reveal.
type MultiChoice struct {
	Question *bank.Question
	Keys     []string
	Cursor   int

	revealed bool
	chosen   string
}

// NewMultiChoice creates a selector for q.
func NewMultiChoice(q *bank.Question) MultiChoice {
	m := MultiChoice{Question: q}
	if q != nil {
		m.Keys = q.OptionKeys()
	}
	return m
}

// Update moves the cursor and emits ChoiceMsg on Enter or an option letter.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || m.revealed || len(m.Keys) == 0 {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case "down", "j":
		if m.Cursor < len(m.Keys)-1 {
			m.Cursor++
		}
		return m, nil
	case "enter":
		return m, choose(m.Keys[m.Cursor])
	}

	for i, k := range m.Keys {
		if strings.EqualFold(k, key) || key == fmt.Sprint(i+1) {
			m.Cursor = i
			return m, choose(k)
		}
	}
	return m, nil
}

func choose(key string) tea.Cmd {
	return func() tea.Msg { return ChoiceMsg{Key: key} }
}

// Reveal freezes the selector and colors the answer and the chosen key.
// An empty chosen key reveals the answer only.
func (m *MultiChoice) Reveal(chosen string) {
	m.revealed = true
	m.chosen = chosen
}

// Revealed reports whether Reveal was called.
func (m MultiChoice) Revealed() bool { return m.revealed }

// View renders the question and its options.
func (m MultiChoice) View(width int) string {
	q := m.Question
	if q == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Question))
	b.WriteString("\n\n")

	for i, k := range m.Keys {
		prefix := "  "
		if i == m.Cursor && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, k, q.Options[k])

		style := lipgloss.NewStyle().Width(width).Foreground(theme.Text)
		switch {
		case m.revealed && q.IsCorrect(k):
			style = style.Foreground(theme.Success).Bold(true)
		case m.revealed && k == m.chosen:
			style = style.Foreground(theme.Error).Bold(true)
		case m.revealed:
			style = style.Foreground(theme.TextDim)
		case i == m.Cursor:
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
