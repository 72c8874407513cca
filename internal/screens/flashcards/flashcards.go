package flashcards

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/router"
	"github.com/abhisek/stackprep/internal/screen"
	sess "github.com/abhisek/stackprep/internal/session"
	"github.com/abhisek/stackprep/internal/ui/components"
	"github.com/abhisek/stackprep/internal/ui/layout"
	"github.com/abhisek/stackprep/internal/ui/theme"
)

// Screen shows theory questions as a deck of cards. One card at a time
// can be open to reveal its answer.
type Screen struct {
	deck      *sess.Deck
	explainer components.Explainer
	explain   components.ExplainPanel
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a flashcard screen over cards. explainer may be nil.
func New(cards []*bank.Question, shuffle sess.Shuffler, explainer components.Explainer) *Screen {
	return &Screen{
		deck:      sess.NewDeck(cards, shuffle),
		explainer: explainer,
	}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Flashcards"
}

// Deck returns the card deck.
func (s *Screen) Deck() *sess.Deck { return s.deck }

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Card"},
		{Key: "Enter", Description: "Flip"},
		{Key: "S", Description: "Shuffle"},
	}
	if s.explainer != nil && s.deck.IsOpen(s.deck.Cursor()) {
		hints = append(hints, layout.KeyHint{Key: "E", Description: "Explain"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.ExplainDoneMsg:
		s.explain.Apply(msg)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k", "left", "h":
			if s.deck.Prev() {
				s.explain.Clear()
			}
		case "down", "j", "right", "l":
			if s.deck.Next() {
				s.explain.Clear()
			}
		case "enter", "space", " ":
			s.deck.Toggle()
			if !s.deck.IsOpen(s.deck.Cursor()) {
				s.explain.Clear()
			}
		case "s":
			s.deck.Shuffle()
			s.explain.Clear()
		case "e":
			if s.deck.IsOpen(s.deck.Cursor()) {
				return s, s.explain.Request(s.explainer, s.deck.Current(), "")
			}
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	if s.deck.Len() == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\nNo flashcards match these filters.\n\nPress Esc to change them.")
	}

	cw := min(width-8, 90)
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render(fmt.Sprintf("Card %d of %d", s.deck.Cursor()+1, s.deck.Len())))
	b.WriteString("\n\n")

	// A window of cards around the cursor; only the open card shows its answer.
	rows := max((height-6)/3, 1)
	start := max(s.deck.Cursor()-rows/2, 0)
	cards := s.deck.Cards()
	for i := start; i < len(cards) && i < start+rows; i++ {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderCard(i, cards[i], cw)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Screen) renderCard(i int, q *bank.Question, cw int) string {
	selected := i == s.deck.Cursor()

	title := lipgloss.NewStyle().Foreground(theme.Text)
	if selected {
		title = title.Foreground(theme.Primary).Bold(true)
	}
	meta := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s · %s · ", q.Stack, q.Topic)) +
		theme.Difficulty(string(q.Difficulty), q.Difficulty.DisplayName())

	var b strings.Builder
	b.WriteString(title.Width(cw - 6).Render(q.Question))
	b.WriteString("\n")
	b.WriteString(meta)

	if s.deck.IsOpen(i) {
		b.WriteString("\n\n")
		answer := q.AnswerText
		if answer == "" {
			answer = "No reference answer for this card."
		}
		b.WriteString(lipgloss.NewStyle().Width(cw - 6).Foreground(theme.Secondary).Render(answer))
		if s.explain.Active() {
			b.WriteString("\n\n")
			b.WriteString(s.explain.View(cw - 6))
		}
	}

	border := theme.Border
	if selected {
		border = theme.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw).
		Padding(0, 2).
		Render(b.String())
}
