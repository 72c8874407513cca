package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stackprep/internal/router"
	"github.com/abhisek/stackprep/internal/screen"
	"github.com/abhisek/stackprep/internal/store"
	"github.com/abhisek/stackprep/internal/ui/components"
	"github.com/abhisek/stackprep/internal/ui/layout"
	"github.com/abhisek/stackprep/internal/ui/theme"
)

// listLimit caps how many finished sessions are loaded.
const listLimit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Err      error
}

// HistoryScreen lists finished sessions, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []store.SessionRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. A nil repo shows an empty history.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		sessions, err := repo.RecentSessions(context.Background(), listLimit)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := prefix + summaryLine(rec)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, details(rec)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func summaryLine(rec store.SessionRecord) string {
	date := rec.Timestamp.Local().Format("Jan 02, 2006 15:04")
	duration := fmt.Sprintf("%d:%02d", rec.DurationSecs/60, rec.DurationSecs%60)

	if rec.Mode == "survival" {
		return fmt.Sprintf("%s  %s  Survival  streak %d", date, duration, rec.Score)
	}
	timer := rec.TimerMode
	if timer == "" {
		timer = "none"
	}
	return fmt.Sprintf("%s  %s  %s/%s  %d questions  %d%%",
		date, duration, strings.ToUpper(rec.Mode), timer, rec.Questions, rec.Score)
}

func details(rec store.SessionRecord) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if len(rec.Stacks) == 0 {
		return dim.Italic(true).Render(fmt.Sprintf("    ✓ %d  ✗ %d  ↷ %d",
			rec.Correct, rec.Incorrect, rec.Skipped))
	}

	var lines []string
	for _, st := range rec.Stacks {
		head := fmt.Sprintf("    %-14s %3d%%  %d/%d attempted", st.Stack, st.Score, st.Attempted, st.Total)
		lines = append(lines, lipgloss.NewStyle().Foreground(components.ScoreColor(st.Score)).Render(head))
		if len(st.Strongest) > 0 {
			lines = append(lines, dim.Render("      Strongest: "+strings.Join(st.Strongest, ", ")))
		}
		if len(st.Weakest) > 0 {
			lines = append(lines, dim.Render("      Needs work: "+strings.Join(st.Weakest, ", ")))
		}
	}
	return strings.Join(lines, "\n")
}
