package theme

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Color palette, dark terminal first.
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate

	// Cabinet highlights used by the home screen and buttons.
	ArcadeYellow = lipgloss.Color("#FACC15")
	ArcadeCyan   = lipgloss.Color("#22D3EE")
)

var (
	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// difficultyColors keys on the normalized difficulty label.
var difficultyColors = map[string]color.Color{
	"easy":   Success,
	"medium": Accent,
	"hard":   Error,
}

// DifficultyColor returns the color for a difficulty label, TextDim for
// anything unrecognized.
func DifficultyColor(level string) color.Color {
	if c, ok := difficultyColors[strings.ToLower(level)]; ok {
		return c
	}
	return TextDim
}

// Difficulty renders label in the color of level.
func Difficulty(level, label string) string {
	return lipgloss.NewStyle().Foreground(DifficultyColor(level)).Render(label)
}

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Skipped = lipgloss.NewStyle().
		Foreground(Accent)
)
