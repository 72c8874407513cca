package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stackprep/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default purple
	MascotCelebrating                      // Gold, star eyes: long survival streak
	MascotAlert                            // Orange, exclamation: no questions loaded
)

// celebrateStreak is the best streak that earns the celebrating mascot.
const celebrateStreak = 10

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ {;} │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ {;} │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ {;} │
└─────┘`

// mascotFor picks the variant for the home dashboard.
func mascotFor(questions, best int) MascotVariant {
	switch {
	case questions == 0:
		return MascotAlert
	case best >= celebrateStreak:
		return MascotCelebrating
	default:
		return MascotIdle
	}
}

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch v {
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.ArcadeYellow
	case MascotAlert:
		art, fg = mascotAlert, theme.Accent
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
