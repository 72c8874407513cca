package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stackprep/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Modal is implemented by screens that sometimes need Esc for themselves,
// for example to close a picker. While Modal reports true the app does not
// pop the screen on Esc.
type Modal interface {
	Modal() bool
}

// LoadedMsg reports the number of questions loaded for the header.
type LoadedMsg struct {
	Questions int
}

// BestStreakMsg reports a survival best streak. The header keeps the
// highest value it has seen.
type BestStreakMsg struct {
	Best int
}
