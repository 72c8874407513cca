package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stackprep/internal/ui/theme"
)

// TextInput wraps bubbles/textinput for one-line search boxes.
type TextInput struct {
	Model    textinput.Model
	MaxWidth int
}

// NewTextInput creates a blurred text input.
func NewTextInput(placeholder string, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	return TextInput{Model: ti, MaxWidth: maxWidth}
}

// Focus starts accepting keys.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur stops accepting keys and keeps the value.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input accepts keys.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Reset clears the value.
func (t *TextInput) Reset() {
	t.Model.SetValue("")
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	if !t.Focused() && t.Value() == "" {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("/ search")
	}
	return t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}
