package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/stackprep/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a ratio in [0, 1].
type ProgressBar struct {
	Label       string
	Ratio       float64
	ShowPercent bool
	Width       int
	Fill        color.Color
}

// NewProgressBar creates a new progress bar filled with the secondary color.
func NewProgressBar(label string, ratio float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Ratio:       ratio,
		ShowPercent: showPercent,
		Width:       width,
		Fill:        theme.Secondary,
	}
}

// ScoreColor picks the bar color for a percentage score.
func ScoreColor(percent int) color.Color {
	switch {
	case percent > 75:
		return theme.Success
	case percent > 50:
		return theme.Secondary
	case percent > 25:
		return theme.Accent
	default:
		return theme.Error
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := p.Width - lipgloss.Width(result) - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	ratio := min(max(p.Ratio, 0), 1)
	filled := int(float64(barWidth) * ratio)
	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}

	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(ratio*100+0.5)))
	}
	return result
}
