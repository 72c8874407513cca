package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/stackprep/internal/ui/theme"
)

// Smallest terminal the quiz renders in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Status is the right-hand side of the header bar.
type Status struct {
	Questions  int // loaded question count
	BestStreak int // best survival streak
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// barInner is the usable width inside a bar's border and padding.
func barInner(width int) int {
	return max(width-4, 0)
}

// RenderHeader renders the brand, the active screen title centered, and
// the loaded question count with the best streak.
func RenderHeader(title string, st Status, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  stackprep")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	stats := lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("▣ %d questions", st.Questions)) +
		"   " +
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("★ best %d", st.BestStreak))

	return bar.Width(width).Render(spread(brand, center, stats, barInner(width)))
}

// spread places center in the middle of width with left and right at the
// edges, keeping at least one space between neighbors.
func spread(left, center, right string, width int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((width-cw)/2-lw, 1)
	rightGap := max(width-lw-leftGap-cw-rw, 1)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

// RenderFooter renders the key hints. Trailing hints that would overflow
// the bar are dropped.
func RenderFooter(hints []KeyHint, width int) string {
	const sep = "   "
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	line := "  "
	room := barInner(width)
	for i, h := range hints {
		part := keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		if i > 0 {
			part = sep + part
		}
		if lipgloss.Width(line)+lipgloss.Width(part) > room {
			break
		}
		line += part
	}
	return bar.Width(width).Render(line)
}

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)
	return header + "\n" + body + "\n" + footer
}

// Divider returns a horizontal rule eight cells narrower than width,
// capped at limit.
func Divider(width, limit int) string {
	w := max(min(width-8, limit), 1)
	return lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", w))
}
