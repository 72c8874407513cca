package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/stackprep/internal/ui/components"
	"github.com/abhisek/stackprep/internal/ui/theme"
)

// Block-letter title.
const arcadeTitleFull = `███████╗████████╗ █████╗  ██████╗██╗  ██╗██████╗ ██████╗ ███████╗██████╗
██╔════╝╚══██╔══╝██╔══██╗██╔════╝██║ ██╔╝██╔══██╗██╔══██╗██╔════╝██╔══██╗
███████╗   ██║   ███████║██║     █████╔╝ ██████╔╝██████╔╝█████╗  ██████╔╝
╚════██║   ██║   ██╔══██║██║     ██╔═██╗ ██╔═══╝ ██╔══██╗██╔══╝  ██╔═══╝
███████║   ██║   ██║  ██║╚██████╗██║  ██╗██║     ██║  ██║███████╗██║
╚══════╝   ╚═╝   ╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝╚═╝     ╚═╝  ╚═╝╚══════╝╚═╝`

const arcadeTitleCompact = "S · T · A · C · K · P · R · E · P"

// titleWidth is the width of arcadeTitleFull.
const titleWidth = 73

// maxContentWidth caps the home sections on wide terminals.
const maxContentWidth = 76

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 30

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	art := arcadeTitleFull
	if compact || cw < titleWidth {
		art = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(questions, stacks, best int, cw int, compact bool) string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	stackStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	bestStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			questionStyle.Render(fmt.Sprintf("▣%d", questions)),
			stackStyle.Render(fmt.Sprintf("◆%d", stacks)),
			bestStyle.Render(fmt.Sprintf("★%d", best)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			questionStyle.Render(fmt.Sprintf("▣ %d QUESTIONS", questions)),
			stackStyle.Render(fmt.Sprintf("◆ %d STACKS", stacks)),
			bestStyle.Render(fmt.Sprintf("★ BEST STREAK %d", best)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(labels []string, selected int, disabled map[int]bool, cw int) string {
	disabledBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	var buttons []string
	for i, label := range labels {
		if disabled[i] {
			buttons = append(buttons, disabledBtn.Render(label))
			continue
		}
		buttons = append(buttons, components.Button(label, i == selected, buttonWidth))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderArcadeMenuCompact renders menu items as simple text lines (no borders)
// for small terminals where bordered buttons would overflow.
func renderArcadeMenuCompact(labels []string, selected int, disabled map[int]bool, cw int) string {
	var lines []string
	for i, label := range labels {
		var line string
		switch {
		case disabled[i]:
			line = lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + label)
		case i == selected:
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + label + " ")
		default:
			line = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
		}
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
