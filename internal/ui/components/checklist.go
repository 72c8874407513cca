package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stackprep/internal/ui/theme"
)

// Checklist is a multi-select list of strings with an optional search box.
// Nothing checked means "all".
type Checklist struct {
	Title   string
	Items   []string
	Cursor  int
	checked map[string]bool
	search  TextInput
}

// NewChecklist creates a checklist with the given items checked. Checked
// values not present in items are dropped.
func NewChecklist(title string, items, checked []string) Checklist {
	c := Checklist{
		Title:   title,
		checked: make(map[string]bool),
		search:  NewTextInput("search", 32),
	}
	c.SetItems(items)
	for _, v := range checked {
		if c.has(v) {
			c.checked[v] = true
		}
	}
	return c
}

func (c Checklist) has(v string) bool {
	for _, it := range c.Items {
		if it == v {
			return true
		}
	}
	return false
}

// SetItems replaces the items and keeps the checks that still apply.
func (c *Checklist) SetItems(items []string) {
	c.Items = append([]string(nil), items...)
	for v := range c.checked {
		if !c.has(v) {
			delete(c.checked, v)
		}
	}
	if c.Cursor >= len(c.visible()) {
		c.Cursor = max(len(c.visible())-1, 0)
	}
}

// Checked returns the checked items in item order.
func (c Checklist) Checked() []string {
	var out []string
	for _, it := range c.Items {
		if c.checked[it] {
			out = append(out, it)
		}
	}
	return out
}

// IsChecked reports whether v is checked.
func (c Checklist) IsChecked(v string) bool { return c.checked[v] }

// Searching reports whether the search box has focus.
func (c Checklist) Searching() bool { return c.search.Focused() }

// Summary is a short description of the selection.
func (c Checklist) Summary() string {
	sel := c.Checked()
	switch {
	case len(sel) == 0:
		return "All"
	case len(sel) <= 2:
		return strings.Join(sel, ", ")
	default:
		return fmt.Sprintf("%d selected", len(sel))
	}
}

// visible returns the items matching the search text.
func (c Checklist) visible() []string {
	q := strings.ToLower(strings.TrimSpace(c.search.Value()))
	if q == "" {
		return c.Items
	}
	var out []string
	for _, it := range c.Items {
		if strings.Contains(strings.ToLower(it), q) {
			out = append(out, it)
		}
	}
	return out
}

// Toggle flips the item under the cursor.
func (c *Checklist) Toggle() bool {
	vis := c.visible()
	if c.Cursor < 0 || c.Cursor >= len(vis) {
		return false
	}
	v := vis[c.Cursor]
	if c.checked[v] {
		delete(c.checked, v)
	} else {
		c.checked[v] = true
	}
	return true
}

// Update handles navigation. It reports true for changed when the checked
// set changed.
func (c Checklist) Update(msg tea.Msg) (cl Checklist, cmd tea.Cmd, changed bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}

	if c.search.Focused() {
		switch kmsg.String() {
		case "enter", "esc", "tab":
			c.search.Blur()
			return c, nil, false
		}
		c.search, cmd = c.search.Update(msg)
		if c.Cursor >= len(c.visible()) {
			c.Cursor = max(len(c.visible())-1, 0)
		}
		return c, cmd, false
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.visible())-1 {
			c.Cursor++
		}
	case "space", " ", "x":
		changed = c.Toggle()
	case "a":
		changed = len(c.checked) > 0
		clear(c.checked)
	case "/":
		return c, c.search.Focus(), false
	}
	return c, nil, changed
}

// View renders the list inside a box of the given width, showing at most
// rows items around the cursor.
func (c Checklist) View(width, rows int, focused bool) string {
	var b strings.Builder

	title := lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true)
	if focused {
		title = title.Foreground(theme.ArcadeCyan)
	}
	b.WriteString(title.Render(fmt.Sprintf("%s (%s)", c.Title, c.Summary())))
	b.WriteString("\n")
	if focused || c.search.Value() != "" {
		b.WriteString(c.search.View())
		b.WriteString("\n")
	}

	vis := c.visible()
	if len(vis) == 0 {
		b.WriteString(theme.Hint.Render("  nothing matches"))
	}

	start := 0
	if rows > 0 && c.Cursor >= rows {
		start = c.Cursor - rows + 1
	}
	for i := start; i < len(vis) && (rows <= 0 || i < start+rows); i++ {
		v := vis[i]
		box := "[ ]"
		if c.checked[v] {
			box = "[x]"
		}
		line := fmt.Sprintf(" %s %s", box, v)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case focused && i == c.Cursor:
			style = theme.Selected
			line = "▸" + line[1:]
		case c.checked[v]:
			style = style.Foreground(theme.Secondary)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	border := theme.Border
	if focused {
		border = theme.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Padding(0, 1).
		Render(strings.TrimRight(b.String(), "\n"))
}
