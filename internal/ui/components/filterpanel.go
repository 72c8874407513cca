package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stackprep/internal/bank"
)

// Filter panel columns.
const (
	FieldDifficulty = iota
	FieldStack
	FieldTopic
	fieldCount
)

// FilterPanel edits a bank.Filter with one checklist per dimension. The
// topic list follows the checked stacks.
type FilterPanel struct {
	manifest bank.Manifest
	lists    [fieldCount]Checklist
	Focus    int
}

// NewFilterPanel creates a panel showing f.
func NewFilterPanel(m bank.Manifest, f bank.Filter) FilterPanel {
	diffs := make([]string, len(bank.Difficulties))
	for i, d := range bank.Difficulties {
		diffs[i] = string(d)
	}
	p := FilterPanel{manifest: m}
	p.lists[FieldDifficulty] = NewChecklist("Difficulty", diffs, f.Difficulties)
	p.lists[FieldStack] = NewChecklist("Tech stack", m.TechStacks(), f.TechStacks)
	p.lists[FieldTopic] = NewChecklist("Topic", m.TopicsFor(f.TechStacks...), f.Topics)
	return p
}

// Filter returns the filter the panel currently shows.
func (p FilterPanel) Filter() bank.Filter {
	return bank.Filter{
		Difficulties: p.lists[FieldDifficulty].Checked(),
		TechStacks:   p.lists[FieldStack].Checked(),
		Topics:       p.lists[FieldTopic].Checked(),
	}
}

// List returns the checklist of a field.
func (p FilterPanel) List(field int) Checklist { return p.lists[field] }

// Searching reports whether a search box has focus.
func (p FilterPanel) Searching() bool { return p.lists[p.Focus].Searching() }

// Update moves between columns with tab and forwards other keys to the
// focused column.
func (p FilterPanel) Update(msg tea.Msg) (FilterPanel, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && !p.Searching() {
		switch kmsg.String() {
		case "tab", "right", "l":
			p.Focus = (p.Focus + 1) % fieldCount
			return p, nil
		case "shift+tab", "left", "h":
			p.Focus = (p.Focus + fieldCount - 1) % fieldCount
			return p, nil
		}
	}

	var cmd tea.Cmd
	var changed bool
	p.lists[p.Focus], cmd, changed = p.lists[p.Focus].Update(msg)
	if changed && p.Focus == FieldStack {
		p.lists[FieldTopic].SetItems(p.manifest.TopicsFor(p.lists[FieldStack].Checked()...))
	}
	return p, cmd
}

// View renders the three columns side by side.
func (p FilterPanel) View(width, height int) string {
	colWidth := max((width-6)/fieldCount, 16)
	rows := max(height-5, 3)

	cols := make([]string, fieldCount)
	for i := range p.lists {
		cols[i] = p.lists[i].View(colWidth, rows, i == p.Focus)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}
