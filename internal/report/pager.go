package report

// Pager steps through a report one stack at a time. The index is clamped
// at both ends.
type Pager struct {
	report Report
	index  int
}

// NewPager creates a pager positioned at the first stack.
func NewPager(r Report) *Pager {
	return &Pager{report: r}
}

// Len returns the number of pages.
func (p *Pager) Len() int { return len(p.report.Stacks) }

// Index returns the current page index.
func (p *Pager) Index() int { return p.index }

// Current returns the stack on the current page.
func (p *Pager) Current() (StackReport, bool) {
	if p.index < 0 || p.index >= len(p.report.Stacks) {
		return StackReport{}, false
	}
	return p.report.Stacks[p.index], true
}

// HasNext reports whether a page follows the current one.
func (p *Pager) HasNext() bool { return p.index < len(p.report.Stacks)-1 }

// HasPrev reports whether a page precedes the current one.
func (p *Pager) HasPrev() bool { return p.index > 0 }

// Next moves forward. It reports false at the last page.
func (p *Pager) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.index++
	return true
}

// Prev moves back. It reports false at the first page.
func (p *Pager) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.index--
	return true
}

// Report returns the paged report.
func (p *Pager) Report() Report { return p.report }
