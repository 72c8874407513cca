package session

import "github.com/abhisek/stackprep/internal/bank"

// Entry is the ledger record for one question.
type Entry struct {
	Status Status

	// SelectedKey is the chosen option key, empty when none was chosen.
	SelectedKey string
}

// Tally counts resolved questions.
type Tally struct {
	Correct   int
	Incorrect int
	Skipped   int
}

// Attempted returns the number of questions that are no longer unattempted.
func (t Tally) Attempted() int { return t.Correct + t.Incorrect + t.Skipped }

func (t *Tally) add(s Status) {
	switch s {
	case StatusCorrect:
		t.Correct++
	case StatusIncorrect:
		t.Incorrect++
	case StatusSkipped:
		t.Skipped++
	}
}

// Ledger maps question IDs to entries in session order. A question leaves
// StatusUnattempted at most once.
type Ledger struct {
	ids     []string
	entries map[string]*Entry
}

// NewLedger creates a ledger with one unattempted entry per question.
func NewLedger(questions []*bank.Question) *Ledger {
	l := &Ledger{
		ids:     make([]string, 0, len(questions)),
		entries: make(map[string]*Entry, len(questions)),
	}
	for _, q := range questions {
		if _, ok := l.entries[q.ID]; ok {
			continue
		}
		l.ids = append(l.ids, q.ID)
		l.entries[q.ID] = &Entry{}
	}
	return l
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.ids) }

// IDs returns the question IDs in session order.
func (l *Ledger) IDs() []string {
	out := make([]string, len(l.ids))
	copy(out, l.ids)
	return out
}

// Get returns the entry for id.
func (l *Ledger) Get(id string) (Entry, bool) {
	e, ok := l.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Status returns the status for id, StatusUnattempted when unknown.
func (l *Ledger) Status(id string) Status {
	if e, ok := l.entries[id]; ok {
		return e.Status
	}
	return StatusUnattempted
}

// Scan recomputes the tally from the entries.
func (l *Ledger) Scan() Tally {
	var t Tally
	for _, e := range l.entries {
		t.add(e.Status)
	}
	return t
}

// Unattempted returns the number of unattempted entries.
func (l *Ledger) Unattempted() int {
	n := 0
	for _, e := range l.entries {
		if e.Status == StatusUnattempted {
			n++
		}
	}
	return n
}

// resolve moves an unattempted entry to status. It reports false when the
// entry is unknown or already resolved.
func (l *Ledger) resolve(id string, status Status, key string) bool {
	e, ok := l.entries[id]
	if !ok || e.Status != StatusUnattempted || status == StatusUnattempted {
		return false
	}
	e.Status = status
	e.SelectedKey = key
	return true
}
