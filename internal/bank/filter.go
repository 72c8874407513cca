package bank

import (
	"slices"
	"strings"
)

// Filter selects questions by difficulty, tech stack and topic. An empty
// dimension does not filter. Filters are values: build a new one to change
// the selection.
type Filter struct {
	Difficulties []string
	TechStacks   []string
	Topics       []string
}

// IsZero reports whether the filter selects every question.
func (f Filter) IsZero() bool {
	return len(f.Difficulties) == 0 && len(f.TechStacks) == 0 && len(f.Topics) == 0
}

// Equal reports whether f and o select the same questions. Order,
// duplicates and case are ignored; stacks compare canonically.
func (f Filter) Equal(o Filter) bool {
	return sameSet(f.Difficulties, o.Difficulties, normalizeKey) &&
		sameSet(f.TechStacks, o.TechStacks, CanonicalStack) &&
		sameSet(f.Topics, o.Topics, normalizeKey)
}

// canonicalStacks lists the known stacks in match order. "pyspark" must be
// tested before "spark".
var canonicalStacks = []string{"pyspark", "spark", "airflow", "python", "java", "sql"}

// CanonicalStack maps a stack name variant ("PySpark 3.x", "Apache Spark")
// to one of the known stacks. Unknown names are returned trimmed and
// lower-cased.
func CanonicalStack(s string) string {
	v := normalizeKey(s)
	if v == "" {
		return ""
	}
	for _, c := range canonicalStacks {
		if strings.Contains(v, c) {
			return c
		}
	}
	return v
}

// FilterQuestions returns the questions matching f, preserving input order.
// The result never aliases the input slice.
func FilterQuestions(questions []*Question, f Filter) []*Question {
	diffs := keySet(f.Difficulties, normalizeKey)
	stacks := keySet(f.TechStacks, CanonicalStack)
	topics := keySet(f.Topics, normalizeKey)

	out := make([]*Question, 0, len(questions))
	for _, q := range questions {
		if q == nil {
			continue
		}
		if len(diffs) > 0 && !diffs[normalizeKey(string(q.Difficulty))] {
			continue
		}
		if len(stacks) > 0 && !matchesStack(q, stacks) {
			continue
		}
		if len(topics) > 0 && !matchesTopic(q, topics) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func matchesStack(q *Question, stacks map[string]bool) bool {
	return slices.ContainsFunc(q.Stacks(), func(s string) bool {
		return stacks[CanonicalStack(s)]
	})
}

func matchesTopic(q *Question, topics map[string]bool) bool {
	if topics[normalizeKey(q.Topic)] {
		return true
	}
	return slices.ContainsFunc(q.Tags, func(t string) bool {
		return topics[normalizeKey(t)]
	})
}

func keySet(vals []string, norm func(string) string) map[string]bool {
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		if k := norm(v); k != "" {
			set[k] = true
		}
	}
	return set
}

func sameSet(a, b []string, norm func(string) string) bool {
	as, bs := keySet(a, norm), keySet(b, norm)
	if len(as) != len(bs) {
		return false
	}
	for k := range as {
		if !bs[k] {
			return false
		}
	}
	return true
}

// Index is a read-only lookup of questions by qualified ID.
type Index struct {
	byID map[string]*Question
}

// NewIndex indexes questions. Later duplicates of an ID are ignored.
func NewIndex(questions ...[]*Question) *Index {
	idx := &Index{byID: make(map[string]*Question)}
	for _, qs := range questions {
		for _, q := range qs {
			if _, ok := idx.byID[q.ID]; !ok {
				idx.byID[q.ID] = q
			}
		}
	}
	return idx
}

// Get returns the question with id.
func (idx *Index) Get(id string) (*Question, bool) {
	q, ok := idx.byID[id]
	return q, ok
}

// Len returns the number of indexed questions.
func (idx *Index) Len() int { return len(idx.byID) }
