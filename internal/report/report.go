// Package report derives per-stack and per-topic results from a finished
// session ledger.
package report

import (
	"math"
	"sort"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/session"
)

// MaxRanked caps the strongest and weakest topic lists.
const MaxRanked = 3

// StrongThreshold is the percentage a topic must exceed to rank as strong.
const StrongThreshold = 50

// TopicReport is the result for one topic within a stack.
type TopicReport struct {
	Topic     string `json:"topic"`
	Attempted int    `json:"attempted"`
	Correct   int    `json:"correct"`
	Percent   int    `json:"percent"`
}

// StackReport is the result for one tech stack.
type StackReport struct {
	Stack       string        `json:"stack"`
	Total       int           `json:"total"`
	Attempted   int           `json:"attempted"`
	Correct     int           `json:"correct"`
	Incorrect   int           `json:"incorrect"`
	Skipped     int           `json:"skipped"`
	Unattempted int           `json:"unattempted"`
	Score       int           `json:"score"`
	Topics      []TopicReport `json:"topics"`
	Strongest   []TopicReport `json:"strongest"`
	Weakest     []TopicReport `json:"weakest"`
}

// Report holds one StackReport per active stack.
type Report struct {
	Stacks []StackReport `json:"stacks"`
}

// Percent returns round(100*correct/attempted), 0 when attempted is 0.
func Percent(correct, attempted int) int {
	if attempted <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(attempted)))
}

// Build aggregates the ledger for each of stacks. When stacks is empty the
// stacks present in questions are used in encounter order. Stack names
// match canonically, so "PySpark 3" reports under "PySpark". A question is
// counted once, under its primary stack or else its first listed alias.
func Build(ledger *session.Ledger, questions []*bank.Question, stacks []string) Report {
	if len(stacks) == 0 {
		stacks = encounterStacks(questions)
	}

	var canons []string
	names := make(map[string]string)
	for _, name := range stacks {
		canon := bank.CanonicalStack(name)
		if canon == "" || names[canon] != "" {
			continue
		}
		names[canon] = name
		canons = append(canons, canon)
	}

	owned := make(map[string][]*bank.Question, len(canons))
	for _, q := range questions {
		if c := owner(q, names); c != "" {
			owned[c] = append(owned[c], q)
		}
	}

	var r Report
	for _, canon := range canons {
		r.Stacks = append(r.Stacks, buildStack(ledger, owned[canon], names[canon]))
	}
	return r
}

// owner picks the one reported stack a question counts under: its primary
// stack when reported, else its first reported alias.
func owner(q *bank.Question, reported map[string]string) string {
	for _, s := range q.Stacks() {
		if c := bank.CanonicalStack(s); reported[c] != "" {
			return c
		}
	}
	return ""
}

type topicAcc struct {
	topic     string
	attempted int
	correct   int
}

func buildStack(ledger *session.Ledger, questions []*bank.Question, name string) StackReport {
	sr := StackReport{Stack: name}

	var topics []*topicAcc
	byTopic := make(map[string]*topicAcc)

	for _, q := range questions {
		sr.Total++
		status := session.StatusUnattempted
		if ledger != nil {
			status = ledger.Status(q.ID)
		}

		acc, ok := byTopic[q.Topic]
		if !ok {
			acc = &topicAcc{topic: q.Topic}
			byTopic[q.Topic] = acc
			topics = append(topics, acc)
		}

		switch status {
		case session.StatusCorrect:
			sr.Correct++
			acc.correct++
		case session.StatusIncorrect:
			sr.Incorrect++
		case session.StatusSkipped:
			sr.Skipped++
		default:
			sr.Unattempted++
			continue
		}
		acc.attempted++
	}

	sr.Attempted = sr.Correct + sr.Incorrect + sr.Skipped
	sr.Score = Percent(sr.Correct, sr.Attempted)

	sr.Topics = make([]TopicReport, 0, len(topics))
	for _, acc := range topics {
		sr.Topics = append(sr.Topics, TopicReport{
			Topic:     acc.topic,
			Attempted: acc.attempted,
			Correct:   acc.correct,
			Percent:   Percent(acc.correct, acc.attempted),
		})
	}
	sr.Strongest, sr.Weakest = rank(sr.Topics)
	return sr
}

// rank splits topics into strongest (> threshold, descending) and weakest
// (<= threshold, ascending). Ties keep encounter order.
func rank(topics []TopicReport) (strongest, weakest []TopicReport) {
	for _, t := range topics {
		if t.Percent > StrongThreshold {
			strongest = append(strongest, t)
		} else {
			weakest = append(weakest, t)
		}
	}
	sort.SliceStable(strongest, func(i, j int) bool { return strongest[i].Percent > strongest[j].Percent })
	sort.SliceStable(weakest, func(i, j int) bool { return weakest[i].Percent < weakest[j].Percent })
	return capped(strongest), capped(weakest)
}

func capped(ts []TopicReport) []TopicReport {
	if len(ts) > MaxRanked {
		ts = ts[:MaxRanked]
	}
	return ts
}

func encounterStacks(questions []*bank.Question) []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range questions {
		c := bank.CanonicalStack(q.Stack)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, q.Stack)
	}
	return out
}

// Totals sums results across stacks.
type Totals struct {
	Total     int `json:"total"`
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Skipped   int `json:"skipped"`
	Score     int `json:"score"`
}

// Overall returns the totals across every stack in the report.
func (r Report) Overall() Totals {
	var t Totals
	for _, s := range r.Stacks {
		t.Total += s.Total
		t.Attempted += s.Attempted
		t.Correct += s.Correct
		t.Incorrect += s.Incorrect
		t.Skipped += s.Skipped
	}
	t.Score = Percent(t.Correct, t.Attempted)
	return t
}

// Stack returns the report for name, compared canonically.
func (r Report) Stack(name string) (StackReport, bool) {
	canon := bank.CanonicalStack(name)
	for _, s := range r.Stacks {
		if bank.CanonicalStack(s.Stack) == canon {
			return s, true
		}
	}
	return StackReport{}, false
}
