package flashcards

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/explain"
)

type stubExplainer struct {
	calls int
	err   error
}

func (e *stubExplainer) Explain(_ context.Context, q *bank.Question, key string) (*explain.Explanation, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return &explain.Explanation{Summary: "summary for " + q.ID}, nil
}

func reverse(qs []*bank.Question) []*bank.Question {
	out := make([]*bank.Question, len(qs))
	for i, q := range qs {
		out[len(qs)-1-i] = q
	}
	return out
}

func testCards() []*bank.Question {
	return []*bank.Question{
		{ID: "spark/theory/1", Question: "What is a shuffle?", Type: bank.TypeTheory, Stack: "Spark", Topic: "Internals", AnswerText: "Redistribution of data across partitions."},
		{ID: "spark/theory/2", Question: "What is a broadcast join?", Type: bank.TypeTheory, Stack: "Spark", Topic: "Joins"},
		{ID: "sql/theory/1", Question: "What is a CTE?", Type: bank.TypeTheory, Stack: "SQL", Topic: "Syntax"},
	}
}

func key(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

func TestFlashcards_ToggleAndMove(t *testing.T) {
	s := New(testCards(), reverse, nil)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.Deck().IsOpen(0) {
		t.Fatal("expected Enter to open the highlighted card")
	}
	if !strings.Contains(s.View(100, 30), "Redistribution") {
		t.Error("expected the open card to show its answer")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.Deck().IsOpen(0) || !s.Deck().IsOpen(1) {
		t.Error("expected opening another card to close the first")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.Deck().IsOpen(1) {
		t.Error("expected a second Enter to close the card")
	}
}

func TestFlashcards_Shuffle(t *testing.T) {
	s := New(testCards(), reverse, nil)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	s.Update(key('s'))
	if s.Deck().Cursor() != 0 || s.Deck().IsOpen(0) || s.Deck().IsOpen(1) {
		t.Error("expected shuffle to reset the cursor and close the card")
	}
	if s.Deck().Current().ID != "sql/theory/1" {
		t.Errorf("Current = %s, want the reversed order", s.Deck().Current().ID)
	}
}

func TestFlashcards_ExplainOnlyWhenOpen(t *testing.T) {
	ex := &stubExplainer{}
	s := New(testCards(), nil, ex)

	if _, cmd := s.Update(key('e')); cmd != nil {
		t.Error("expected no request for a closed card")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd := s.Update(key('e'))
	if cmd == nil {
		t.Fatal("expected an explanation request")
	}
	s.Update(cmd())
	if ex.calls != 1 {
		t.Errorf("calls = %d, want 1", ex.calls)
	}
	if !strings.Contains(s.View(100, 30), "summary for") {
		t.Error("expected the explanation in the view")
	}

	// A second press reuses the loaded explanation.
	if _, cmd := s.Update(key('e')); cmd != nil {
		t.Error("expected no second request")
	}
}

func TestFlashcards_ExplainError(t *testing.T) {
	s := New(testCards(), nil, &stubExplainer{err: errors.New("no key")})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, cmd := s.Update(key('e'))
	s.Update(cmd())
	if !strings.Contains(s.View(100, 30), "unavailable") {
		t.Error("expected the error in the view")
	}
}

func TestFlashcards_Empty(t *testing.T) {
	s := New(nil, nil, nil)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(80, 24), "No flashcards") {
		t.Error("expected the empty state")
	}
}
