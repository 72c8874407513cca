package explain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/llm"
)

func mcq() *bank.Question {
	return &bank.Question{
		ID:         "Spark/mcqs/1",
		Question:   "Which transformation causes a shuffle?",
		Type:       bank.TypeMCQ,
		Stack:      "Spark",
		Topic:      "Transformations",
		Difficulty: "medium",
		Options:    map[string]string{"A": "map", "B": "filter", "C": "groupByKey", "D": "flatMap"},
		Answer:     "C",
	}
}

func explanationJSON(whyWrong string) json.RawMessage {
	b, _ := json.Marshal(Explanation{
		Summary:    "Wide transformations move data between partitions.",
		WhyCorrect: "groupByKey must co-locate all values for a key.",
		WhyWrong:   whyWrong,
	})
	return b
}

func TestExplain_WrongOption(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: explanationJSON("map is narrow.")})
	svc := NewService(mock, DefaultConfig())

	got, err := svc.Explain(context.Background(), mcq(), "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WhyWrong != "map is narrow." {
		t.Errorf("WhyWrong = %q", got.WhyWrong)
	}

	req := mock.Calls[0]
	if req.Schema != ExplanationSchema {
		t.Error("expected the explanation schema on the request")
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"Stack: Spark", "C) groupByKey", "Correct option: C", "The candidate chose A"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestExplain_CorrectOptionDropsWhyWrong(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: explanationJSON("should be dropped")})
	svc := NewService(mock, DefaultConfig())

	got, err := svc.Explain(context.Background(), mcq(), "C")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WhyWrong != "" {
		t.Errorf("WhyWrong = %q, want empty for a correct pick", got.WhyWrong)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "Leave why_wrong empty") {
		t.Error("prompt should ask for an empty why_wrong")
	}
}

func TestExplain_Cache(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: explanationJSON("")},
		llm.MockResponse{Content: explanationJSON("map is narrow.")},
	)
	svc := NewService(mock, DefaultConfig())
	q := mcq()

	// Unanswered and correct share one entry.
	if _, err := svc.Explain(context.Background(), q, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.Cached(q, "C") {
		t.Error("correct pick should hit the unanswered entry")
	}
	if _, err := svc.Explain(context.Background(), q, "C"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}

	if svc.Cached(q, "A") {
		t.Error("wrong pick should not be cached yet")
	}
	if _, err := svc.Explain(context.Background(), q, "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestExplain_Theory(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: explanationJSON("ignored")})
	svc := NewService(mock, DefaultConfig())

	q := &bank.Question{
		ID:         "Airflow/theory/2",
		Question:   "What is an XCom?",
		Type:       bank.TypeTheory,
		Stack:      "Airflow",
		Topic:      "Basics",
		AnswerText: "A small message passed between tasks.",
	}
	got, err := svc.Explain(context.Background(), q, "B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WhyWrong != "" {
		t.Errorf("theory explanations have no WhyWrong, got %q", got.WhyWrong)
	}
	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "Reference answer:\nA small message passed between tasks.") {
		t.Errorf("prompt missing reference answer:\n%s", msg)
	}
}

func TestExplain_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Explain(context.Background(), mcq(), "A")
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
	}
	if svc.Cached(mcq(), "A") {
		t.Error("failures must not be cached")
	}
}

func TestExplain_NilQuestion(t *testing.T) {
	svc := NewService(llm.NewMockProvider(), DefaultConfig())
	if _, err := svc.Explain(context.Background(), nil, ""); err == nil {
		t.Fatal("expected error for nil question")
	}
}
