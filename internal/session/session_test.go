package session

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/abhisek/stackprep/internal/bank"
)

func testQuestions(n int, stack string, d bank.Difficulty) []*bank.Question {
	qs := make([]*bank.Question, n)
	for i := range qs {
		qs[i] = &bank.Question{
			ID:         fmt.Sprintf("%s/mcqs/%d", stack, i+1),
			Question:   fmt.Sprintf("question %d", i+1),
			Type:       bank.TypeMCQ,
			Stack:      stack,
			Topic:      "Basics",
			Difficulty: d,
			Options:    map[string]string{"A": "right", "B": "wrong", "C": "also wrong"},
			Answer:     "A",
		}
	}
	return qs
}

// checkTally asserts the cached tally matches a fresh ledger scan.
func checkTally(t *testing.T, s *Session) {
	t.Helper()
	if got, want := s.Tally(), s.Ledger().Scan(); got != want {
		t.Fatalf("Tally() = %+v, Ledger().Scan() = %+v", got, want)
	}
	if got, want := s.Tally().Attempted(), s.Ledger().Len()-s.Ledger().Unattempted(); got != want {
		t.Fatalf("Attempted() = %d, resolved entries = %d", got, want)
	}
}

func checkEnded(t *testing.T, s *Session) {
	t.Helper()
	if s.Phase() != PhaseEnded {
		t.Fatalf("Phase() = %s, want ended", s.Phase())
	}
	if s.Ledger().Len() != s.Len() {
		t.Errorf("ledger size = %d, want %d", s.Ledger().Len(), s.Len())
	}
	if n := s.Ledger().Unattempted(); n != 0 {
		t.Errorf("unattempted after end = %d, want 0", n)
	}
	checkTally(t, s)
}

func TestNew_SelfPacedStartsRunning(t *testing.T) {
	s := New(testQuestions(3, "Python", bank.DifficultyEasy), TimerNone)
	if s.Phase() != PhaseRunning {
		t.Errorf("Phase() = %s, want running", s.Phase())
	}
	if s.Start() {
		t.Error("Start() on a running session should be a no-op")
	}
	if s.ID() == "" {
		t.Error("expected a generated session ID")
	}
}

func TestNew_TimedStartsIdle(t *testing.T) {
	for _, mode := range []TimerMode{TimerOverall, TimerPerQuestion} {
		s := New(testQuestions(3, "Python", bank.DifficultyEasy), mode)
		if s.Phase() != PhaseIdle {
			t.Errorf("%s: Phase() = %s, want idle", mode, s.Phase())
		}
		if _, ok := s.Answer("A"); ok {
			t.Errorf("%s: Answer before Start should be ignored", mode)
		}
		if s.Advance() {
			t.Errorf("%s: Advance before Start should be ignored", mode)
		}
	}
}

func TestSelfPacedScenario(t *testing.T) {
	s := New(testQuestions(5, "Python", bank.DifficultyEasy), TimerNone)

	if st, ok := s.Answer("A"); !ok || st != StatusCorrect {
		t.Fatalf("Answer(A) = %s, %v; want correct, true", st, ok)
	}
	checkTally(t, s)
	s.Advance()

	// Skip Q2 without selecting.
	s.Advance()
	checkTally(t, s)

	if st, ok := s.Answer("B"); !ok || st != StatusIncorrect {
		t.Fatalf("Answer(B) = %s, %v; want incorrect, true", st, ok)
	}

	before := s.Tally()
	want := Tally{Correct: 1, Incorrect: 1, Skipped: 1}
	if before != want {
		t.Errorf("Tally before end = %+v, want %+v", before, want)
	}
	if s.Ledger().Unattempted() != 2 {
		t.Errorf("unattempted before end = %d, want 2", s.Ledger().Unattempted())
	}

	if !s.End() {
		t.Fatal("End() = false")
	}
	checkEnded(t, s)
	want = Tally{Correct: 1, Incorrect: 1, Skipped: 3}
	if s.Tally() != want {
		t.Errorf("Tally after end = %+v, want %+v", s.Tally(), want)
	}
}

func TestRepeatedSourceIDsKeepOneEntryEach(t *testing.T) {
	doc := "- {id: 1, question: q1, options: {A: a, B: b}, answer: A}\n" +
		"- {id: 1, question: q2, options: {A: a, B: b}, answer: B}\n" +
		"- {question: q3, options: {A: a, B: b}, answer: A}\n"
	qs, err := bank.ParseDocument([]byte(doc), "Python", bank.KindMCQ, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	s := New(qs, TimerNone)
	if s.Ledger().Len() != s.Len() {
		t.Fatalf("ledger size = %d, want %d", s.Ledger().Len(), s.Len())
	}
	if st, ok := s.Answer("A"); !ok || st != StatusCorrect {
		t.Fatalf("Q1 Answer(A) = %s, %v; want correct, true", st, ok)
	}
	s.Advance()
	if st, ok := s.Answer("B"); !ok || st != StatusCorrect {
		t.Fatalf("Q2 Answer(B) = %s, %v; want correct, true", st, ok)
	}

	s.End()
	checkEnded(t, s)
	if want := (Tally{Correct: 2, Skipped: 1}); s.Tally() != want {
		t.Errorf("Tally = %+v, want %+v", s.Tally(), want)
	}
}

func TestAnswer_WriteOnce(t *testing.T) {
	s := New(testQuestions(2, "Python", bank.DifficultyEasy), TimerNone)

	s.Answer("B")
	if _, ok := s.Answer("A"); ok {
		t.Error("second Answer should be ignored")
	}
	if _, ok := s.Answer("B"); ok {
		t.Error("repeated Answer should be ignored")
	}
	e := s.CurrentEntry()
	if e.Status != StatusIncorrect || e.SelectedKey != "B" {
		t.Errorf("entry = %+v, want incorrect/B", e)
	}
	if got := s.Tally(); got.Incorrect != 1 || got.Correct != 0 {
		t.Errorf("Tally() = %+v, want one incorrect", got)
	}
	checkTally(t, s)
}

func TestAnswer_IgnoresUnknownKey(t *testing.T) {
	s := New(testQuestions(1, "Python", bank.DifficultyEasy), TimerNone)
	if _, ok := s.Answer("Z"); ok {
		t.Error("Answer with an unknown key should be ignored")
	}
	if s.CurrentEntry().Status != StatusUnattempted {
		t.Error("unknown key must not resolve the question")
	}
}

func TestRevisitDoesNotRescore(t *testing.T) {
	// Advancing marks skipped exactly once; answering afterwards is ignored
	// because the entry left unattempted already.
	s := New(testQuestions(3, "Python", bank.DifficultyEasy), TimerNone)
	s.Answer("A")
	s.Advance()
	s.Advance()
	if s.Ledger().Status("Python/mcqs/1") != StatusCorrect {
		t.Error("answered question must stay correct after advancing")
	}
	if s.Ledger().Status("Python/mcqs/2") != StatusSkipped {
		t.Error("advanced-over question must be skipped")
	}
	checkTally(t, s)
}

func TestEmptySession(t *testing.T) {
	s := New(nil, TimerNone)
	if s.Current() != nil {
		t.Error("Current() on empty session should be nil")
	}
	if _, ok := s.Answer("A"); ok {
		t.Error("Answer on empty session should be a no-op")
	}
	if s.Advance() {
		t.Error("Advance on empty session should be a no-op")
	}
	if !s.End() {
		t.Error("End on empty running session should succeed")
	}
	checkEnded(t, s)

	timed := New(nil, TimerOverall)
	if !timed.Start() {
		t.Fatal("Start() = false")
	}
	checkEnded(t, timed)
}

func TestSelfPaced_ClampedAtLast(t *testing.T) {
	s := New(testQuestions(2, "Python", bank.DifficultyEasy), TimerNone)
	if !s.Advance() {
		t.Fatal("Advance from first question should move")
	}
	if s.CanAdvance() {
		t.Error("CanAdvance at last question should be false in self-paced mode")
	}
	if s.Advance() {
		t.Error("Advance at last question should be a no-op")
	}
	if s.Position() != 1 {
		t.Errorf("Position() = %d, want 1", s.Position())
	}
	if s.Phase() != PhaseRunning {
		t.Errorf("Phase() = %s, want running", s.Phase())
	}
	if s.CurrentEntry().Status != StatusUnattempted {
		t.Error("last question must stay unattempted after a clamped Advance")
	}
}

func TestTimed_AdvancePastLastEnds(t *testing.T) {
	s := New(testQuestions(2, "Python", bank.DifficultyMedium), TimerOverall)
	s.Start()
	s.Advance()
	if !s.Advance() {
		t.Fatal("Advance at last timed question should end the session")
	}
	checkEnded(t, s)
	if got := s.Tally().Skipped; got != 2 {
		t.Errorf("Skipped = %d, want 2", got)
	}
}

func TestOverallBudget(t *testing.T) {
	tests := []struct {
		name string
		qs   []*bank.Question
		want int
	}{
		{"empty", nil, 0},
		{"two easy", testQuestions(2, "Python", bank.DifficultyEasy), 60},
		{"one easy", testQuestions(1, "Python", bank.DifficultyEasy), 60},
		{"three medium", testQuestions(3, "Python", bank.DifficultyMedium), 180},
		{"three hard", testQuestions(3, "Python", bank.DifficultyHard), 180},
		{"unknown", testQuestions(1, "Python", "expert"), 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallBudget(tt.qs); got != tt.want {
				t.Errorf("OverallBudget() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStart_ArmsCountdown(t *testing.T) {
	mixed := append(testQuestions(1, "Python", bank.DifficultyHard), testQuestions(2, "Java", bank.DifficultyEasy)...)

	overall := New(mixed, TimerOverall)
	overall.Start()
	if overall.Remaining() != 120 {
		t.Errorf("overall Remaining() = %d, want 120", overall.Remaining())
	}

	perQ := New(mixed, TimerPerQuestion)
	perQ.Start()
	if perQ.Remaining() != BudgetHard {
		t.Errorf("per-question Remaining() = %d, want %d", perQ.Remaining(), BudgetHard)
	}
	perQ.Advance()
	if perQ.Remaining() != BudgetEasy {
		t.Errorf("per-question Remaining() after advance = %d, want %d", perQ.Remaining(), BudgetEasy)
	}
}

func TestPerQuestionTimeoutSkips(t *testing.T) {
	s := New(testQuestions(2, "Python", bank.DifficultyEasy), TimerPerQuestion)
	s.Start()
	gen := s.Generation()

	for i := 0; i < BudgetEasy; i++ {
		if !s.Tick(gen) {
			t.Fatalf("tick %d ignored", i)
		}
	}
	if s.Ledger().Status("Python/mcqs/1") != StatusSkipped {
		t.Error("timed-out question should be skipped")
	}
	if s.Position() != 1 {
		t.Errorf("Position() = %d, want 1", s.Position())
	}
	if s.Remaining() != BudgetEasy {
		t.Errorf("Remaining() = %d, want %d", s.Remaining(), BudgetEasy)
	}
	if s.Phase() != PhaseRunning {
		t.Fatalf("Phase() = %s, want running", s.Phase())
	}
	checkTally(t, s)

	for i := 0; i < BudgetEasy; i++ {
		s.Tick(gen)
	}
	checkEnded(t, s)
}

func TestOverallTimeoutEnds(t *testing.T) {
	s := New(testQuestions(2, "Python", bank.DifficultyEasy), TimerOverall)
	s.Start()
	if s.Remaining() != 60 {
		t.Fatalf("Remaining() = %d, want 60", s.Remaining())
	}
	s.Answer("A")

	gen := s.Generation()
	for i := 0; i < 59; i++ {
		s.Tick(gen)
	}
	if s.Phase() != PhaseRunning {
		t.Fatalf("Phase() = %s after 59 ticks, want running", s.Phase())
	}
	s.Tick(gen)
	checkEnded(t, s)
	if s.Position() != 0 {
		t.Errorf("Position() = %d, want 0 (ended mid-question)", s.Position())
	}
	if got := (Tally{Correct: 1, Skipped: 1}); s.Tally() != got {
		t.Errorf("Tally() = %+v, want %+v", s.Tally(), got)
	}
}

func TestStaleTickIgnored(t *testing.T) {
	s := New(testQuestions(3, "Python", bank.DifficultyEasy), TimerOverall)
	s.Start()
	gen := s.Generation()
	s.End()

	if s.Generation() == gen {
		t.Fatal("End() must change the generation")
	}
	if s.Tick(gen) {
		t.Error("tick from a previous generation should be ignored")
	}
	if s.Tick(s.Generation()) {
		t.Error("tick while ended should be ignored")
	}

	selfPaced := New(testQuestions(1, "Python", bank.DifficultyEasy), TimerNone)
	if selfPaced.Tick(selfPaced.Generation()) {
		t.Error("self-paced sessions ignore ticks")
	}
}

func TestTopicStats(t *testing.T) {
	qs := testQuestions(2, "Python", bank.DifficultyEasy)
	qs[1].Topic = "Generators"
	s := New(qs, TimerNone)
	s.Answer("A")
	s.Advance()
	s.Answer("C")

	stats := s.TopicStats()
	if len(stats) != 2 {
		t.Fatalf("len(TopicStats()) = %d, want 2", len(stats))
	}
	if stats[0].Topic != "Basics" || stats[0].Attempted != 1 || stats[0].Correct != 1 {
		t.Errorf("stats[0] = %+v", stats[0])
	}
	if stats[1].Topic != "Generators" || stats[1].Attempted != 1 || stats[1].Correct != 0 {
		t.Errorf("stats[1] = %+v", stats[1])
	}
}

func TestElapsed(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	s := New(testQuestions(1, "Python", bank.DifficultyEasy), TimerOverall, WithClock(clock), WithID("fixed"))
	if s.ID() != "fixed" {
		t.Errorf("ID() = %q, want fixed", s.ID())
	}
	if s.Elapsed() != 0 {
		t.Errorf("Elapsed() before start = %v, want 0", s.Elapsed())
	}
	s.Start()
	now = now.Add(90 * time.Second)
	s.End()
	now = now.Add(time.Hour)
	if s.Elapsed() != 90*time.Second {
		t.Errorf("Elapsed() = %v, want 1m30s", s.Elapsed())
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[int]string{0: "0:00", 5: "0:05", 60: "1:00", 125: "2:05", -3: "0:00"}
	for in, want := range tests {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTimerMode(t *testing.T) {
	for _, m := range TimerModes {
		got, ok := ParseTimerMode(m.Label())
		if !ok || got != m {
			t.Errorf("ParseTimerMode(%q) = %v, %v", m.Label(), got, ok)
		}
		got, ok = ParseTimerMode(m.String())
		if !ok || got != m {
			t.Errorf("ParseTimerMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParseTimerMode("sometimes"); ok {
		t.Error("expected unknown mode to be rejected")
	}
}
