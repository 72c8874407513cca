package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stackprep/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestPopToRoot(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)
	r.Push(&stubScreen{title: "mcqs"})
	r.Push(&stubScreen{title: "results"})

	r.Update(PopToRootMsg{})

	if r.Depth() != 1 || r.Active() != home {
		t.Fatalf("depth %d, active %q; want 1, home", r.Depth(), r.Active().Title())
	}

	// Already at the root.
	r.PopToRoot()
	if r.Depth() != 1 {
		t.Errorf("depth after second PopToRoot = %d, want 1", r.Depth())
	}
}

func TestNavigationMessages(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)

	next := &stubScreen{title: "history"}
	r.Update(PushScreenMsg{Screen: next})
	if r.Active() != next || !next.initRan {
		t.Fatal("PushScreenMsg should push and init the screen")
	}

	r.Update(PopScreenMsg{})
	if r.Active() != home {
		t.Fatalf("active after PopScreenMsg = %q, want home", r.Active().Title())
	}
}

func TestUpdateReachesOnlyActiveScreen(t *testing.T) {
	home := &stubScreen{title: "home"}
	quiz := &stubScreen{title: "quiz"}
	r := New(home)
	r.Push(quiz)

	r.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})

	if len(quiz.got) != 1 {
		t.Errorf("active screen got %d messages, want 1", len(quiz.got))
	}
	if len(home.got) != 0 {
		t.Errorf("background screen got %d messages, want 0", len(home.got))
	}
	if r.View(80, 24) != "quiz" {
		t.Errorf("View() = %q, want quiz", r.View(80, 24))
	}
}
