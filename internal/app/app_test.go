package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stackprep/internal/router"
	"github.com/abhisek/stackprep/internal/screen"
	"github.com/abhisek/stackprep/internal/screens/home"
	"github.com/abhisek/stackprep/internal/ui/layout"
)

// stubScreen is a pushed screen that can claim Esc.
type stubScreen struct {
	modal bool
	keys  []string
}

func (s *stubScreen) Init() tea.Cmd                 { return nil }
func (s *stubScreen) View(width, height int) string { return "stub body" }
func (s *stubScreen) Title() string                 { return "Stub" }
func (s *stubScreen) Modal() bool                   { return s.modal }

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		s.keys = append(s.keys, k.String())
	}
	return s, nil
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am, cmd
}

func TestApp_StatusMessages(t *testing.T) {
	m := newAppModel(home.Deps{})
	m, _ = update(t, m, screen.LoadedMsg{Questions: 42})
	m, _ = update(t, m, screen.BestStreakMsg{Best: 6})
	m, _ = update(t, m, screen.BestStreakMsg{Best: 3})

	want := layout.Status{Questions: 42, BestStreak: 6}
	if m.status != want {
		t.Errorf("status = %+v, want %+v", m.status, want)
	}
}

func TestApp_EscPopsUnlessModal(t *testing.T) {
	m := newAppModel(home.Deps{})
	stub := &stubScreen{}
	m.router.Push(stub)

	stub.modal = true
	m, cmd := update(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		if _, ok := cmd().(router.PopScreenMsg); ok {
			t.Fatal("modal screen should keep Esc")
		}
	}
	if len(stub.keys) != 1 || stub.keys[0] != "esc" {
		t.Errorf("stub keys = %v, want [esc]", stub.keys)
	}

	stub.modal = false
	m, cmd = update(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d before the pop is delivered", m.router.Depth())
	}
}

func TestApp_ViewFramesActiveScreen(t *testing.T) {
	m := newAppModel(home.Deps{})
	m.router.Push(&stubScreen{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	content := m.render()
	for _, want := range []string{"Stub", "stub body"} {
		if !strings.Contains(content, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if strings.Contains(m.render(), "stub body") {
		t.Error("expected the min size message on a tiny terminal")
	}
}
