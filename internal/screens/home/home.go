package home

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/router"
	"github.com/abhisek/stackprep/internal/screen"
	"github.com/abhisek/stackprep/internal/screens/flashcards"
	"github.com/abhisek/stackprep/internal/screens/history"
	"github.com/abhisek/stackprep/internal/screens/mcq"
	"github.com/abhisek/stackprep/internal/screens/survival"
	sess "github.com/abhisek/stackprep/internal/session"
	"github.com/abhisek/stackprep/internal/store"
	"github.com/abhisek/stackprep/internal/ui/components"
	"github.com/abhisek/stackprep/internal/ui/layout"
)

const snapshotKeep = 20

// Mode is the kind of practice started from the home screen.
type Mode int

const (
	ModeFlashcards Mode = iota
	ModeMCQs
	ModeSurvival
)

var modes = []Mode{ModeFlashcards, ModeMCQs, ModeSurvival}

func (m Mode) String() string {
	switch m {
	case ModeMCQs:
		return "mcqs"
	case ModeSurvival:
		return "survival"
	default:
		return "flashcards"
	}
}

// Label is the menu name of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeMCQs:
		return "MCQs"
	case ModeSurvival:
		return "Survival"
	default:
		return "Flashcards"
	}
}

// ParseMode maps a stored mode name back to a Mode.
func ParseMode(s string) (Mode, bool) {
	for _, m := range modes {
		if strings.EqualFold(s, m.String()) {
			return m, true
		}
	}
	return ModeFlashcards, false
}

// Menu rows.
const (
	itemMode = iota
	itemPractice
	itemFilters
	itemStart
	itemHistory
	itemExit
)

// Deps wires the home screen to content and history.
type Deps struct {
	Repo      *bank.Repository
	Events    store.EventRepo      // optional
	Snapshots store.SnapshotRepo   // optional
	Explainer components.Explainer // optional
	Logger    *slog.Logger

	// Filter and TimerMode, when set, override the restored preferences.
	Filter    bank.Filter
	TimerMode string
}

type loadedMsg struct {
	Manifest bank.Manifest
	Theory   []*bank.Question
	MCQs     []*bank.Question
	Snapshot *store.Snapshot
}

// HomeScreen is the main menu. It loads the question bank on Init.
type HomeScreen struct {
	deps   Deps
	logger *slog.Logger

	loaded   bool
	manifest bank.Manifest
	theory   []*bank.Question
	mcqs     []*bank.Question

	mode      Mode
	timerMode sess.TimerMode
	filter    bank.Filter
	best      int

	menu      components.Menu
	panel     components.FilterPanel
	filtering bool
	notice    string

	// lastRun is the most recent survival screen; its best streak may
	// exceed the one loaded at startup.
	lastRun *survival.Screen
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Modal = (*HomeScreen)(nil)

// New creates the home screen. Content is loaded by Init.
func New(deps Deps) *HomeScreen {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &HomeScreen{deps: deps, logger: logger, mode: ModeMCQs}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	deps, logger := h.deps, h.logger
	return func() tea.Msg {
		ctx := context.Background()
		var msg loadedMsg
		if deps.Repo != nil {
			msg.Manifest = deps.Repo.LoadManifest(ctx)
			msg.Theory = deps.Repo.LoadQuestions(ctx, bank.KindTheory)
			msg.MCQs = deps.Repo.LoadQuestions(ctx, bank.KindMCQ)
		}
		if deps.Snapshots != nil {
			snap, err := deps.Snapshots.Latest(ctx)
			if err != nil {
				logger.Warn("load snapshot", "err", err)
			}
			msg.Snapshot = snap
		}
		return msg
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// Modal reports whether the filter panel is open.
func (h *HomeScreen) Modal() bool { return h.filtering }

// Mode returns the selected practice mode.
func (h *HomeScreen) Mode() Mode { return h.mode }

// TimerMode returns the selected MCQ practice type.
func (h *HomeScreen) TimerMode() sess.TimerMode { return h.timerMode }

// Filter returns the selected filter.
func (h *HomeScreen) Filter() bank.Filter { return h.filter }

// Best returns the best survival streak known to the screen.
func (h *HomeScreen) Best() int {
	if h.lastRun != nil {
		return max(h.best, h.lastRun.Best())
	}
	return h.best
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.filtering {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Column"},
			{Key: "Space", Description: "Toggle"},
			{Key: "/", Description: "Search"},
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return h, h.applyLoaded(msg)

	case tea.KeyMsg:
		if h.filtering {
			return h, h.handleFilterKey(msg)
		}
		h.notice = ""
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	h.refreshMenu()
	return h, cmd
}

func (h *HomeScreen) applyLoaded(msg loadedMsg) tea.Cmd {
	h.loaded = true
	h.manifest = msg.Manifest
	h.theory = msg.Theory
	h.mcqs = msg.MCQs

	if snap := msg.Snapshot; snap != nil {
		if m, ok := ParseMode(snap.Data.Mode); ok {
			h.mode = m
		}
		if tm, ok := sess.ParseTimerMode(snap.Data.TimerMode); ok {
			h.timerMode = tm
		}
		h.filter = bank.Filter{
			Difficulties: snap.Data.Difficulties,
			TechStacks:   snap.Data.TechStacks,
			Topics:       snap.Data.Topics,
		}
		h.best = snap.Data.BestStreak
	}
	if !h.deps.Filter.IsZero() {
		h.filter = h.deps.Filter
	}
	if h.deps.TimerMode != "" {
		if tm, ok := sess.ParseTimerMode(h.deps.TimerMode); ok {
			h.timerMode = tm
		}
	}
	h.refreshMenu()

	questions := len(h.theory) + len(h.mcqs)
	best := h.best
	if questions == 0 {
		h.notice = "No questions found. Check the data directory."
	}
	return tea.Batch(
		func() tea.Msg { return screen.LoadedMsg{Questions: questions} },
		func() tea.Msg { return screen.BestStreakMsg{Best: best} },
	)
}

func (h *HomeScreen) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	if !h.panel.Searching() {
		switch msg.String() {
		case "esc":
			h.filtering = false
			return nil
		case "enter":
			h.filtering = false
			h.filter = h.panel.Filter()
			h.refreshMenu()
			return nil
		}
	}
	var cmd tea.Cmd
	h.panel, cmd = h.panel.Update(msg)
	return cmd
}

func (h *HomeScreen) items() []components.MenuItem {
	items := make([]components.MenuItem, itemExit+1)
	items[itemMode] = components.MenuItem{Label: "MODE", Value: h.mode.Label(), Action: h.cycleMode}
	items[itemPractice] = components.MenuItem{
		Label: "PRACTICE", Value: h.timerMode.Label(), Action: h.cycleTimerMode,
		Disabled: h.mode != ModeMCQs,
	}
	items[itemFilters] = components.MenuItem{Label: "FILTERS", Value: h.filterSummary(), Action: h.openFilters}
	items[itemStart] = components.MenuItem{Label: "START", Action: h.start, Disabled: !h.loaded}
	items[itemHistory] = components.MenuItem{Label: "HISTORY", Action: h.openHistory}
	items[itemExit] = components.MenuItem{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }}
	return items
}

// refreshMenu rebuilds the item values, keeping the cursor.
func (h *HomeScreen) refreshMenu() {
	selected := h.menu.Selected
	h.menu.Items = h.items()
	if selected >= 0 && selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) filterSummary() string {
	f := h.filter
	if f.IsZero() {
		return "All"
	}
	var parts []string
	for _, dim := range [][]string{f.Difficulties, f.TechStacks, f.Topics} {
		if len(dim) > 0 {
			parts = append(parts, strings.Join(dim, ", "))
		}
	}
	summary := strings.Join(parts, " · ")
	if len(summary) > 24 {
		summary = summary[:21] + "..."
	}
	return summary
}

func (h *HomeScreen) cycleMode() tea.Cmd {
	h.mode = modes[(int(h.mode)+1)%len(modes)]
	return nil
}

func (h *HomeScreen) cycleTimerMode() tea.Cmd {
	for i, m := range sess.TimerModes {
		if m == h.timerMode {
			h.timerMode = sess.TimerModes[(i+1)%len(sess.TimerModes)]
			return nil
		}
	}
	h.timerMode = sess.TimerNone
	return nil
}

func (h *HomeScreen) openFilters() tea.Cmd {
	h.panel = components.NewFilterPanel(h.manifest, h.filter)
	h.filtering = true
	return nil
}

func (h *HomeScreen) openHistory() tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: history.New(h.deps.Events)}
	}
}

// start pushes the screen for the selected mode.
func (h *HomeScreen) start() tea.Cmd {
	var next screen.Screen
	switch h.mode {
	case ModeFlashcards:
		cards := bank.FilterQuestions(h.theory, h.filter)
		if len(cards) == 0 {
			h.notice = "No theory questions match these filters."
			return nil
		}
		next = flashcards.New(cards, nil, h.deps.Explainer)
	case ModeMCQs:
		next = mcq.New(mcq.Options{
			Pool:      h.mcqs,
			Manifest:  h.manifest,
			Filter:    h.filter,
			Mode:      h.timerMode,
			Events:    h.deps.Events,
			Snapshots: h.deps.Snapshots,
			Explainer: h.deps.Explainer,
			Logger:    h.logger,
		})
	case ModeSurvival:
		qs := bank.FilterQuestions(h.mcqs, h.filter)
		if len(qs) == 0 {
			h.notice = "No MCQs match these filters."
			return nil
		}
		run := survival.New(survival.Options{
			Questions: qs,
			Best:      h.Best(),
			Events:    h.deps.Events,
			Snapshots: h.deps.Snapshots,
			Explainer: h.deps.Explainer,
			Logger:    h.logger,
		})
		h.lastRun = run
		next = run
	}
	h.saveSnapshot()
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

// saveSnapshot keeps the selected setup for the next launch.
func (h *HomeScreen) saveSnapshot() {
	if h.deps.Snapshots == nil {
		return
	}
	ctx := context.Background()
	data := store.SnapshotData{Version: 1}
	if prev, err := h.deps.Snapshots.Latest(ctx); err == nil && prev != nil {
		data = prev.Data
	}
	data.Mode = h.mode.String()
	data.TimerMode = h.timerMode.String()
	data.Difficulties = h.filter.Difficulties
	data.TechStacks = h.filter.TechStacks
	data.Topics = h.filter.Topics
	data.BestStreak = max(data.BestStreak, h.Best())

	if err := h.deps.Snapshots.Save(ctx, &store.Snapshot{Timestamp: time.Now(), Data: data}); err != nil {
		h.logger.Warn("save snapshot", "err", err)
		return
	}
	if err := h.deps.Snapshots.Prune(ctx, snapshotKeep); err != nil {
		h.logger.Warn("prune snapshots", "err", err)
	}
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 34 || width < 90

	cw := components.ContentWidth(width, maxContentWidth)

	if h.filtering {
		return components.CabinetFrame(h.panel.View(cw, height-4), width, height)
	}

	if !h.loaded {
		return components.CabinetFrame(components.Banner("Loading questions...", cw), width, height)
	}

	questions := len(h.theory) + len(h.mcqs)
	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(questions, h.Best()), cw))
	}
	sections = append(sections, renderStatsBar(questions, len(h.manifest.Stacks), h.Best(), cw, compact))

	disabled := make(map[int]bool)
	for i, item := range h.menu.Items {
		disabled[i] = item.Disabled
	}
	labels := h.menu.Labels()
	if compact {
		sections = append(sections, renderArcadeMenuCompact(labels, h.menu.Selected, disabled, cw))
	} else {
		sections = append(sections, renderArcadeMenu(labels, h.menu.Selected, disabled, cw))
	}
	if h.notice != "" {
		sections = append(sections, components.Banner(h.notice, cw))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}
