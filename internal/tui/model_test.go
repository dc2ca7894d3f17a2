package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/cogtrain/internal/history"
	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/random"
	"github.com/verte-zerg/cogtrain/internal/store"
	"github.com/verte-zerg/cogtrain/internal/trial"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Add(d time.Duration) { c.now = c.now.Add(d) }

func newTestModel(t *testing.T, steps []Step, prefs model.Prefs) (*Model, *fakeClock, *history.Store) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)}
	h := history.Open(context.Background(), store.NewMemory())
	m := NewModel(Options{
		Steps:   steps,
		Prefs:   prefs,
		History: h,
		Rand:    random.NewScripted(0.5),
		Lang:    "en",
		Now:     clock.Now,
	})
	return m, clock, h
}

func TestReactionRoundTripThroughHost(t *testing.T) {
	prefs := model.Prefs{Reaction: model.ReactionPrefs{MinDelayMs: 1000, MaxDelayMs: 1000, Attempts: 1}}
	m, clock, h := newTestModel(t, []Step{{Game: model.GameReaction}}, prefs)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenPlay {
		t.Fatalf("expected play screen, got %v", m.screen)
	}
	if !strings.Contains(m.View(), "wait") {
		t.Fatalf("expected wait block, got %q", m.View())
	}

	clock.Add(time.Second)
	m.Update(tickMsg(clock.now))
	if !strings.Contains(m.View(), "PRESS!") {
		t.Fatalf("expected go block, got %q", m.View())
	}

	clock.Add(250 * time.Millisecond)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if m.screen != screenResult {
		t.Fatalf("expected result screen, got %v", m.screen)
	}
	if h.Len() != 1 {
		t.Fatalf("expected one saved record, got %d", h.Len())
	}
	got := h.All()[0].Metrics.(model.ReactionMetrics)
	if got.AverageMs != 250 || got.BestMs != 250 {
		t.Fatalf("unexpected metrics %+v", got)
	}
	if !strings.Contains(m.View(), "average 250 ms") {
		t.Fatalf("expected result line, got %q", m.View())
	}
}

func TestInputBeforeTickSeesElapsedTime(t *testing.T) {
	prefs := model.Prefs{Reaction: model.ReactionPrefs{MinDelayMs: 500, MaxDelayMs: 500, Attempts: 1}}
	m, clock, h := newTestModel(t, []Step{{Game: model.GameReaction}}, prefs)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// No tick arrives between stimulus onset and the press.
	clock.Add(800 * time.Millisecond)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if h.Len() != 1 {
		t.Fatalf("expected saved record, got %d", h.Len())
	}
	if avg := h.All()[0].Metrics.(model.ReactionMetrics).AverageMs; avg != 300 {
		t.Fatalf("expected 300 ms, got %v", avg)
	}
}

func TestSkippingEveryStepShowsSummary(t *testing.T) {
	prefs := model.Prefs{
		GoNoGo: model.GoNoGoPrefs{Trials: 10, GoRatio: 0.5, IsiMs: 900},
		Choice: model.ChoicePrefs{Trials: 10},
	}
	steps := []Step{{Game: model.GameGoNoGo}, {Game: model.GameChoice}}
	m, _, h := newTestModel(t, steps, prefs)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.engine.Game() != model.GameGoNoGo {
		t.Fatalf("expected first step, got %s", m.engine.Game())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.engine.Game() != model.GameChoice {
		t.Fatalf("expected second step, got %s", m.engine.Game())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenSummary {
		t.Fatalf("expected summary, got %v", m.screen)
	}
	if h.Len() != 0 {
		t.Fatalf("skipped games must not be saved, got %d", h.Len())
	}
	view := m.View()
	if !strings.Contains(view, "Training summary") || !strings.Contains(view, "Start training!") {
		t.Fatalf("unexpected summary %q", view)
	}
}

func TestStepTuneOverridesPrefs(t *testing.T) {
	steps := UnifiedSteps()
	if len(steps) != len(model.Games) {
		t.Fatalf("expected every game once, got %d steps", len(steps))
	}
	p := model.Prefs{}
	steps[0].Tune(&p)
	steps[3].Tune(&p)
	steps[8].Tune(&p)
	if p.Reaction.Attempts != 8 || p.Choice.Trials != 24 || p.Taps.Attempts != 3 {
		t.Fatalf("unexpected tuned prefs %+v", p)
	}
}

func TestPrefsMsgAppliesToNextGame(t *testing.T) {
	prefs := model.Prefs{Choice: model.ChoicePrefs{Trials: 10}}
	m, _, _ := newTestModel(t, []Step{{Game: model.GameChoice}}, prefs)
	m.Update(PrefsMsg{Prefs: model.Prefs{Choice: model.ChoicePrefs{Trials: 3}}})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, total := m.engine.(*trial.Choice).Progress(); total != 3 {
		t.Fatalf("expected reloaded trial count, got %d", total)
	}
}

func TestInputMapping(t *testing.T) {
	if in, ok := inputFor(model.GameChoice, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}); !ok || in.Choice != 2 {
		t.Fatalf("expected j to map to 2, got %+v ok=%v", in, ok)
	}
	if in, ok := inputFor(model.GameStop, tea.KeyMsg{Type: tea.KeyRight}); !ok || in.Choice != trial.Right {
		t.Fatalf("expected right arrow, got %+v ok=%v", in, ok)
	}
	if _, ok := inputFor(model.GameStroop, tea.KeyMsg{Type: tea.KeySpace}); ok {
		t.Fatalf("space is not a Stroop response")
	}
	in, ok := aimInput(fieldLeft+1, fieldTop+1)
	if !ok || in.X != cellW/2 || in.Y != cellH/2 {
		t.Fatalf("unexpected aim input %+v ok=%v", in, ok)
	}
	if _, ok := aimInput(fieldLeft, fieldTop); ok {
		t.Fatalf("border click should be ignored")
	}
}
