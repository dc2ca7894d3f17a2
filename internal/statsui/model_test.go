package statsui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/cogtrain/internal/model"
)

var testNow = time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

func testRecords() []model.SessionRecord {
	return []model.SessionRecord{
		{ID: "a2", Date: testNow.Add(-time.Hour), Metrics: model.AimMetrics{Hits: 10, Accuracy: 50, TimeSec: 30}},
		{ID: "a1", Date: testNow.Add(-2 * time.Hour), Metrics: model.AimMetrics{Hits: 12, Accuracy: 60, TimeSec: 30}},
		{ID: "r1", Date: testNow.Add(-48 * time.Hour), Metrics: model.ReactionMetrics{Attempts: []float64{250}, AverageMs: 250, BestMs: 250}},
	}
}

func newSizedModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel(Options{
		Records: testRecords(),
		Plan:    []model.PlanItem{{Game: model.GameAim, TargetPerDay: 2}},
		Lang:    "en",
		Now:     func() time.Time { return testNow },
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return m
}

func TestOverviewShowsCountsPlanAndAdvice(t *testing.T) {
	view := newSizedModel(t).View()
	for _, want := range []string{"Today", "Streak", "Today's plan", "2/2", "done", "Aim accuracy is low"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in overview, got %q", want, view)
		}
	}
}

func TestHistoryTabListsRecords(t *testing.T) {
	m := newSizedModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabHistory {
		t.Fatalf("expected history tab, got %d", m.activeTab)
	}
	view := m.View()
	if !strings.Contains(view, "accuracy %") || !strings.Contains(view, "avg ms") {
		t.Fatalf("expected headline metrics in table, got %q", view)
	}
}

func TestTabsWrapAround(t *testing.T) {
	m := newSizedModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabTrends {
		t.Fatalf("expected trends tab, got %d", m.activeTab)
	}
}

func TestTrendWindowKeys(t *testing.T) {
	m := newSizedModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'='}})
	if m.last != 10 {
		t.Fatalf("expected window 10, got %d", m.last)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	if m.last != 0 {
		t.Fatalf("expected window reset to all, got %d", m.last)
	}
}

func TestLastSteps(t *testing.T) {
	cases := []struct{ in, next, prev int }{
		{0, 10, 0},
		{10, 20, 0},
		{15, 20, 10},
		{20, 30, 10},
	}
	for _, c := range cases {
		if got := nextLast(c.in); got != c.next {
			t.Fatalf("nextLast(%d): expected %d, got %d", c.in, c.next, got)
		}
		if got := prevLast(c.in); got != c.prev {
			t.Fatalf("prevLast(%d): expected %d, got %d", c.in, c.prev, got)
		}
	}
}

func TestEmptyHistory(t *testing.T) {
	m := NewModel(Options{Now: func() time.Time { return testNow }})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	if !strings.Contains(m.View(), "Start training!") {
		t.Fatalf("expected start advice, got %q", m.View())
	}
	m.moveTab(1)
	if !strings.Contains(m.View(), "No sessions found.") {
		t.Fatalf("expected empty history notice, got %q", m.View())
	}
}
