package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/cogtrain/internal/model"
)

func TestBuildReport(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Newest first, as held by the history store.
	records := []model.SessionRecord{
		model.NewRecord(model.ReactionMetrics{AverageMs: 250}, base.Add(3*time.Hour)),
		model.NewRecord(model.TapsMetrics{Taps: 30, Seconds: 5}, base.Add(2*time.Hour)),
		model.NewRecord(model.ReactionMetrics{AverageMs: 280}, base.Add(time.Hour)),
		model.NewRecord(model.ReactionMetrics{AverageMs: 310}, base),
	}
	rep := BuildReport(records, 2)
	if rep.Counts[model.GameReaction] != 3 || rep.Counts[model.GameTaps] != 1 {
		t.Fatalf("unexpected counts %v", rep.Counts)
	}
	if len(rep.Trends) != 2 {
		t.Fatalf("expected 2 trends, got %d", len(rep.Trends))
	}
	reaction := rep.Trends[0]
	if reaction.Game != model.GameReaction || len(reaction.Values) != 2 {
		t.Fatalf("unexpected reaction trend %+v", reaction)
	}
	if reaction.Values[0] != 280 || reaction.Values[1] != 250 {
		t.Fatalf("expected last two values oldest first, got %v", reaction.Values)
	}
	if taps := rep.Trends[1]; taps.Values[0] != 6 {
		t.Fatalf("expected tap rate 6/s, got %v", taps.Values)
	}
}
