package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/cogtrain/internal/model"
)

func TestPlotTrends(t *testing.T) {
	var buf bytes.Buffer
	err := PlotTrends(&buf, []Trend{
		{Game: model.GameReaction, Metric: "avg ms", Values: []float64{320, 300, 280, 290}},
	}, 40, 4, false)
	if err != nil {
		t.Fatalf("PlotTrends failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "4 sessions, latest 290, mean 297.5") {
		t.Fatalf("expected header line, got:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header and 4 plot rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "320 │ ") || !strings.HasPrefix(lines[4], "280 │ ") {
		t.Fatalf("expected value axis labels, got %q and %q", lines[1], lines[4])
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for a buffer")
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80, 4); got != 80-4-3 {
		t.Fatalf("expected 73, got %d", got)
	}
	if got := PlotWidthFor(0, 4); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestBucketAverages(t *testing.T) {
	got := bucket([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected buckets %v", got)
	}
}
