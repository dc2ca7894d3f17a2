package stats

import "testing"

func TestMeanAndPercentGuards(t *testing.T) {
	if Mean(nil) != 0 {
		t.Fatalf("expected mean of nothing to be 0")
	}
	if Percent(3, 0) != 0 {
		t.Fatalf("expected 0 for empty denominator")
	}
	if got := Percent(1, 4); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 10}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("expected flat sparkline, got %q", got)
	}
}
