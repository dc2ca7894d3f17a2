package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func genMetrics() *rapid.Generator[Metrics] {
	f := rapid.Float64Range(0, 3000)
	n := rapid.IntRange(0, 500)
	return rapid.Custom(func(t *rapid.T) Metrics {
		switch rapid.IntRange(0, len(Games)-1).Draw(t, "game") {
		case 0:
			return ReactionMetrics{Attempts: rapid.SliceOfN(f, 0, 10).Draw(t, "attempts"), AverageMs: f.Draw(t, "avg"), BestMs: f.Draw(t, "best")}
		case 1:
			return AimMetrics{Hits: n.Draw(t, "hits"), Accuracy: f.Draw(t, "acc"), TimeSec: n.Draw(t, "sec")}
		case 2:
			return SequenceMetrics{Level: n.Draw(t, "level"), Longest: n.Draw(t, "longest")}
		case 3:
			return GoNoGoMetrics{GoAcc: f.Draw(t, "go"), NogoAcc: f.Draw(t, "nogo"), AvgRtMs: f.Draw(t, "rt")}
		case 4:
			return StroopMetrics{CongruentAvgMs: f.Draw(t, "c"), IncongruentAvgMs: f.Draw(t, "i"), Accuracy: f.Draw(t, "acc"), CostMs: f.Draw(t, "cost")}
		case 5:
			return TapsMetrics{Taps: n.Draw(t, "taps"), Seconds: n.Draw(t, "sec"), AvgIntervalMs: f.Draw(t, "iv")}
		case 6:
			return PosnerMetrics{ValidAvgMs: f.Draw(t, "v"), InvalidAvgMs: f.Draw(t, "i"), CostMs: f.Draw(t, "cost"), Accuracy: f.Draw(t, "acc")}
		case 7:
			return StopSignalMetrics{AvgSsdMs: f.Draw(t, "ssd"), SsrtMs: f.Draw(t, "ssrt"), StopSuccessPct: f.Draw(t, "stop"), GoAcc: f.Draw(t, "go")}
		default:
			return ChoiceMetrics{Choices: n.Draw(t, "choices"), AvgRtMs: f.Draw(t, "rt"), Accuracy: f.Draw(t, "acc")}
		}
	})
}

func TestRecordWireHasExactlyOneMetricObject(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := genMetrics().Draw(t, "metrics")
		rec := NewRecord(m, time.UnixMilli(rapid.Int64Range(0, 4e12).Draw(t, "ms")))
		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var wire map[string]json.RawMessage
		if err := json.Unmarshal(data, &wire); err != nil {
			t.Fatalf("unmarshal map: %v", err)
		}
		present := 0
		for _, g := range Games {
			if _, ok := wire[string(g)]; ok {
				present++
				if g != m.Game() {
					t.Fatalf("record for %s carries %s metrics", m.Game(), g)
				}
			}
		}
		if present != 1 {
			t.Fatalf("expected exactly one metric object, got %d", present)
		}

		var back SessionRecord
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		again, _ := json.Marshal(back)
		if string(again) != string(data) {
			t.Fatalf("round trip changed record:\n%s\n%s", data, again)
		}
	})
}

func TestRecordDateFormat(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 678_900_000, time.FixedZone("x", 3600))
	rec := NewRecord(SequenceMetrics{Level: 3, Longest: 4}, at)
	if got := rec.DateISO(); got != "2026-01-02T02:04:05.678Z" {
		t.Fatalf("unexpected dateIso %q", got)
	}
	if rec.ID == "" || rec.Game() != GameSequence {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestRecordRejectsInconsistentWire(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "no metrics", json: `{"id":"a","game":"aim","dateIso":"2026-01-01T00:00:00.000Z"}`},
		{name: "two metrics", json: `{"id":"a","game":"aim","dateIso":"2026-01-01T00:00:00.000Z","aim":{},"taps":{}}`},
		{name: "game mismatch", json: `{"id":"a","game":"aim","dateIso":"2026-01-01T00:00:00.000Z","taps":{}}`},
		{name: "unknown game", json: `{"id":"a","game":"chess","dateIso":"2026-01-01T00:00:00.000Z","aim":{}}`},
		{name: "bad date", json: `{"id":"a","game":"aim","dateIso":"yesterday","aim":{}}`},
		{name: "missing id", json: `{"game":"aim","dateIso":"2026-01-01T00:00:00.000Z","aim":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec SessionRecord
			err := json.Unmarshal([]byte(tt.json), &rec)
			if !errors.Is(err, ErrInvalidRecord) {
				t.Fatalf("expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}

func TestReactionAttemptsNeverNull(t *testing.T) {
	rec := NewRecord(ReactionMetrics{AverageMs: 200}, time.Now())
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"attempts":[]`) {
		t.Fatalf("expected empty attempts array, got %s", data)
	}
}

func TestParseGame(t *testing.T) {
	for _, key := range GameKeys() {
		if _, err := ParseGame(key); err != nil {
			t.Fatalf("parse %q: %v", key, err)
		}
	}
	if _, err := ParseGame("tetris"); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
}
