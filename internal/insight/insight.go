// Package insight derives totals and training advice from session history.
package insight

import (
	"math"
	"time"

	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/stats"
)

// Window is the rolling period recommendations are computed over.
const Window = 7 * 24 * time.Hour

// Code identifies one piece of advice.
type Code string

const (
	RTHigh     Code = "rtHigh"
	RTGood     Code = "rtGood"
	AimLow     Code = "aimLow"
	AimGood    Code = "aimGood"
	SeqLow     Code = "seqLow"
	SeqGood    Code = "seqGood"
	GngLow     Code = "gngLow"
	GngGood    Code = "gngGood"
	StroopHigh Code = "stroopHigh"
	StroopGood Code = "stroopGood"
	TapsLow    Code = "tapsLow"
	TapsGood   Code = "tapsGood"
	PosnerHigh Code = "posnerHigh"
	PosnerGood Code = "posnerGood"
	SSTLong    Code = "sstLong"
	SSTGood    Code = "sstGood"
	CRTLow     Code = "crtLow"
	CRTGood    Code = "crtGood"
	Start      Code = "start"
)

// Recommendation is one emitted code. Value is the statistic compared
// against the threshold, except for CRTGood where it is the rounded mean
// reaction time quoted by the message.
type Recommendation struct {
	Code  Code
	Game  model.Game
	Value float64
}

// Stats is the result of ComputeStats.
type Stats struct {
	Totals          map[model.Game]int
	Last7d          []model.SessionRecord
	Recommendations []Recommendation
}

type rule struct {
	game     model.Game
	min      int
	measure  func([]model.Metrics) float64
	weak     func(float64) bool
	weakCode Code
	goodCode Code
}

var rules = []rule{
	{
		game: model.GameReaction, min: 3,
		measure:  meanOf(func(m model.Metrics) float64 { return m.(model.ReactionMetrics).AverageMs }),
		weak:     above(300),
		weakCode: RTHigh, goodCode: RTGood,
	},
	{
		game: model.GameAim, min: 2,
		measure:  meanOf(func(m model.Metrics) float64 { return m.(model.AimMetrics).Accuracy }),
		weak:     below(75),
		weakCode: AimLow, goodCode: AimGood,
	},
	{
		game: model.GameSequence, min: 2,
		measure:  maxLevel,
		weak:     below(6),
		weakCode: SeqLow, goodCode: SeqGood,
	},
	{
		game: model.GameGoNoGo, min: 2,
		measure:  meanOf(func(m model.Metrics) float64 { return m.(model.GoNoGoMetrics).NogoAcc }),
		weak:     below(85),
		weakCode: GngLow, goodCode: GngGood,
	},
	{
		game: model.GameStroop, min: 2,
		measure:  meanOf(func(m model.Metrics) float64 { return m.(model.StroopMetrics).CostMs }),
		weak:     above(120),
		weakCode: StroopHigh, goodCode: StroopGood,
	},
	{
		game: model.GameTaps, min: 2,
		measure:  meanOf(func(m model.Metrics) float64 { return stats.TapRate(m.(model.TapsMetrics)) }),
		weak:     below(6),
		weakCode: TapsLow, goodCode: TapsGood,
	},
	{
		game: model.GamePosner, min: 2,
		measure:  meanOf(func(m model.Metrics) float64 { return m.(model.PosnerMetrics).CostMs }),
		weak:     above(60),
		weakCode: PosnerHigh, goodCode: PosnerGood,
	},
	{
		game: model.GameStop, min: 2,
		measure:  meanOf(func(m model.Metrics) float64 { return m.(model.StopSignalMetrics).SsrtMs }),
		weak:     above(250),
		weakCode: SSTLong, goodCode: SSTGood,
	},
	{
		game: model.GameChoice, min: 2,
		measure:  meanOf(func(m model.Metrics) float64 { return m.(model.ChoiceMetrics).Accuracy }),
		weak:     below(90),
		weakCode: CRTLow, goodCode: CRTGood,
	},
}

func above(limit float64) func(float64) bool {
	return func(v float64) bool { return v > limit }
}

func below(limit float64) func(float64) bool {
	return func(v float64) bool { return v < limit }
}

func meanOf(get func(model.Metrics) float64) func([]model.Metrics) float64 {
	return func(ms []model.Metrics) float64 {
		values := make([]float64, len(ms))
		for i, m := range ms {
			values[i] = get(m)
		}
		return stats.Mean(values)
	}
}

func maxLevel(ms []model.Metrics) float64 {
	best := math.Inf(-1)
	for _, m := range ms {
		best = math.Max(best, float64(m.(model.SequenceMetrics).Level))
	}
	return best
}

// InWindow reports whether a record dated at falls within Window of now.
// Records dated in the future count as recent.
func InWindow(at, now time.Time) bool {
	return now.Sub(at) <= Window
}

// Recent returns the records within Window of now, preserving order.
func Recent(records []model.SessionRecord, now time.Time) []model.SessionRecord {
	var out []model.SessionRecord
	for _, r := range records {
		if InWindow(r.Date, now) {
			out = append(out, r)
		}
	}
	return out
}

// ComputeStats counts sessions per game over the whole history and derives
// recommendations from the last seven days, in the fixed game order.
func ComputeStats(records []model.SessionRecord, now time.Time) Stats {
	st := Stats{
		Totals: make(map[model.Game]int, len(model.Games)),
		Last7d: Recent(records, now),
	}
	for _, g := range model.Games {
		st.Totals[g] = 0
	}
	for _, r := range records {
		st.Totals[r.Game()]++
	}

	byGame := make(map[model.Game][]model.Metrics, len(model.Games))
	for _, r := range st.Last7d {
		byGame[r.Game()] = append(byGame[r.Game()], r.Metrics)
	}
	for _, rl := range rules {
		ms := byGame[rl.game]
		if len(ms) < rl.min {
			continue
		}
		v := rl.measure(ms)
		if rl.weak(v) {
			st.Recommendations = append(st.Recommendations, Recommendation{Code: rl.weakCode, Game: rl.game, Value: v})
			continue
		}
		rec := Recommendation{Code: rl.goodCode, Game: rl.game, Value: v}
		if rl.goodCode == CRTGood {
			rec.Value = math.Round(meanOf(func(m model.Metrics) float64 { return m.(model.ChoiceMetrics).AvgRtMs })(ms))
		}
		st.Recommendations = append(st.Recommendations, rec)
	}
	if len(st.Recommendations) == 0 {
		st.Recommendations = []Recommendation{{Code: Start}}
	}
	return st
}
