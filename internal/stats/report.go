package stats

import (
	"github.com/verte-zerg/cogtrain/internal/model"
)

// Headline returns the metric a game is judged by: the value the insight
// thresholds and trend plots use.
func Headline(m model.Metrics) (name string, value float64) {
	switch v := m.(type) {
	case model.ReactionMetrics:
		return "avg ms", v.AverageMs
	case model.AimMetrics:
		return "accuracy %", v.Accuracy
	case model.SequenceMetrics:
		return "level", float64(v.Level)
	case model.GoNoGoMetrics:
		return "no-go acc %", v.NogoAcc
	case model.StroopMetrics:
		return "cost ms", v.CostMs
	case model.TapsMetrics:
		return "taps/s", TapRate(v)
	case model.PosnerMetrics:
		return "cost ms", v.CostMs
	case model.StopSignalMetrics:
		return "ssrt ms", v.SsrtMs
	case model.ChoiceMetrics:
		return "accuracy %", v.Accuracy
	default:
		return "", 0
	}
}

// TapRate returns taps per second, 0 for a zero-length window.
func TapRate(m model.TapsMetrics) float64 {
	if m.Seconds <= 0 {
		return 0
	}
	return float64(m.Taps) / float64(m.Seconds)
}

// Trend is the headline metric of one game over time, oldest first.
type Trend struct {
	Game   model.Game
	Metric string
	Values []float64
}

// Report groups history for rendering.
type Report struct {
	Counts map[model.Game]int
	Trends []Trend
}

// BuildReport prepares per-game counts and trends from newest-first records.
// last limits each trend to its most recent sessions when positive.
func BuildReport(records []model.SessionRecord, last int) Report {
	rep := Report{Counts: make(map[model.Game]int, len(model.Games))}
	byGame := make(map[model.Game][]float64, len(model.Games))
	names := make(map[model.Game]string, len(model.Games))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.Metrics == nil {
			continue
		}
		g := r.Game()
		rep.Counts[g]++
		name, v := Headline(r.Metrics)
		names[g] = name
		byGame[g] = append(byGame[g], v)
	}
	for _, g := range model.Games {
		values := byGame[g]
		if len(values) == 0 {
			continue
		}
		if last > 0 && len(values) > last {
			values = values[len(values)-last:]
		}
		rep.Trends = append(rep.Trends, Trend{Game: g, Metric: names[g], Values: values})
	}
	return rep
}
