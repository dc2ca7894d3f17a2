package stats

import (
	"github.com/verte-zerg/cogtrain/internal/model"
)

// MinPlausibleMs is the shortest reaction latency counted towards the
// reaction average. False starts are recorded as 1000 ms and pass the filter.
const MinPlausibleMs = 120

// Summarize converts a finished trial log into its persisted metrics. It
// never performs I/O; empty sample sets produce zero values. A nil or
// unknown log yields nil.
func Summarize(log model.TrialLog) model.Metrics {
	switch l := log.(type) {
	case model.ReactionLog:
		return SummarizeReaction(l)
	case model.AimLog:
		return SummarizeAim(l)
	case model.SequenceLog:
		return SummarizeSequence(l)
	case model.GoNoGoLog:
		return SummarizeGoNoGo(l)
	case model.StroopLog:
		return SummarizeStroop(l)
	case model.TapsLog:
		return SummarizeTaps(l)
	case model.PosnerLog:
		return SummarizePosner(l)
	case model.StopSignalLog:
		return SummarizeStopSignal(l)
	case model.ChoiceLog:
		return SummarizeChoice(l)
	default:
		return nil
	}
}

// SummarizeReaction averages attempts at or above MinPlausibleMs. Best is the
// fastest of those, or the fastest attempt overall when none qualifies.
func SummarizeReaction(l model.ReactionLog) model.ReactionMetrics {
	attempts := append([]float64{}, l.Attempts...)
	valid := make([]float64, 0, len(attempts))
	for _, a := range attempts {
		if a >= MinPlausibleMs {
			valid = append(valid, a)
		}
	}
	best, ok := Min(valid)
	if !ok {
		best, _ = Min(attempts)
	}
	return model.ReactionMetrics{
		Attempts:  attempts,
		AverageMs: Mean(valid),
		BestMs:    best,
	}
}

// SummarizeAim computes hit accuracy over clicks, capped at 100.
func SummarizeAim(l model.AimLog) model.AimMetrics {
	return model.AimMetrics{
		Hits:     l.Hits,
		Accuracy: Percent(l.Hits, l.Attempts),
		TimeSec:  l.DurationSec,
	}
}

func SummarizeSequence(l model.SequenceLog) model.SequenceMetrics {
	return model.SequenceMetrics{Level: l.Level, Longest: l.Longest}
}

// SummarizeGoNoGo scores Go and No-Go accuracy separately. The average
// latency covers correct Go responses only.
func SummarizeGoNoGo(l model.GoNoGoLog) model.GoNoGoMetrics {
	var goN, goOK, nogoN, nogoOK int
	var rts []float64
	for _, t := range l.Trials {
		if t.Go {
			goN++
			if t.Correct {
				goOK++
				if t.Responded {
					rts = append(rts, t.LatencyMs)
				}
			}
			continue
		}
		nogoN++
		if t.Correct {
			nogoOK++
		}
	}
	return model.GoNoGoMetrics{
		GoAcc:   Percent(goOK, goN),
		NogoAcc: Percent(nogoOK, nogoN),
		AvgRtMs: Mean(rts),
	}
}

// SummarizeStroop averages correct latencies per condition. The cost is
// clamped at zero.
func SummarizeStroop(l model.StroopLog) model.StroopMetrics {
	var cong, incong []float64
	correct := 0
	for _, t := range l.Trials {
		if !t.Correct {
			continue
		}
		correct++
		if t.Congruent {
			cong = append(cong, t.LatencyMs)
		} else {
			incong = append(incong, t.LatencyMs)
		}
	}
	c, i := Mean(cong), Mean(incong)
	return model.StroopMetrics{
		CongruentAvgMs:   c,
		IncongruentAvgMs: i,
		Accuracy:         Percent(correct, len(l.Trials)),
		CostMs:           Cost(i, c),
	}
}

// SummarizeTaps keeps the attempt with the most taps; ties keep the earlier
// attempt.
func SummarizeTaps(l model.TapsLog) model.TapsMetrics {
	out := model.TapsMetrics{Seconds: l.Seconds}
	bestIdx := -1
	for i, a := range l.Attempts {
		if bestIdx < 0 || a.Taps > l.Attempts[bestIdx].Taps {
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		best := l.Attempts[bestIdx]
		out.Taps = best.Taps
		out.AvgIntervalMs = Mean(best.Intervals)
	}
	return out
}

// SummarizePosner averages correct latencies for valid and invalid cues.
func SummarizePosner(l model.PosnerLog) model.PosnerMetrics {
	var valid, invalid []float64
	correct := 0
	for _, t := range l.Trials {
		if !t.Correct {
			continue
		}
		correct++
		if t.Valid {
			valid = append(valid, t.LatencyMs)
		} else {
			invalid = append(invalid, t.LatencyMs)
		}
	}
	v, i := Mean(valid), Mean(invalid)
	return model.PosnerMetrics{
		ValidAvgMs:   v,
		InvalidAvgMs: i,
		CostMs:       Cost(i, v),
		Accuracy:     Percent(correct, len(l.Trials)),
	}
}

// SummarizeStopSignal reports Go accuracy, stop success over stop trials
// and SSRT as the mean correct Go latency minus the final delay.
func SummarizeStopSignal(l model.StopSignalLog) model.StopSignalMetrics {
	var goN, goOK, stopN, stopOK int
	var rts []float64
	for _, t := range l.Trials {
		if t.Stop {
			stopN++
			if t.Correct {
				stopOK++
			}
			continue
		}
		goN++
		if t.Correct {
			goOK++
			rts = append(rts, t.LatencyMs)
		}
	}
	return model.StopSignalMetrics{
		AvgSsdMs:       l.FinalSSDMs,
		SsrtMs:         Cost(Mean(rts), l.FinalSSDMs),
		StopSuccessPct: Percent(stopOK, stopN),
		GoAcc:          Percent(goOK, goN),
	}
}

// SummarizeChoice averages correct latencies; accuracy covers all trials.
func SummarizeChoice(l model.ChoiceLog) model.ChoiceMetrics {
	var rts []float64
	for _, t := range l.Trials {
		if t.Correct {
			rts = append(rts, t.LatencyMs)
		}
	}
	return model.ChoiceMetrics{
		Choices:  l.Choices,
		AvgRtMs:  Mean(rts),
		Accuracy: Percent(len(rts), len(l.Trials)),
	}
}
