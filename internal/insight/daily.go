package insight

import (
	"time"

	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/stats"
)

type day struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) day {
	y, m, d := t.In(loc).Date()
	return day{y, m, d}
}

// TodayCount returns the number of sessions completed on now's calendar day,
// in now's location.
func TodayCount(records []model.SessionRecord, now time.Time) int {
	today := dayOf(now, now.Location())
	n := 0
	for _, r := range records {
		if dayOf(r.Date, now.Location()) == today {
			n++
		}
	}
	return n
}

// TodayByGame counts today's sessions per game.
func TodayByGame(records []model.SessionRecord, now time.Time) map[model.Game]int {
	today := dayOf(now, now.Location())
	out := map[model.Game]int{}
	for _, r := range records {
		if dayOf(r.Date, now.Location()) == today {
			out[r.Game()]++
		}
	}
	return out
}

// Streak returns the number of consecutive calendar days with at least one
// session, ending today. A day without training today yields 0.
func Streak(records []model.SessionRecord, now time.Time) int {
	loc := now.Location()
	days := make(map[day]struct{}, len(records))
	for _, r := range records {
		days[dayOf(r.Date, loc)] = struct{}{}
	}
	streak := 0
	d := now.In(loc)
	for {
		if _, ok := days[dayOf(d, loc)]; !ok {
			return streak
		}
		streak++
		d = d.AddDate(0, 0, -1)
	}
}

// PlanStatus is one plan item with today's progress.
type PlanStatus struct {
	Item model.PlanItem
	Done int
}

// Complete reports whether today's target was reached.
func (p PlanStatus) Complete() bool {
	return p.Done >= p.Item.TargetPerDay
}

// PlanProgress matches today's sessions against each plan item.
func PlanProgress(plan []model.PlanItem, records []model.SessionRecord, now time.Time) []PlanStatus {
	today := TodayByGame(records, now)
	out := make([]PlanStatus, len(plan))
	for i, item := range plan {
		out[i] = PlanStatus{Item: item, Done: today[item.Game]}
	}
	return out
}

// Summary compares the latest session of each game with the 7-day means
// shown after a unified training run.
type Summary struct {
	Latest       map[model.Game]model.SessionRecord
	ReactionAvg7 float64
	AimHitsAvg7  float64
	TapsAvg7     float64
}

// TrainingSummary builds the end-of-run summary from newest-first records.
func TrainingSummary(records []model.SessionRecord, now time.Time) Summary {
	sum := Summary{Latest: map[model.Game]model.SessionRecord{}}
	for _, r := range records {
		if _, ok := sum.Latest[r.Game()]; !ok {
			sum.Latest[r.Game()] = r
		}
	}
	var rt, hits, taps []float64
	for _, r := range Recent(records, now) {
		switch m := r.Metrics.(type) {
		case model.ReactionMetrics:
			rt = append(rt, m.AverageMs)
		case model.AimMetrics:
			hits = append(hits, float64(m.Hits))
		case model.TapsMetrics:
			taps = append(taps, float64(m.Taps))
		}
	}
	sum.ReactionAvg7 = stats.Mean(rt)
	sum.AimHitsAvg7 = stats.Mean(hits)
	sum.TapsAvg7 = stats.Mean(taps)
	return sum
}
