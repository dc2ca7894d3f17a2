package trial

import (
	"time"

	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/stats"
)

// StroopColors names the four colors, in ChoiceKeys order.
var StroopColors = []string{"red", "green", "blue", "yellow"}

const interTrialPause = 400 * time.Millisecond

// Stroop shows a color word in a possibly conflicting ink color; the
// response names the ink.
type Stroop struct {
	base
	prefs   model.StroopPrefs
	word    int
	ink     int
	showing bool
	shownAt float64
	trials  []model.StroopTrial
}

// NewStroop returns a Stroop engine.
func NewStroop(env Env, prefs model.StroopPrefs) *Stroop {
	return &Stroop{base: newBase(env), prefs: prefs}
}

func (s *Stroop) Game() model.Game { return model.GameStroop }

// Begin implements Engine.
func (s *Stroop) Begin() {
	if !s.start() {
		return
	}
	s.next()
}

func (s *Stroop) next() {
	if !s.live() {
		return
	}
	if len(s.trials) >= s.prefs.Total {
		s.finish()
		return
	}
	n := len(StroopColors)
	s.word = s.env.Rand.Intn(n)
	s.ink = s.word
	if s.env.Rand.Float64() <= s.prefs.IncongruentRatio {
		others := make([]int, 0, n-1)
		for c := 0; c < n; c++ {
			if c != s.word {
				others = append(others, c)
			}
		}
		s.ink = others[s.env.Rand.Intn(len(others))]
	}
	s.showing = true
	s.shownAt = s.now()
	s.trial.next()
}

// Observe implements Engine with in.Choice as the selected color.
func (s *Stroop) Observe(in Input) bool {
	if !s.live() || !s.showing {
		return false
	}
	if in.Choice < 0 || in.Choice >= len(StroopColors) {
		return false
	}
	token, _ := s.trial.current()
	if !s.trial.close(token) {
		return false
	}
	s.showing = false
	s.trials = append(s.trials, model.StroopTrial{
		Congruent: s.word == s.ink,
		LatencyMs: s.now() - s.shownAt,
		Correct:   in.Choice == s.ink,
	})
	s.timers.After(interTrialPause, s.next)
	return true
}

// Stimulus returns the displayed word and ink color indices.
func (s *Stroop) Stimulus() (word, ink int, ok bool) {
	return s.word, s.ink, s.showing
}

// Progress returns completed and total trial counts.
func (s *Stroop) Progress() (int, int) { return len(s.trials), s.prefs.Total }

func (s *Stroop) Log() model.TrialLog {
	return model.StroopLog{Trials: append([]model.StroopTrial(nil), s.trials...)}
}

func (s *Stroop) Result() model.Metrics { return stats.Summarize(s.Log()) }
