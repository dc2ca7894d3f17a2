package trial

import (
	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/random"
	"github.com/verte-zerg/cogtrain/internal/stats"
)

// GoNoGo presents Go and No-Go stimuli; any input is the Go action.
type GoNoGo struct {
	base
	prefs   model.GoNoGoPrefs
	isGo    bool
	shownAt float64
	trials  []model.GoNoGoTrial
}

// NewGoNoGo returns a go/no-go engine.
func NewGoNoGo(env Env, prefs model.GoNoGoPrefs) *GoNoGo {
	return &GoNoGo{base: newBase(env), prefs: prefs}
}

func (g *GoNoGo) Game() model.Game { return model.GameGoNoGo }

// Begin implements Engine.
func (g *GoNoGo) Begin() {
	if !g.start() {
		return
	}
	g.next()
}

func (g *GoNoGo) next() {
	if len(g.trials) >= g.prefs.Trials {
		g.finish()
		return
	}
	g.isGo = random.Chance(g.env.Rand, g.prefs.GoRatio)
	g.shownAt = g.now()
	token := g.trial.next()
	g.timers.After(model.Ms(g.prefs.IsiMs), func() {
		if !g.trial.close(token) {
			return
		}
		g.trials = append(g.trials, model.GoNoGoTrial{Go: g.isGo, Correct: !g.isGo})
		g.next()
	})
}

// Observe implements Engine.
func (g *GoNoGo) Observe(Input) bool {
	if !g.live() {
		return false
	}
	token, _ := g.trial.current()
	if !g.trial.close(token) {
		return false
	}
	g.timers.Cancel()
	t := model.GoNoGoTrial{Go: g.isGo, Responded: true, Correct: g.isGo}
	if g.isGo {
		t.LatencyMs = g.now() - g.shownAt
	}
	g.trials = append(g.trials, t)
	g.next()
	return true
}

// IsGo reports whether the current stimulus is a Go stimulus.
func (g *GoNoGo) IsGo() bool { return g.isGo }

// Progress returns completed and total trial counts.
func (g *GoNoGo) Progress() (int, int) { return len(g.trials), g.prefs.Trials }

func (g *GoNoGo) Log() model.TrialLog {
	return model.GoNoGoLog{Trials: append([]model.GoNoGoTrial(nil), g.trials...)}
}

func (g *GoNoGo) Result() model.Metrics { return stats.Summarize(g.Log()) }
