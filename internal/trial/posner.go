package trial

import (
	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/random"
	"github.com/verte-zerg/cogtrain/internal/stats"
)

// Posner shows a directional cue followed by a target on either side.
type Posner struct {
	base
	prefs    model.PosnerPrefs
	cue      int
	target   int
	cued     bool
	visible  bool
	targetAt float64
	trials   []model.PosnerTrial
}

// NewPosner returns a Posner cueing engine.
func NewPosner(env Env, prefs model.PosnerPrefs) *Posner {
	return &Posner{base: newBase(env), prefs: prefs}
}

func (p *Posner) Game() model.Game { return model.GamePosner }

// Begin implements Engine.
func (p *Posner) Begin() {
	if !p.start() {
		return
	}
	p.next()
}

func (p *Posner) next() {
	if !p.live() {
		return
	}
	if len(p.trials) >= p.prefs.Trials {
		p.finish()
		return
	}
	p.cue = Right
	if random.Chance(p.env.Rand, 0.5) {
		p.cue = Left
	}
	p.cued = true
	p.visible = false
	token := p.trial.next()
	p.timers.After(model.Ms(p.prefs.IsiMs), func() {
		if cur, open := p.trial.current(); !open || cur != token {
			return
		}
		p.target = p.cue
		if !random.Chance(p.env.Rand, p.prefs.ValidRatio) {
			p.target = 1 - p.cue
		}
		p.visible = true
		p.targetAt = p.now()
	})
}

// Observe implements Engine with in.Choice as Left or Right. Responses
// before the target appears are ignored.
func (p *Posner) Observe(in Input) bool {
	if !p.live() || !p.visible {
		return false
	}
	if in.Choice != Left && in.Choice != Right {
		return false
	}
	token, _ := p.trial.current()
	if !p.trial.close(token) {
		return false
	}
	p.trials = append(p.trials, model.PosnerTrial{
		Valid:     p.cue == p.target,
		LatencyMs: p.now() - p.targetAt,
		Correct:   in.Choice == p.target,
	})
	p.cued = false
	p.visible = false
	p.timers.After(interTrialPause, p.next)
	return true
}

// Cue returns the cued side while a cue is shown.
func (p *Posner) Cue() (int, bool) { return p.cue, p.cued }

// Target returns the target side once it is visible.
func (p *Posner) Target() (int, bool) { return p.target, p.visible }

// Progress returns completed and total trial counts.
func (p *Posner) Progress() (int, int) { return len(p.trials), p.prefs.Trials }

func (p *Posner) Log() model.TrialLog {
	return model.PosnerLog{Trials: append([]model.PosnerTrial(nil), p.trials...)}
}

func (p *Posner) Result() model.Metrics { return stats.Summarize(p.Log()) }
