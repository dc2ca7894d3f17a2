package trial

import (
	"time"

	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/random"
	"github.com/verte-zerg/cogtrain/internal/stats"
)

// FalseStartMs is the latency recorded for a response before the stimulus.
const FalseStartMs = 1000

// ReactionPhase is the visible state of the reaction game.
type ReactionPhase int

const (
	ReactionIdle ReactionPhase = iota
	ReactionWait
	ReactionGo
	ReactionResult
)

// Reaction measures simple reaction time after a random foreperiod.
type Reaction struct {
	base
	prefs    model.ReactionPrefs
	phase    ReactionPhase
	goAt     float64
	attempts []float64
}

// NewReaction returns a reaction engine.
func NewReaction(env Env, prefs model.ReactionPrefs) *Reaction {
	return &Reaction{base: newBase(env), prefs: prefs}
}

func (r *Reaction) Game() model.Game { return model.GameReaction }

// Begin implements Engine.
func (r *Reaction) Begin() {
	if !r.start() {
		return
	}
	if r.prefs.Attempts <= 0 {
		r.finish()
		return
	}
	r.startTrial()
}

func (r *Reaction) startTrial() {
	lo, hi := float64(r.prefs.MinDelayMs), float64(r.prefs.MaxDelayMs)
	if hi < lo {
		hi = lo
	}
	delay := random.Uniform(r.env.Rand, lo, hi)
	seq := r.trial.next()
	r.phase = ReactionWait
	r.timers.After(time.Duration(delay*float64(time.Millisecond)), func() {
		if cur, open := r.trial.current(); !open || cur != seq {
			return
		}
		r.goAt = r.now()
		r.phase = ReactionGo
	})
}

// Observe implements Engine. Any input counts as the press: a press while
// waiting is a false start, a press on the result screen starts the next
// trial.
func (r *Reaction) Observe(Input) bool {
	if !r.live() {
		return false
	}
	switch r.phase {
	case ReactionWait:
		seq, _ := r.trial.current()
		if !r.trial.close(seq) {
			return false
		}
		r.timers.Cancel()
		r.record(FalseStartMs)
	case ReactionGo:
		seq, _ := r.trial.current()
		if !r.trial.close(seq) {
			return false
		}
		r.record(r.now() - r.goAt)
	case ReactionIdle, ReactionResult:
		r.startTrial()
	}
	return true
}

func (r *Reaction) record(ms float64) {
	r.attempts = append(r.attempts, ms)
	r.phase = ReactionResult
	if len(r.attempts) >= r.prefs.Attempts {
		r.finish()
	}
}

// Phase returns the current phase.
func (r *Reaction) Phase() ReactionPhase { return r.phase }

// Attempts returns the latencies recorded so far.
func (r *Reaction) Attempts() []float64 {
	return append([]float64(nil), r.attempts...)
}

// Target returns the number of attempts in the session.
func (r *Reaction) Target() int { return r.prefs.Attempts }

func (r *Reaction) Log() model.TrialLog {
	return model.ReactionLog{Attempts: r.Attempts()}
}

func (r *Reaction) Result() model.Metrics { return stats.Summarize(r.Log()) }
