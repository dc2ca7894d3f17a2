// Package trial implements the per-game trial state machines.
//
// Engines are single-threaded. All waiting is expressed as callbacks on a
// sched.Scheduler; inputs are delivered by the host through Observe. Each
// engine records at most one outcome per trial and ignores inputs or timer
// callbacks that arrive after the trial was finalized.
package trial

import (
	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/random"
	"github.com/verte-zerg/cogtrain/internal/sched"
)

// Side values for two-alternative games.
const (
	Left  = 0
	Right = 1
)

// Input is one user response. Choice carries the key or option index, X and
// Y carry pointer coordinates for the aim trainer.
type Input struct {
	Choice int
	X, Y   float64
}

// Engine is a running game session.
type Engine interface {
	Game() model.Game
	// Begin starts the first trial. Calling it twice has no effect.
	Begin()
	// Observe delivers a response and reports whether it was accepted.
	Observe(in Input) bool
	Complete() bool
	// Abort cancels all pending timers. A subsequent Observe is ignored.
	Abort()
	// OnComplete registers fn to run once when the session completes.
	OnComplete(fn func())
	Log() model.TrialLog
	// Result summarises the log collected so far.
	Result() model.Metrics
}

// Env carries the collaborators every engine needs.
type Env struct {
	Clock *sched.Scheduler
	Rand  random.Source
}

// ChoiceKeys maps the four choice-reaction positions and Stroop colors to
// keys, left to right.
var ChoiceKeys = []string{"d", "f", "j", "k"}

// KeyIndex returns the position of key in ChoiceKeys or -1.
func KeyIndex(key string) int {
	for i, k := range ChoiceKeys {
		if k == key {
			return i
		}
	}
	return -1
}

// guard hands out one token per trial. close succeeds only once per token,
// so a response and a timeout racing for the same trial produce one outcome.
type guard struct {
	seq  uint64
	open bool
}

func (g *guard) next() uint64 {
	g.seq++
	g.open = true
	return g.seq
}

func (g *guard) close(seq uint64) bool {
	if !g.open || seq != g.seq {
		return false
	}
	g.open = false
	return true
}

func (g *guard) current() (uint64, bool) {
	return g.seq, g.open
}

// base holds the lifecycle shared by all engines.
type base struct {
	env        Env
	timers     *sched.Group
	trial      guard
	started    bool
	done       bool
	aborted    bool
	onComplete []func()
}

func newBase(env Env) base {
	if env.Clock == nil {
		env.Clock = sched.New()
	}
	if env.Rand == nil {
		env.Rand = random.New()
	}
	return base{env: env, timers: sched.NewGroup(env.Clock)}
}

func (b *base) now() float64 {
	return float64(b.env.Clock.Now().Microseconds()) / 1000
}

// start marks the session started and reports whether the caller should
// proceed.
func (b *base) start() bool {
	if b.started || b.aborted {
		return false
	}
	b.started = true
	return true
}

func (b *base) live() bool {
	return b.started && !b.done && !b.aborted
}

func (b *base) finish() {
	if b.done {
		return
	}
	b.done = true
	b.trial.open = false
	b.timers.Cancel()
	for _, fn := range b.onComplete {
		fn()
	}
}

// Complete implements Engine.
func (b *base) Complete() bool {
	return b.done
}

// Abort implements Engine.
func (b *base) Abort() {
	b.aborted = true
	b.trial.open = false
	b.timers.Cancel()
}

// Aborted reports whether the session was aborted.
func (b *base) Aborted() bool {
	return b.aborted
}

// OnComplete implements Engine.
func (b *base) OnComplete(fn func()) {
	if fn != nil {
		b.onComplete = append(b.onComplete, fn)
	}
}
