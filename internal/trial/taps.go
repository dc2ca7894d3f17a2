package trial

import (
	"time"

	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/stats"
)

// Taps counts taps inside a fixed window, repeated for a number of attempts.
type Taps struct {
	base
	prefs    model.TapsPrefs
	windowAt time.Duration
	lastTap  float64
	tapped   bool
	current  model.TapAttempt
	attempts []model.TapAttempt
}

// NewTaps returns a tap speed engine.
func NewTaps(env Env, prefs model.TapsPrefs) *Taps {
	if prefs.Attempts < 1 {
		prefs.Attempts = 1
	}
	return &Taps{base: newBase(env), prefs: prefs}
}

func (t *Taps) Game() model.Game { return model.GameTaps }

// Begin implements Engine.
func (t *Taps) Begin() {
	if !t.start() {
		return
	}
	if t.prefs.Seconds <= 0 {
		t.finish()
		return
	}
	t.window()
}

func (t *Taps) window() {
	t.current = model.TapAttempt{}
	t.tapped = false
	t.windowAt = t.env.Clock.Now()
	token := t.trial.next()
	t.timers.After(time.Duration(t.prefs.Seconds)*time.Second, func() {
		if !t.trial.close(token) {
			return
		}
		t.attempts = append(t.attempts, t.current)
		if len(t.attempts) >= t.prefs.Attempts {
			t.finish()
			return
		}
		t.window()
	})
}

// Observe implements Engine; any input is a tap.
func (t *Taps) Observe(Input) bool {
	if !t.live() {
		return false
	}
	if _, open := t.trial.current(); !open {
		return false
	}
	now := t.now()
	if t.tapped {
		t.current.Intervals = append(t.current.Intervals, now-t.lastTap)
	}
	t.tapped = true
	t.lastTap = now
	t.current.Taps++
	return true
}

// Current returns the tap count of the running attempt.
func (t *Taps) Current() int { return t.current.Taps }

// Round returns the 1-based attempt number and the attempt count.
func (t *Taps) Round() (int, int) {
	r := len(t.attempts) + 1
	if r > t.prefs.Attempts {
		r = t.prefs.Attempts
	}
	return r, t.prefs.Attempts
}

// TimeLeft returns the remaining time in the running window.
func (t *Taps) TimeLeft() time.Duration {
	if !t.live() {
		return 0
	}
	left := time.Duration(t.prefs.Seconds)*time.Second - (t.env.Clock.Now() - t.windowAt)
	if left < 0 {
		return 0
	}
	return left
}

func (t *Taps) Log() model.TrialLog {
	attempts := make([]model.TapAttempt, len(t.attempts))
	copy(attempts, t.attempts)
	return model.TapsLog{Seconds: t.prefs.Seconds, Attempts: attempts}
}

func (t *Taps) Result() model.Metrics { return stats.Summarize(t.Log()) }
