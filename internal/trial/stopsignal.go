package trial

import (
	"time"

	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/random"
	"github.com/verte-zerg/cogtrain/internal/stats"
)

// StopSignal runs the stop-signal task. Each trial cues a direction; on stop
// trials a signal follows after the staircase delay and any response counts
// as a failed stop.
type StopSignal struct {
	base
	prefs     model.StopPrefs
	stairs    *Staircase
	dir       int
	willStop  bool
	signalled bool
	active    bool
	startedAt float64
	trialSSD  float64
	trials    []model.StopTrial
	onSignal  func()
}

// NewStopSignal returns a stop-signal engine.
func NewStopSignal(env Env, prefs model.StopPrefs) *StopSignal {
	return &StopSignal{
		base:   newBase(env),
		prefs:  prefs,
		stairs: NewStaircase(float64(prefs.InitialSSDMs), float64(prefs.StepMs)),
	}
}

func (s *StopSignal) Game() model.Game { return model.GameStop }

// OnSignal registers fn to run whenever the stop signal is presented.
func (s *StopSignal) OnSignal(fn func()) { s.onSignal = fn }

// Begin implements Engine.
func (s *StopSignal) Begin() {
	if !s.start() {
		return
	}
	s.next()
}

func (s *StopSignal) next() {
	if len(s.trials) >= s.prefs.Trials {
		s.finish()
		return
	}
	s.dir = Right
	if random.Chance(s.env.Rand, 0.5) {
		s.dir = Left
	}
	s.willStop = random.Chance(s.env.Rand, s.prefs.StopRatio)
	s.signalled = false
	s.active = true
	s.startedAt = s.now()
	s.trialSSD = s.stairs.SSDMs
	token := s.trial.next()

	if s.willStop {
		delay := time.Duration(s.trialSSD * float64(time.Millisecond))
		s.timers.After(delay, func() {
			if cur, open := s.trial.current(); !open || cur != token {
				return
			}
			s.signalled = true
			if s.onSignal != nil {
				s.onSignal()
			}
		})
	}
	s.timers.After(model.Ms(s.prefs.ResponseWindowMs), func() {
		if !s.trial.close(token) {
			return
		}
		s.timers.Cancel()
		if s.willStop {
			s.trials = append(s.trials, model.StopTrial{Stop: true, Correct: true, SSDMs: s.trialSSD})
			s.stairs.Success()
		} else {
			s.trials = append(s.trials, model.StopTrial{})
		}
		s.active = false
		s.next()
	})
}

// Observe implements Engine with in.Choice as Left or Right.
func (s *StopSignal) Observe(in Input) bool {
	if !s.live() || !s.active {
		return false
	}
	if in.Choice != Left && in.Choice != Right {
		return false
	}
	token, _ := s.trial.current()
	if !s.trial.close(token) {
		return false
	}
	s.timers.Cancel()
	rt := s.now() - s.startedAt
	dirOK := in.Choice == s.dir
	if s.willStop {
		s.trials = append(s.trials, model.StopTrial{
			Stop:             true,
			Responded:        true,
			LatencyMs:        rt,
			DirectionCorrect: dirOK,
			SSDMs:            s.trialSSD,
		})
		s.stairs.Failure()
	} else {
		s.trials = append(s.trials, model.StopTrial{
			Responded:        true,
			LatencyMs:        rt,
			Correct:          dirOK,
			DirectionCorrect: dirOK,
		})
	}
	s.active = false
	s.next()
	return true
}

// Direction returns the cued direction of the running trial.
func (s *StopSignal) Direction() (int, bool) { return s.dir, s.active }

// Signalled reports whether the stop signal of the running trial is shown.
func (s *StopSignal) Signalled() bool { return s.signalled }

// SSD returns the current stop-signal delay in milliseconds.
func (s *StopSignal) SSD() float64 { return s.stairs.SSDMs }

// Progress returns completed and total trial counts.
func (s *StopSignal) Progress() (int, int) { return len(s.trials), s.prefs.Trials }

func (s *StopSignal) Log() model.TrialLog {
	return model.StopSignalLog{
		Trials:     append([]model.StopTrial(nil), s.trials...),
		FinalSSDMs: s.stairs.SSDMs,
	}
}

func (s *StopSignal) Result() model.Metrics { return stats.Summarize(s.Log()) }
