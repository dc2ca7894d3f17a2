package trial

import (
	"time"

	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/stats"
)

// SequenceSymbols is the size of the sequence alphabet.
const SequenceSymbols = 4

const (
	sequenceNextLevel = 400 * time.Millisecond
	sequenceSettle    = 10 * time.Millisecond
)

// SequencePhase is the visible state of the sequence game.
type SequencePhase int

const (
	SequenceShowing SequencePhase = iota
	SequenceInput
	SequencePause
	SequenceOver
)

// Sequence plays back a growing symbol sequence and checks its reproduction.
type Sequence struct {
	base
	prefs   model.SequencePrefs
	phase   SequencePhase
	level   int
	longest int
	seq     []int
	pos     int
	lit     int
	failed  int
	reached int
}

// NewSequence returns a sequence memory engine.
func NewSequence(env Env, prefs model.SequencePrefs) *Sequence {
	return &Sequence{base: newBase(env), prefs: prefs, level: 1, longest: 1, lit: -1}
}

func (s *Sequence) Game() model.Game { return model.GameSequence }

// Begin implements Engine.
func (s *Sequence) Begin() {
	if !s.start() {
		return
	}
	s.play()
}

func (s *Sequence) play() {
	s.seq = make([]int, s.level)
	for i := range s.seq {
		s.seq[i] = s.env.Rand.Intn(SequenceSymbols)
	}
	s.pos = 0
	s.lit = -1
	s.phase = SequenceShowing
	token := s.trial.next()

	show, gap := model.Ms(s.prefs.ShowMs), model.Ms(s.prefs.GapMs)
	for i, sym := range s.seq {
		i, sym := i, sym
		on := time.Duration(i) * (show + gap)
		s.timers.After(on, func() {
			if cur, _ := s.trial.current(); cur == token {
				s.lit = sym
			}
		})
		s.timers.After(on+show, func() {
			if cur, _ := s.trial.current(); cur == token && s.lit == sym {
				s.lit = -1
			}
		})
	}
	end := time.Duration(len(s.seq))*(show+gap) + sequenceSettle
	s.timers.After(end, func() {
		if cur, open := s.trial.current(); open && cur == token {
			s.lit = -1
			s.phase = SequenceInput
		}
	})
}

// Observe implements Engine with in.Choice as the symbol. Inputs outside the
// input phase are ignored.
func (s *Sequence) Observe(in Input) bool {
	if !s.live() || s.phase != SequenceInput {
		return false
	}
	if in.Choice < 0 || in.Choice >= SequenceSymbols {
		return false
	}
	if in.Choice != s.seq[s.pos] {
		s.fail()
		return true
	}
	s.pos++
	if s.pos < len(s.seq) {
		return true
	}
	token, _ := s.trial.current()
	s.trial.close(token)
	if s.level+1 > s.longest {
		s.longest = s.level + 1
	}
	s.level++
	s.phase = SequencePause
	s.timers.After(sequenceNextLevel, s.resume)
	return true
}

func (s *Sequence) fail() {
	token, _ := s.trial.current()
	s.trial.close(token)
	reached := s.level - 1
	if reached > s.longest {
		s.longest = reached
	}
	if reached > s.reached {
		s.reached = reached
	}
	s.failed++
	s.level = 1
	rounds := s.prefs.Rounds
	if rounds < 1 {
		rounds = 1
	}
	if s.failed >= rounds {
		s.phase = SequenceOver
		s.finish()
		return
	}
	s.phase = SequencePause
	s.timers.After(sequenceNextLevel, s.resume)
}

func (s *Sequence) resume() {
	if s.live() {
		s.play()
	}
}

// Phase returns the current phase.
func (s *Sequence) Phase() SequencePhase { return s.phase }

// Lit returns the highlighted symbol during playback, or -1.
func (s *Sequence) Lit() int { return s.lit }

// Level returns the current level.
func (s *Sequence) Level() int { return s.level }

// Longest returns the longest level reached so far.
func (s *Sequence) Longest() int { return s.longest }

// Progress returns how many symbols of the current sequence were entered.
func (s *Sequence) Progress() (int, int) { return s.pos, len(s.seq) }

func (s *Sequence) Log() model.TrialLog {
	return model.SequenceLog{Level: s.reached, Longest: s.longest}
}

func (s *Sequence) Result() model.Metrics { return stats.Summarize(s.Log()) }
