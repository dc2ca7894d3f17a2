// Package random provides the seedable random source shared by all games.
package random

import (
	"math/rand"
	"time"
)

// Source draws uniform values. Every randomized decision in the games goes
// through one Source so tests can substitute a scripted sequence.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Intn returns a uniform value in [0, n).
	Intn(n int) int
}

// Rand is a Source backed by math/rand.
type Rand struct {
	rnd *rand.Rand
}

// New returns a Rand seeded with the current time.
func New() *Rand {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Rand.
func NewSeeded(seed int64) *Rand {
	return &Rand{rnd: rand.New(rand.NewSource(seed))}
}

// Float64 implements Source.
func (r *Rand) Float64() float64 {
	return r.rnd.Float64()
}

// Intn implements Source. It returns 0 when n <= 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.rnd.Intn(n)
}

// Chance draws a uniform value and reports whether it falls below p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Uniform returns a value drawn uniformly from [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Scripted replays a fixed list of uniform values, cycling when exhausted.
// Intn maps the next value onto [0, n).
type Scripted struct {
	values []float64
	pos    int
}

// NewScripted returns a Scripted source. Values should lie in [0, 1).
func NewScripted(values ...float64) *Scripted {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Scripted{values: values}
}

// Float64 implements Source.
func (s *Scripted) Float64() float64 {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

// Intn implements Source.
func (s *Scripted) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	idx := int(s.Float64() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Draws returns how many values have been consumed.
func (s *Scripted) Draws() int {
	return s.pos
}
