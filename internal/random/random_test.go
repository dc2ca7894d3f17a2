package random

import "testing"

func TestSeededIsDeterministic(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 20; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("expected identical sequences at draw %d", i)
		}
	}
}

func TestScriptedCyclesAndMaps(t *testing.T) {
	s := NewScripted(0.1, 0.9)
	if got := s.Float64(); got != 0.1 {
		t.Fatalf("expected 0.1, got %v", got)
	}
	if got := s.Intn(4); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := s.Intn(4); got != 0 {
		t.Fatalf("expected cycle back to 0, got %d", got)
	}
	if s.Draws() != 3 {
		t.Fatalf("expected 3 draws, got %d", s.Draws())
	}
}

func TestChanceComparesBelowRatio(t *testing.T) {
	s := NewScripted(0.25, 0.24)
	if Chance(s, 0.25) {
		t.Fatalf("0.25 must not be below 0.25")
	}
	if !Chance(s, 0.25) {
		t.Fatalf("0.24 must be below 0.25")
	}
}

func TestUniformRange(t *testing.T) {
	s := NewScripted(0.5)
	if got := Uniform(s, 800, 2600); got != 1700 {
		t.Fatalf("expected 1700, got %v", got)
	}
}
