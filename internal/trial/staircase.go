package trial

// Staircase is the 1-up/1-down stop-signal delay controller. A successful
// stop lengthens the delay by one step, a failed stop shortens it by one step
// down to zero.
type Staircase struct {
	SSDMs  float64
	StepMs float64
}

// NewStaircase returns a staircase starting at initialMs.
func NewStaircase(initialMs, stepMs float64) *Staircase {
	if initialMs < 0 {
		initialMs = 0
	}
	return &Staircase{SSDMs: initialMs, StepMs: stepMs}
}

// Success records a withheld response.
func (s *Staircase) Success() {
	s.SSDMs += s.StepMs
}

// Failure records a response on a stop trial.
func (s *Staircase) Failure() {
	s.SSDMs -= s.StepMs
	if s.SSDMs < 0 {
		s.SSDMs = 0
	}
}
