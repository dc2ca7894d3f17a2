package model

// TrialLog is the raw observation log of one finished session, before it is
// summarised into Metrics.
type TrialLog interface {
	Game() Game
}

// ReactionLog holds measured latencies; false starts are stored as the
// penalty latency.
type ReactionLog struct {
	Attempts []float64
}

// AimLog holds click and target counters for one aim session.
type AimLog struct {
	Hits        int
	Attempts    int
	Spawns      int
	Expired     int
	DurationSec int
}

// SequenceLog is the outcome of a failed sequence round.
type SequenceLog struct {
	Level   int
	Longest int
}

// GoNoGoTrial is one go/no-go observation. LatencyMs is set only for Go
// trials that received a response.
type GoNoGoTrial struct {
	Go        bool
	Responded bool
	LatencyMs float64
	Correct   bool
}

// GoNoGoLog holds all go/no-go observations of a session.
type GoNoGoLog struct {
	Trials []GoNoGoTrial
}

// StroopTrial is one Stroop response.
type StroopTrial struct {
	Congruent bool
	LatencyMs float64
	Correct   bool
}

// StroopLog holds all Stroop observations of a session.
type StroopLog struct {
	Trials []StroopTrial
}

// TapAttempt is one timed tapping window.
type TapAttempt struct {
	Taps      int
	Intervals []float64
}

// TapsLog holds every attempt of a tap speed session.
type TapsLog struct {
	Seconds  int
	Attempts []TapAttempt
}

// PosnerTrial is one Posner cueing response.
type PosnerTrial struct {
	Valid     bool
	LatencyMs float64
	Correct   bool
}

// PosnerLog holds all Posner observations of a session.
type PosnerLog struct {
	Trials []PosnerTrial
}

// StopTrial is one stop-signal observation. For Go trials Correct means a
// timely response in the cued direction. For Stop trials Correct means the
// response was withheld; DirectionCorrect records whether a failed stop was
// keyed in the cued direction.
type StopTrial struct {
	Stop             bool
	Responded        bool
	LatencyMs        float64
	Correct          bool
	DirectionCorrect bool
	SSDMs            float64
}

// StopSignalLog holds all stop-signal observations and the final delay.
type StopSignalLog struct {
	Trials     []StopTrial
	FinalSSDMs float64
}

// ChoiceTrial is one choice reaction response.
type ChoiceTrial struct {
	Cue       int
	Response  int
	LatencyMs float64
	Correct   bool
}

// ChoiceLog holds all choice reaction observations of a session.
type ChoiceLog struct {
	Choices int
	Trials  []ChoiceTrial
}

func (ReactionLog) Game() Game { return GameReaction }
func (AimLog) Game() Game { return GameAim }
func (SequenceLog) Game() Game { return GameSequence }
func (GoNoGoLog) Game() Game { return GameGoNoGo }
func (StroopLog) Game() Game { return GameStroop }
func (TapsLog) Game() Game { return GameTaps }
func (PosnerLog) Game() Game { return GamePosner }
func (StopSignalLog) Game() Game { return GameStop }
func (ChoiceLog) Game() Game { return GameChoice }
