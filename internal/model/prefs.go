package model

import "time"

// Prefs holds per-game timing and difficulty parameters.
type Prefs struct {
	SoundEnabled   bool          `json:"soundEnabled"`
	VibrateEnabled bool          `json:"vibrateEnabled"`
	Reaction       ReactionPrefs `json:"reaction"`
	Aim            AimPrefs      `json:"aim"`
	Sequence       SequencePrefs `json:"sequence"`
	GoNoGo         GoNoGoPrefs   `json:"gng"`
	Stroop         StroopPrefs   `json:"stroop"`
	Taps           TapsPrefs     `json:"taps"`
	Posner         PosnerPrefs   `json:"posner"`
	Stop           StopPrefs     `json:"sst"`
	Choice         ChoicePrefs   `json:"crt"`
}

// ReactionPrefs configures the reaction time game.
type ReactionPrefs struct {
	MinDelayMs int `json:"minDelayMs"`
	MaxDelayMs int `json:"maxDelayMs"`
	Attempts   int `json:"attempts"`
}

// AimPrefs configures the aim trainer.
type AimPrefs struct {
	Radius       int `json:"radius"`
	SpawnMinMs   int `json:"spawnMinMs"`
	SpawnMaxMs   int `json:"spawnMaxMs"`
	DurationSec  int `json:"durationSec"`
	TargetLifeMs int `json:"targetLifeMs"`
}

// SequencePrefs configures sequence memory playback.
type SequencePrefs struct {
	ShowMs int `json:"showMs"`
	GapMs  int `json:"gapMs"`
	// Rounds is how many failed sequences end the session. The session
	// yields one record whose Level is the best round.
	Rounds int `json:"rounds"`
}

// GoNoGoPrefs configures the go/no-go task.
type GoNoGoPrefs struct {
	Trials  int     `json:"trials"`
	GoRatio float64 `json:"goRatio"`
	IsiMs   int     `json:"isiMs"`
}

// StroopPrefs configures the Stroop task.
type StroopPrefs struct {
	Total            int     `json:"total"`
	IncongruentRatio float64 `json:"incongruentRatio"`
}

// TapsPrefs configures tap speed.
type TapsPrefs struct {
	Seconds  int `json:"seconds"`
	Attempts int `json:"attempts"`
}

// PosnerPrefs configures Posner cueing.
type PosnerPrefs struct {
	Trials     int     `json:"trials"`
	ValidRatio float64 `json:"validRatio"`
	IsiMs      int     `json:"isiMs"`
}

// StopPrefs configures the stop-signal task and its staircase.
type StopPrefs struct {
	Trials           int     `json:"trials"`
	StopRatio        float64 `json:"stopRatio"`
	StepMs           int     `json:"stepMs"`
	InitialSSDMs     int     `json:"initialSsdMs"`
	ResponseWindowMs int     `json:"responseWindowMs"`
}

// ChoicePrefs configures choice reaction time.
type ChoicePrefs struct {
	Trials int `json:"trials"`
}

// Ms converts a millisecond preference into a duration.
func Ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// PlanItem is a daily training target for one game.
type PlanItem struct {
	Game         Game `json:"game"`
	TargetPerDay int  `json:"targetPerDay"`
}
