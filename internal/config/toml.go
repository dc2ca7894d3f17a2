package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/cogtrain/internal/model"
)

// FileConfig represents the TOML configuration file. Every field is a
// pointer so absent keys leave the stored preferences alone.
type FileConfig struct {
	General  GeneralConfig  `toml:"general"`
	Reaction ReactionConfig `toml:"reaction"`
	Aim      AimConfig      `toml:"aim"`
	Sequence SequenceConfig `toml:"sequence"`
	GoNoGo   GoNoGoConfig   `toml:"gng"`
	Stroop   StroopConfig   `toml:"stroop"`
	Taps     TapsConfig     `toml:"taps"`
	Posner   PosnerConfig   `toml:"posner"`
	Stop     StopConfig     `toml:"sst"`
	Choice   ChoiceConfig   `toml:"crt"`
}

// GeneralConfig maps settings shared by all games.
type GeneralConfig struct {
	Lang  *string `toml:"lang"`
	Sound *bool   `toml:"sound"`
	Seed  *int64  `toml:"seed"`
}

type ReactionConfig struct {
	MinDelayMs *int `toml:"min-delay-ms"`
	MaxDelayMs *int `toml:"max-delay-ms"`
	Attempts   *int `toml:"attempts"`
}

type AimConfig struct {
	Radius       *int `toml:"radius"`
	SpawnMinMs   *int `toml:"spawn-min-ms"`
	SpawnMaxMs   *int `toml:"spawn-max-ms"`
	DurationSec  *int `toml:"duration-sec"`
	TargetLifeMs *int `toml:"target-life-ms"`
}

type SequenceConfig struct {
	ShowMs *int `toml:"show-ms"`
	GapMs  *int `toml:"gap-ms"`
	Rounds *int `toml:"rounds"`
}

type GoNoGoConfig struct {
	Trials  *int     `toml:"trials"`
	GoRatio *float64 `toml:"go-ratio"`
	IsiMs   *int     `toml:"isi-ms"`
}

type StroopConfig struct {
	Total            *int     `toml:"total"`
	IncongruentRatio *float64 `toml:"incongruent-ratio"`
}

type TapsConfig struct {
	Seconds  *int `toml:"seconds"`
	Attempts *int `toml:"attempts"`
}

type PosnerConfig struct {
	Trials     *int     `toml:"trials"`
	ValidRatio *float64 `toml:"valid-ratio"`
	IsiMs      *int     `toml:"isi-ms"`
}

type StopConfig struct {
	Trials           *int     `toml:"trials"`
	StopRatio        *float64 `toml:"stop-ratio"`
	StepMs           *int     `toml:"step-ms"`
	InitialSSDMs     *int     `toml:"initial-ssd-ms"`
	ResponseWindowMs *int     `toml:"response-window-ms"`
}

type ChoiceConfig struct {
	Trials *int `toml:"trials"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply overlays the keys set in the file onto p.
func (c FileConfig) Apply(p model.Prefs) model.Prefs {
	set(&p.SoundEnabled, c.General.Sound)

	set(&p.Reaction.MinDelayMs, c.Reaction.MinDelayMs)
	set(&p.Reaction.MaxDelayMs, c.Reaction.MaxDelayMs)
	set(&p.Reaction.Attempts, c.Reaction.Attempts)

	set(&p.Aim.Radius, c.Aim.Radius)
	set(&p.Aim.SpawnMinMs, c.Aim.SpawnMinMs)
	set(&p.Aim.SpawnMaxMs, c.Aim.SpawnMaxMs)
	set(&p.Aim.DurationSec, c.Aim.DurationSec)
	set(&p.Aim.TargetLifeMs, c.Aim.TargetLifeMs)

	set(&p.Sequence.ShowMs, c.Sequence.ShowMs)
	set(&p.Sequence.GapMs, c.Sequence.GapMs)
	set(&p.Sequence.Rounds, c.Sequence.Rounds)

	set(&p.GoNoGo.Trials, c.GoNoGo.Trials)
	set(&p.GoNoGo.GoRatio, c.GoNoGo.GoRatio)
	set(&p.GoNoGo.IsiMs, c.GoNoGo.IsiMs)

	set(&p.Stroop.Total, c.Stroop.Total)
	set(&p.Stroop.IncongruentRatio, c.Stroop.IncongruentRatio)

	set(&p.Taps.Seconds, c.Taps.Seconds)
	set(&p.Taps.Attempts, c.Taps.Attempts)

	set(&p.Posner.Trials, c.Posner.Trials)
	set(&p.Posner.ValidRatio, c.Posner.ValidRatio)
	set(&p.Posner.IsiMs, c.Posner.IsiMs)

	set(&p.Stop.Trials, c.Stop.Trials)
	set(&p.Stop.StopRatio, c.Stop.StopRatio)
	set(&p.Stop.StepMs, c.Stop.StepMs)
	set(&p.Stop.InitialSSDMs, c.Stop.InitialSSDMs)
	set(&p.Stop.ResponseWindowMs, c.Stop.ResponseWindowMs)

	set(&p.Choice.Trials, c.Choice.Trials)
	return p
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Template is written by `cogtrain config` when no file exists yet.
const Template = `# cogtrain configuration. Uncomment a key to override the stored preference.

[general]
# lang = "en"
# sound = true
# seed = 42

[reaction]
# min-delay-ms = 800
# max-delay-ms = 2600
# attempts = 8

[aim]
# radius = 18
# spawn-min-ms = 500
# spawn-max-ms = 1000
# duration-sec = 30
# target-life-ms = 1500

[sequence]
# show-ms = 600
# gap-ms = 250
# rounds = 1

[gng]
# trials = 30
# go-ratio = 0.7
# isi-ms = 900

[stroop]
# total = 32
# incongruent-ratio = 0.5

[taps]
# seconds = 5
# attempts = 1

[posner]
# trials = 36
# valid-ratio = 0.8
# isi-ms = 400

[sst]
# trials = 40
# stop-ratio = 0.25
# step-ms = 50
# initial-ssd-ms = 250
# response-window-ms = 1000

[crt]
# trials = 40
`
