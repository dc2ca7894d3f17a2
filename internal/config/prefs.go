package config

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/verte-zerg/cogtrain/internal/logx"
	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/store"
)

// PrefsKey is the KV key of the preference blob.
const PrefsKey = "reaction_trainer_prefs_v1"

// DefaultPrefs returns the built-in game parameters.
func DefaultPrefs() model.Prefs {
	return model.Prefs{
		SoundEnabled:   false,
		VibrateEnabled: true,
		Reaction:       model.ReactionPrefs{MinDelayMs: 800, MaxDelayMs: 2600, Attempts: 8},
		Aim:            model.AimPrefs{Radius: 18, SpawnMinMs: 500, SpawnMaxMs: 1000, DurationSec: 30, TargetLifeMs: 1500},
		Sequence:       model.SequencePrefs{ShowMs: 600, GapMs: 250, Rounds: 1},
		GoNoGo:         model.GoNoGoPrefs{Trials: 30, GoRatio: 0.7, IsiMs: 900},
		Stroop:         model.StroopPrefs{Total: 32, IncongruentRatio: 0.5},
		Taps:           model.TapsPrefs{Seconds: 5, Attempts: 1},
		Posner:         model.PosnerPrefs{Trials: 36, ValidRatio: 0.8, IsiMs: 400},
		Stop:           model.StopPrefs{Trials: 40, StopRatio: 0.25, StepMs: 50, InitialSSDMs: 250, ResponseWindowMs: 1000},
		Choice:         model.ChoicePrefs{Trials: 40},
	}
}

// DecodePrefs decodes a preference blob over the defaults. Missing and
// unknown fields keep their default values.
func DecodePrefs(raw string) (model.Prefs, error) {
	p := DefaultPrefs()
	if raw == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return DefaultPrefs(), fmt.Errorf("decode prefs: %w", err)
	}
	return p, nil
}

// LoadPrefs reads the stored preferences. Read failures and corrupt blobs
// yield the defaults and are reported to warn.
func LoadPrefs(ctx context.Context, kv store.KV, warn func(format string, args ...any)) model.Prefs {
	if warn == nil {
		warn = logx.Errf
	}
	raw, ok, err := kv.Get(ctx, PrefsKey)
	if err != nil {
		warn("prefs: read failed, using defaults: %v\n", err)
		return DefaultPrefs()
	}
	if !ok {
		return DefaultPrefs()
	}
	p, err := DecodePrefs(raw)
	if err != nil {
		warn("prefs: stored data is corrupt, using defaults: %v\n", err)
	}
	return p
}

// SavePrefs persists p.
func SavePrefs(ctx context.Context, kv store.KV, p model.Prefs) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := kv.Put(ctx, PrefsKey, string(data)); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}

// SetPref updates one preference addressed by a dotted JSON path such as
// "sst.stepMs" or "soundEnabled". The value is parsed as JSON, so numbers
// and booleans are written bare.
func SetPref(p model.Prefs, path, value string) (model.Prefs, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return p, fmt.Errorf("encode prefs: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return p, fmt.Errorf("decode prefs: %w", err)
	}
	var v any
	if err := json.Unmarshal([]byte(value), &v); err != nil {
		return p, fmt.Errorf("invalid value %q: %w", value, err)
	}

	keys := strings.Split(path, ".")
	node := tree
	for i, k := range keys {
		cur, ok := node[k]
		if !ok {
			return p, fmt.Errorf("unknown preference %q", path)
		}
		if i == len(keys)-1 {
			if _, isGroup := cur.(map[string]any); isGroup {
				return p, fmt.Errorf("preference %q is a group", path)
			}
			node[k] = v
			break
		}
		next, ok := cur.(map[string]any)
		if !ok {
			return p, fmt.Errorf("unknown preference %q", path)
		}
		node = next
	}

	data, err = json.Marshal(tree)
	if err != nil {
		return p, fmt.Errorf("encode prefs: %w", err)
	}
	var out model.Prefs
	if err := json.Unmarshal(data, &out); err != nil {
		return p, fmt.Errorf("invalid value for %q: %w", path, err)
	}
	return out, nil
}
