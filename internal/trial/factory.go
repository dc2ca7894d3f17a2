package trial

import (
	"fmt"

	"github.com/verte-zerg/cogtrain/internal/model"
)

// DefaultArea is the aim field used when the host does not supply one.
var DefaultArea = Area{Width: 600, Height: 320}

// New builds the engine for game from the session preferences.
func New(game model.Game, env Env, prefs model.Prefs, area Area) (Engine, error) {
	switch game {
	case model.GameReaction:
		return NewReaction(env, prefs.Reaction), nil
	case model.GameAim:
		if area.Width <= 0 || area.Height <= 0 {
			area = DefaultArea
		}
		return NewAim(env, prefs.Aim, area), nil
	case model.GameSequence:
		return NewSequence(env, prefs.Sequence), nil
	case model.GameGoNoGo:
		return NewGoNoGo(env, prefs.GoNoGo), nil
	case model.GameStroop:
		return NewStroop(env, prefs.Stroop), nil
	case model.GameTaps:
		return NewTaps(env, prefs.Taps), nil
	case model.GamePosner:
		return NewPosner(env, prefs.Posner), nil
	case model.GameStop:
		return NewStopSignal(env, prefs.Stop), nil
	case model.GameChoice:
		return NewChoice(env, prefs.Choice), nil
	default:
		return nil, fmt.Errorf("new engine %q: %w", game, model.ErrUnknownGame)
	}
}
