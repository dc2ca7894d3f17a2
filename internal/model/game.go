// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGame is returned when a game key is not one of the nine games.
var ErrUnknownGame = errors.New("unknown game")

// Game identifies one of the mini-games.
type Game string

const (
	GameReaction Game = "reaction"
	GameAim      Game = "aim"
	GameSequence Game = "sequence"
	GameGoNoGo   Game = "gng"
	GameStroop   Game = "stroop"
	GameTaps     Game = "taps"
	GamePosner   Game = "posner"
	GameStop     Game = "sst"
	GameChoice   Game = "crt"
)

// Games lists every game in the fixed order used for totals and
// recommendations.
var Games = []Game{
	GameReaction,
	GameAim,
	GameSequence,
	GameGoNoGo,
	GameStroop,
	GameTaps,
	GamePosner,
	GameStop,
	GameChoice,
}

var gameTitles = map[Game]string{
	GameReaction: "Reaction Time",
	GameAim:      "Aim Trainer",
	GameSequence: "Sequence Memory",
	GameGoNoGo:   "Go/No-Go",
	GameStroop:   "Stroop",
	GameTaps:     "Tap Speed",
	GamePosner:   "Posner Cue",
	GameStop:     "Stop-Signal",
	GameChoice:   "Choice RT",
}

// ParseGame converts a key such as "gng" into a Game.
func ParseGame(key string) (Game, error) {
	g := Game(strings.ToLower(strings.TrimSpace(key)))
	if !g.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownGame, key)
	}
	return g, nil
}

// Valid reports whether g is one of the known games.
func (g Game) Valid() bool {
	_, ok := gameTitles[g]
	return ok
}

// Title returns a human readable game name.
func (g Game) Title() string {
	if t, ok := gameTitles[g]; ok {
		return t
	}
	return string(g)
}

// GameKeys returns the keys of all games, in order.
func GameKeys() []string {
	keys := make([]string, len(Games))
	for i, g := range Games {
		keys[i] = string(g)
	}
	return keys
}
