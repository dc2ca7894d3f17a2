package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/trial"
)

// Aim field geometry. Each terminal cell covers cellW×cellH pixels of
// trial.DefaultArea.
const (
	fieldCols = 60
	fieldRows = 16
	cellW     = 10
	cellH     = 20
	// fieldTop and fieldLeft locate the field border on screen.
	fieldTop  = 2
	fieldLeft = 0
)

// inputFor maps a key press to an engine input for game.
func inputFor(game model.Game, msg tea.KeyMsg) (trial.Input, bool) {
	key := msg.String()
	switch game {
	case model.GameReaction, model.GameGoNoGo, model.GameTaps:
		if key == " " || key == "enter" {
			return trial.Input{}, true
		}
	case model.GameSequence, model.GameStroop, model.GameChoice:
		if i := trial.KeyIndex(key); i >= 0 {
			return trial.Input{Choice: i}, true
		}
		if len(key) == 1 && key[0] >= '1' && key[0] <= '4' {
			return trial.Input{Choice: int(key[0] - '1')}, true
		}
	case model.GamePosner, model.GameStop:
		switch key {
		case "left", "f":
			return trial.Input{Choice: trial.Left}, true
		case "right", "j":
			return trial.Input{Choice: trial.Right}, true
		}
	}
	return trial.Input{}, false
}

// aimInput converts a terminal cell to the centre of its pixel block.
func aimInput(x, y int) (trial.Input, bool) {
	col := x - fieldLeft - 1
	row := y - fieldTop - 1
	if col < 0 || col >= fieldCols || row < 0 || row >= fieldRows {
		return trial.Input{}, false
	}
	return trial.Input{
		X: float64(col*cellW + cellW/2),
		Y: float64(row*cellH + cellH/2),
	}, true
}
