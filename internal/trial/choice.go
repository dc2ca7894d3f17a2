package trial

import (
	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/stats"
)

// ChoicePositions is the number of cue positions.
const ChoicePositions = 4

// Choice cues one of four positions; the response is the matching key.
type Choice struct {
	base
	prefs   model.ChoicePrefs
	cue     int
	shownAt float64
	trials  []model.ChoiceTrial
}

// NewChoice returns a choice reaction engine.
func NewChoice(env Env, prefs model.ChoicePrefs) *Choice {
	return &Choice{base: newBase(env), prefs: prefs}
}

func (c *Choice) Game() model.Game { return model.GameChoice }

// Begin implements Engine.
func (c *Choice) Begin() {
	if !c.start() {
		return
	}
	c.next()
}

func (c *Choice) next() {
	if len(c.trials) >= c.prefs.Trials {
		c.finish()
		return
	}
	c.cue = c.env.Rand.Intn(ChoicePositions)
	c.shownAt = c.now()
	c.trial.next()
}

// Observe implements Engine with in.Choice as the position index of the key
// pressed, see ChoiceKeys.
func (c *Choice) Observe(in Input) bool {
	if !c.live() {
		return false
	}
	if in.Choice < 0 || in.Choice >= ChoicePositions {
		return false
	}
	token, _ := c.trial.current()
	if !c.trial.close(token) {
		return false
	}
	c.trials = append(c.trials, model.ChoiceTrial{
		Cue:       c.cue,
		Response:  in.Choice,
		LatencyMs: c.now() - c.shownAt,
		Correct:   in.Choice == c.cue,
	})
	c.next()
	return true
}

// Cue returns the cued position.
func (c *Choice) Cue() int { return c.cue }

// Progress returns completed and total trial counts.
func (c *Choice) Progress() (int, int) { return len(c.trials), c.prefs.Trials }

func (c *Choice) Log() model.TrialLog {
	return model.ChoiceLog{
		Choices: ChoicePositions,
		Trials:  append([]model.ChoiceTrial(nil), c.trials...),
	}
}

func (c *Choice) Result() model.Metrics { return stats.Summarize(c.Log()) }
