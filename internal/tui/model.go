// Package tui provides the Bubble Tea game host.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cogtrain/internal/history"
	"github.com/verte-zerg/cogtrain/internal/logx"
	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/random"
	"github.com/verte-zerg/cogtrain/internal/sched"
	"github.com/verte-zerg/cogtrain/internal/trial"
)

// tickInterval is how often the scheduler catches up with wall time.
const tickInterval = 15 * time.Millisecond

// Step is one game of a run. Tune adjusts the preferences for this step
// only.
type Step struct {
	Game model.Game
	Tune func(*model.Prefs)
}

// UnifiedSteps is the fixed guided training sequence.
func UnifiedSteps() []Step {
	return []Step{
		{Game: model.GameReaction, Tune: func(p *model.Prefs) { p.Reaction.Attempts = 8 }},
		{Game: model.GameAim},
		{Game: model.GameSequence},
		{Game: model.GameChoice, Tune: func(p *model.Prefs) { p.Choice.Trials = 24 }},
		{Game: model.GameStroop},
		{Game: model.GameGoNoGo},
		{Game: model.GamePosner},
		{Game: model.GameStop},
		{Game: model.GameTaps, Tune: func(p *model.Prefs) { p.Taps.Attempts = 3 }},
	}
}

// Options configures a Model.
type Options struct {
	Steps   []Step
	Prefs   model.Prefs
	History *history.Store
	Rand    random.Source
	Lang    string
	// Now defaults to time.Now.
	Now func() time.Time
}

// PrefsMsg replaces the preferences used for the next game started.
type PrefsMsg struct {
	Prefs model.Prefs
}

type tickMsg time.Time

type screen int

const (
	screenIntro screen = iota
	screenPlay
	screenResult
	screenSummary
)

// Model implements the Bubble Tea game host. Engines run on a virtual
// scheduler that is advanced to elapsed wall time on every tick and before
// every input.
type Model struct {
	steps   []Step
	prefs   model.Prefs
	history *history.Store
	rand    random.Source
	lang    string
	now     func() time.Time

	clock  *sched.Scheduler
	origin time.Time

	screen   screen
	stepIdx  int
	engine   trial.Engine
	finished bool
	signal   bool
	notice   string

	results []model.SessionRecord

	width  int
	height int
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	goStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0B0B0B")).Background(lipgloss.Color("#52C41A"))
	stopStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#FF4D4F"))
	waitStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#A8071A"))
	litStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0B0B0B")).Background(lipgloss.Color("#C89A3A"))
	padStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#303030"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs the game host for the given steps.
func NewModel(opts Options) *Model {
	m := &Model{
		steps:   opts.Steps,
		prefs:   opts.Prefs,
		history: opts.History,
		rand:    opts.Rand,
		lang:    opts.Lang,
		now:     opts.Now,
		clock:   sched.New(),
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.rand == nil {
		m.rand = random.New()
	}
	m.origin = m.now()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, tea.Batch(m.catchUp(), tick())
	case PrefsMsg:
		m.prefs = msg.Prefs
		m.notice = "preferences reloaded"
		return m, nil
	case tea.MouseMsg:
		cmd := m.catchUp()
		if m.screen == screenPlay && m.engine.Game() == model.GameAim &&
			msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if in, ok := aimInput(msg.X, msg.Y); ok {
				m.observe(in)
			}
		}
		return m, tea.Batch(cmd, m.catchUp())
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.abort()
		return m, tea.Quit
	}
	cmd := m.catchUp()
	switch m.screen {
	case screenIntro:
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "enter", " ":
			m.startStep()
		}
	case screenPlay:
		switch key {
		case "esc":
			m.abort()
			return m, tea.Quit
		case "tab":
			m.abort()
			m.advance()
		default:
			if in, ok := inputFor(m.engine.Game(), msg); ok {
				m.observe(in)
			}
		}
	case screenResult:
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "enter", " ":
			m.advance()
		case "r":
			m.startStep()
		}
	case screenSummary:
		switch key {
		case "q", "esc", "enter":
			return m, tea.Quit
		case "r":
			m.results = nil
			m.stepIdx = 0
			m.startStep()
		}
	}
	return m, tea.Batch(cmd, m.catchUp())
}

// catchUp advances the scheduler to the current wall time and settles a
// completed session.
func (m *Model) catchUp() tea.Cmd {
	m.clock.AdvanceTo(m.now().Sub(m.origin))
	return m.settle()
}

func (m *Model) observe(in trial.Input) {
	if m.engine == nil || m.engine.Complete() {
		return
	}
	m.engine.Observe(in)
}

func (m *Model) startStep() {
	if m.stepIdx >= len(m.steps) {
		return
	}
	step := m.steps[m.stepIdx]
	prefs := m.prefs
	if step.Tune != nil {
		step.Tune(&prefs)
	}
	env := trial.Env{Clock: m.clock, Rand: m.rand}
	eng, err := trial.New(step.Game, env, prefs, trial.DefaultArea)
	if err != nil {
		logx.Errf("failed to start %s: %v\n", step.Game, err)
		return
	}
	m.finished = false
	m.signal = false
	m.notice = ""
	eng.OnComplete(func() { m.finished = true })
	if sst, ok := eng.(*trial.StopSignal); ok && prefs.SoundEnabled {
		sst.OnSignal(func() { m.signal = true })
	}
	m.engine = eng
	m.screen = screenPlay
	eng.Begin()
}

func (m *Model) settle() tea.Cmd {
	var cmd tea.Cmd
	if m.signal {
		m.signal = false
		cmd = bell
	}
	if !m.finished || m.engine == nil {
		return cmd
	}
	m.finished = false
	rec := model.NewRecord(m.engine.Result(), m.now())
	if m.history != nil {
		m.history.Append(context.Background(), rec)
	}
	m.results = append(m.results, rec)
	m.screen = screenResult
	return cmd
}

// advance moves to the next step, or to the run summary after the last.
func (m *Model) advance() {
	m.stepIdx++
	if m.stepIdx < len(m.steps) {
		m.startStep()
		return
	}
	m.stepIdx = len(m.steps) - 1
	if len(m.steps) > 1 {
		m.screen = screenSummary
		return
	}
	// A single game replays until the user quits.
	m.stepIdx = 0
	m.startStep()
}

func (m *Model) abort() {
	if m.engine != nil && !m.engine.Complete() {
		m.engine.Abort()
	}
}

// Results returns the records completed during this run.
func (m *Model) Results() []model.SessionRecord {
	return m.results
}

func bell() tea.Msg {
	if _, err := fmt.Fprint(os.Stderr, "\a"); err != nil {
		// Best-effort bell.
		_ = err
	}
	return nil
}
