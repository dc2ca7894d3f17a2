package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cogtrain/internal/insight"
	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/stats"
	"github.com/verte-zerg/cogtrain/internal/trial"
)

var inkColors = []lipgloss.Color{"#FF4D4F", "#52C41A", "#1890FF", "#FADB14"}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenIntro:
		content = m.renderIntro()
	case screenPlay:
		// The play screen is not centred so aim clicks map to fixed cells.
		return m.renderPlay()
	case screenResult:
		content = m.renderResult()
	case screenSummary:
		content = m.renderSummary()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 72
	}
	return max(20, int(float64(m.width)*0.70))
}

func (m *Model) renderIntro() string {
	lines := []string{titleStyle.Render("cogtrain")}
	if len(m.steps) == 1 {
		lines = append(lines, fmt.Sprintf("%s: %s", m.steps[0].Game.Title(), instructions[m.steps[0].Game]))
	} else {
		lines = append(lines, fmt.Sprintf("Guided training: %d games in a row, saved automatically.", len(m.steps)))
		for i, s := range m.steps {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d. %s", i+1, s.Game.Title())))
		}
	}
	lines = append(lines, "", footerStyle.Render("enter start · esc quit"))
	return strings.Join(lines, "\n")
}

var instructions = map[model.Game]string{
	model.GameReaction: "press space as soon as the block turns green",
	model.GameAim:      "click the targets before they expire",
	model.GameSequence: "watch the pads light up, then repeat with d f j k",
	model.GameGoNoGo:   "press space on GO, hold back on NO-GO",
	model.GameStroop:   "name the ink color with d f j k (red green blue yellow)",
	model.GameTaps:     "tap space as fast as you can",
	model.GamePosner:   "press ←/→ (or f/j) for the side the target appears on",
	model.GameStop:     "press ←/→ for the arrow, but hold back when STOP appears",
	model.GameChoice:   "press the key under the lit slot (d f j k)",
}

func (m *Model) renderPlay() string {
	game := m.engine.Game()
	header := titleStyle.Render(game.Title())
	if len(m.steps) > 1 {
		header += mutedStyle.Render(fmt.Sprintf("  step %d/%d", m.stepIdx+1, len(m.steps)))
	}
	lines := []string{header, mutedStyle.Render(m.status())}
	lines = append(lines, m.renderBody()...)
	hint := instructions[game] + " · esc quit"
	if len(m.steps) > 1 {
		hint += " · tab skip"
	}
	lines = append(lines, "", footerStyle.Render(hint))
	return strings.Join(lines, "\n")
}

func (m *Model) status() string {
	switch e := m.engine.(type) {
	case *trial.Reaction:
		return fmt.Sprintf("attempt %d/%d", len(e.Attempts()), e.Target())
	case *trial.Aim:
		log := e.Log().(model.AimLog)
		return fmt.Sprintf("hits %d · %s left", log.Hits, seconds(e.TimeLeft()))
	case *trial.Sequence:
		done, total := e.Progress()
		return fmt.Sprintf("level %d · %d/%d", e.Level(), done, total)
	case *trial.Taps:
		round, total := e.Round()
		return fmt.Sprintf("round %d/%d · %s left", round, total, seconds(e.TimeLeft()))
	case *trial.StopSignal:
		done, total := e.Progress()
		return fmt.Sprintf("trial %d/%d · SSD %.0f ms", done, total, e.SSD())
	case interface{ Progress() (int, int) }:
		done, total := e.Progress()
		return fmt.Sprintf("trial %d/%d", done, total)
	}
	return ""
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func (m *Model) renderBody() []string {
	switch e := m.engine.(type) {
	case *trial.Reaction:
		return renderReaction(e)
	case *trial.Aim:
		return renderAim(e)
	case *trial.Sequence:
		return renderSequence(e)
	case *trial.GoNoGo:
		if e.IsGo() {
			return block(goStyle, "GO")
		}
		return block(stopStyle, "NO-GO")
	case *trial.Stroop:
		word, ink, ok := e.Stimulus()
		if !ok {
			return block(padStyle, "+")
		}
		w := lipgloss.NewStyle().Bold(true).Foreground(inkColors[ink]).Render(strings.ToUpper(trial.StroopColors[word]))
		legend := make([]string, len(trial.StroopColors))
		for i, c := range trial.StroopColors {
			legend[i] = fmt.Sprintf("%s=%s", trial.ChoiceKeys[i], c)
		}
		return []string{"", "", "   " + w, "", mutedStyle.Render(strings.Join(legend, "  "))}
	case *trial.Taps:
		return []string{"", "", fmt.Sprintf("   taps: %d", e.Current())}
	case *trial.Posner:
		return renderPosner(e)
	case *trial.StopSignal:
		return renderStop(e)
	case *trial.Choice:
		return renderChoice(e)
	}
	return nil
}

func block(style lipgloss.Style, label string) []string {
	pad := style.Width(24).Align(lipgloss.Center)
	return []string{"", pad.Render(""), pad.Render(label), pad.Render("")}
}

func renderReaction(e *trial.Reaction) []string {
	switch e.Phase() {
	case trial.ReactionWait:
		return block(waitStyle, "wait…")
	case trial.ReactionGo:
		return block(goStyle, "PRESS!")
	default:
		attempts := e.Attempts()
		if len(attempts) == 0 {
			return block(padStyle, "press space to start")
		}
		last := attempts[len(attempts)-1]
		label := fmt.Sprintf("%.0f ms", last)
		if last == trial.FalseStartMs {
			label = "too early!"
		}
		return block(padStyle, label)
	}
}

func renderAim(e *trial.Aim) []string {
	grid := make([][]rune, fieldRows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", fieldCols))
	}
	for _, t := range e.Targets() {
		col := int(t.X) / cellW
		row := int(t.Y) / cellH
		rc := max(0, int(math.Round(t.Radius/cellW)))
		for c := col - rc; c <= col+rc; c++ {
			if row >= 0 && row < fieldRows && c >= 0 && c < fieldCols {
				grid[row][c] = '●'
			}
		}
	}
	lines := make([]string, 0, fieldRows+2)
	lines = append(lines, "┌"+strings.Repeat("─", fieldCols)+"┐")
	for _, row := range grid {
		lines = append(lines, "│"+string(row)+"│")
	}
	lines = append(lines, "└"+strings.Repeat("─", fieldCols)+"┘")
	return lines
}

func renderSequence(e *trial.Sequence) []string {
	pads := make([]string, trial.SequenceSymbols)
	for i := range pads {
		style := padStyle
		if e.Lit() == i {
			style = litStyle
		}
		pads[i] = style.Width(8).Align(lipgloss.Center).Render(trial.ChoiceKeys[i])
	}
	label := "watch"
	switch e.Phase() {
	case trial.SequenceInput:
		label = "your turn"
	case trial.SequencePause:
		label = "…"
	case trial.SequenceOver:
		label = "done"
	}
	return []string{"", strings.Join(pads, " "), "", mutedStyle.Render(label)}
}

func sides(left, right string) string {
	box := padStyle.Width(9).Align(lipgloss.Center)
	return box.Render(left) + "   " + box.Render(right)
}

func renderPosner(e *trial.Posner) []string {
	arrow := "+"
	if cue, ok := e.Cue(); ok {
		arrow = "←"
		if cue == trial.Right {
			arrow = "→"
		}
	}
	left, right := "", ""
	if target, ok := e.Target(); ok {
		if target == trial.Left {
			left = "★"
		} else {
			right = "★"
		}
	}
	return []string{"", "          " + arrow, sides(left, right)}
}

func renderStop(e *trial.StopSignal) []string {
	dir, ok := e.Direction()
	if !ok {
		return block(padStyle, "+")
	}
	label := "←"
	if dir == trial.Right {
		label = "→"
	}
	if e.Signalled() {
		return block(stopStyle, "STOP "+label)
	}
	return block(padStyle, label)
}

func renderChoice(e *trial.Choice) []string {
	slots := make([]string, trial.ChoicePositions)
	for i := range slots {
		style := padStyle
		if e.Cue() == i {
			style = litStyle
		}
		slots[i] = style.Width(8).Align(lipgloss.Center).Render(" ")
	}
	keys := make([]string, trial.ChoicePositions)
	for i := range keys {
		keys[i] = lipgloss.NewStyle().Width(8).Align(lipgloss.Center).Render(trial.ChoiceKeys[i])
	}
	return []string{"", strings.Join(slots, " "), strings.Join(keys, " ")}
}

func (m *Model) renderResult() string {
	if len(m.results) == 0 {
		return ""
	}
	rec := m.results[len(m.results)-1]
	lines := []string{titleStyle.Render(rec.Game().Title() + " complete"), ""}
	lines = append(lines, metricLines(rec.Metrics)...)
	lines = append(lines, "", m.renderFooter())
	next := "enter play again"
	if len(m.steps) > 1 {
		next = "enter next"
		if m.stepIdx == len(m.steps)-1 {
			next = "enter summary"
		}
	}
	lines = append(lines, footerStyle.Render(next+" · r retry · q quit"))
	if m.notice != "" {
		lines = append(lines, mutedStyle.Render(m.notice))
	}
	return strings.Join(lines, "\n")
}

// metricLines describes one session result.
func metricLines(m model.Metrics) []string {
	switch v := m.(type) {
	case model.ReactionMetrics:
		return []string{fmt.Sprintf("average %.0f ms · best %.0f ms", v.AverageMs, v.BestMs)}
	case model.AimMetrics:
		return []string{fmt.Sprintf("hits %d · accuracy %.0f%% (%ds)", v.Hits, v.Accuracy, v.TimeSec)}
	case model.SequenceMetrics:
		return []string{fmt.Sprintf("level %d · longest %d", v.Level, v.Longest)}
	case model.GoNoGoMetrics:
		return []string{fmt.Sprintf("go %.0f%% · no-go %.0f%% · RT %.0f ms", v.GoAcc, v.NogoAcc, v.AvgRtMs)}
	case model.StroopMetrics:
		return []string{
			fmt.Sprintf("congruent %.0f ms · incongruent %.0f ms", v.CongruentAvgMs, v.IncongruentAvgMs),
			fmt.Sprintf("cost %.0f ms · accuracy %.0f%%", v.CostMs, v.Accuracy),
		}
	case model.TapsMetrics:
		return []string{fmt.Sprintf("taps %d (%ds) · %.1f taps/s · interval %.0f ms", v.Taps, v.Seconds, stats.TapRate(v), v.AvgIntervalMs)}
	case model.PosnerMetrics:
		return []string{
			fmt.Sprintf("valid %.0f ms · invalid %.0f ms", v.ValidAvgMs, v.InvalidAvgMs),
			fmt.Sprintf("cost %.0f ms · accuracy %.0f%%", v.CostMs, v.Accuracy),
		}
	case model.StopSignalMetrics:
		return []string{
			fmt.Sprintf("SSD %.0f ms · SSRT %.0f ms", v.AvgSsdMs, v.SsrtMs),
			fmt.Sprintf("stop success %.0f%% · go accuracy %.0f%%", v.StopSuccessPct, v.GoAcc),
		}
	case model.ChoiceMetrics:
		return []string{fmt.Sprintf("choices %d · RT %.0f ms · accuracy %.0f%%", v.Choices, v.AvgRtMs, v.Accuracy)}
	}
	return nil
}

func (m *Model) records() []model.SessionRecord {
	if m.history == nil {
		out := make([]model.SessionRecord, len(m.results))
		for i, r := range m.results {
			out[len(out)-1-i] = r
		}
		return out
	}
	return m.history.All()
}

func (m *Model) renderSummary() string {
	now := m.now()
	records := m.records()
	sum := insight.TrainingSummary(records, now)
	lines := []string{titleStyle.Render("Training summary"), ""}
	for _, rec := range m.results {
		name, value := stats.Headline(rec.Metrics)
		lines = append(lines, fmt.Sprintf("%-16s %8.1f %s", rec.Game().Title(), value, name))
	}
	lines = append(lines, "")
	if r, ok := sum.Latest[model.GameReaction]; ok {
		lines = append(lines, fmt.Sprintf("reaction: this run %.0f ms vs 7-day %.0f ms", r.Metrics.(model.ReactionMetrics).AverageMs, sum.ReactionAvg7))
	}
	if r, ok := sum.Latest[model.GameAim]; ok {
		lines = append(lines, fmt.Sprintf("aim: this run %d hits vs 7-day %.0f", r.Metrics.(model.AimMetrics).Hits, math.Round(sum.AimHitsAvg7)))
	}
	if r, ok := sum.Latest[model.GameTaps]; ok {
		lines = append(lines, fmt.Sprintf("taps: this run %d vs 7-day %.0f", r.Metrics.(model.TapsMetrics).Taps, math.Round(sum.TapsAvg7)))
	}
	lines = append(lines, "")
	width := m.contentWidth()
	for _, rec := range insight.ComputeStats(records, now).Recommendations {
		lines = append(lines, wrapText("• "+insight.Message(rec, m.lang), width)...)
	}
	lines = append(lines, "", m.renderFooter(), footerStyle.Render("r restart · q quit"))
	return strings.Join(lines, "\n")
}

// renderFooter shows today's count and the day streak.
func (m *Model) renderFooter() string {
	records := m.records()
	now := m.now()
	segments := []string{
		fmt.Sprintf("Today %d", insight.TodayCount(records, now)),
		fmt.Sprintf("Streak %dd", insight.Streak(records, now)),
		fmt.Sprintf("7 days %d", len(insight.Recent(records, now))),
	}
	return footerStyle.Render(strings.Join(segments, " · "))
}
