// Package statsui provides the Bubble Tea insights interface.
package statsui

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cogtrain/internal/insight"
	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/stats"
)

const (
	tabOverview = iota
	tabHistory
	tabTrends
)

const (
	plotHeight = 8
	lastStep   = 10
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Options configures a Model.
type Options struct {
	// Records are newest first.
	Records []model.SessionRecord
	Plan    []model.PlanItem
	Lang    string
	// Last limits each trend to its most recent sessions when positive.
	Last int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Model implements the Bubble Tea insights UI.
type Model struct {
	records []model.SessionRecord
	plan    []model.PlanItem
	lang    string
	last    int
	now     func() time.Time

	insights insight.Stats
	report   stats.Report

	tabs      []string
	activeTab int
	viewports []viewport.Model
	history   table.Model

	width  int
	height int
}

// NewModel constructs an insights UI model.
func NewModel(opts Options) *Model {
	m := &Model{
		records: opts.Records,
		plan:    opts.Plan,
		lang:    opts.Lang,
		last:    opts.Last,
		now:     opts.Now,
		tabs:    []string{"Overview", "History", "Trends"},
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.history = buildHistoryTable(m.records)
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.last = nextLast(m.last)
			m.refresh()
			return m, nil
		case "-":
			m.last = prevLast(m.last)
			m.refresh()
			return m, nil
		case "g", "home":
			if m.activeTab == tabHistory {
				m.history.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.history.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabHistory {
				var cmd tea.Cmd
				m.history, cmd = m.history.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) refresh() {
	now := m.now()
	m.insights = insight.ComputeStats(m.records, now)
	m.report = stats.BuildReport(m.records, m.last)
	m.renderTabContents()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.history.SetWidth(m.width)
	m.history.SetHeight(max(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabHistory {
		m.history.Focus()
	} else {
		m.history.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	last := "all"
	if m.last > 0 {
		last = fmt.Sprintf("%d", m.last)
	}
	summary := fmt.Sprintf("Sessions: %d  trend window: %s  lang: %s", len(m.records), last, insight.NormalizeLang(m.lang))
	return m.renderTabs() + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Trend window: -/=  Quit: q")
}

func (m *Model) renderBody() string {
	if m.activeTab == tabHistory {
		if len(m.records) == 0 {
			return "No sessions found."
		}
		return tableMutedStyle.Render(m.history.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(m.renderOverview(width))
	m.viewports[tabTrends].SetContent(renderTrends(m.report.Trends, width))
}

func (m *Model) renderOverview(width int) string {
	now := m.now()
	cards := []string{
		metricCard("Today", fmt.Sprintf("%d", insight.TodayCount(m.records, now))),
		metricCard("Streak", fmt.Sprintf("%d d", insight.Streak(m.records, now))),
		metricCard("Last 7 days", fmt.Sprintf("%d", len(m.insights.Last7d))),
		metricCard("All time", fmt.Sprintf("%d", len(m.records))),
	}
	var top string
	if width < 60 {
		top = strings.Join(cards, "\n")
	} else {
		top = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	sections := []string{top, ""}
	if len(m.plan) > 0 {
		sections = append(sections, cardTitleStyle.Render("Today's plan"))
		for _, st := range insight.PlanProgress(m.plan, m.records, now) {
			line := fmt.Sprintf("  %-16s %d/%d", st.Item.Game.Title(), st.Done, st.Item.TargetPerDay)
			if st.Complete() {
				line = doneStyle.Render(line + "  done")
			}
			sections = append(sections, line)
		}
		sections = append(sections, "")
	}

	sections = append(sections, cardTitleStyle.Render("Sessions per game"))
	counts := stats.Table{Headers: []string{"Game", "Total"}, Right: map[int]bool{1: true}}
	for _, g := range model.Games {
		counts.Rows = append(counts.Rows, []string{g.Title(), fmt.Sprintf("%d", m.insights.Totals[g])})
	}
	for _, line := range counts.Lines() {
		sections = append(sections, "  "+line)
	}
	sections = append(sections, "")

	sections = append(sections, cardTitleStyle.Render("Advice"))
	for _, rec := range m.insights.Recommendations {
		sections = append(sections, "  • "+insight.Message(rec, m.lang))
	}
	return strings.TrimRight(strings.Join(sections, "\n"), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderTrends(trends []stats.Trend, width int) string {
	if len(trends) == 0 {
		return "No sessions found."
	}
	var buf bytes.Buffer
	if err := stats.PlotTrends(&buf, trends, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render trends: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func buildHistoryTable(records []model.SessionRecord) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Game", Width: 16},
		{Title: "Metric", Width: 12},
		{Title: "Value", Width: 8},
	}
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		name, value := stats.Headline(r.Metrics)
		rows = append(rows, table.Row{
			r.Date.Local().Format("2006-01-02 15:04"),
			r.Game().Title(),
			name,
			fmt.Sprintf("%.1f", value),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(1),
	)
	t.SetStyles(historyTableStyles())
	return t
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// nextLast steps the trend window 0 (all), 10, 20, ...
func nextLast(n int) int {
	return (n/lastStep + 1) * lastStep
}

func prevLast(n int) int {
	if n <= lastStep {
		return 0
	}
	if n%lastStep == 0 {
		return n - lastStep
	}
	return (n / lastStep) * lastStep
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
