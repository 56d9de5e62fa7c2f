package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hpowernl/wafcli/internal/config"
	"github.com/hpowernl/wafcli/pkg/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// View is one tab of the result browser
type View int

const (
	ViewOverview View = iota
	ViewRules
	ViewCountries
	ViewIPs
	ViewURIs
	ViewAttacks
	ViewHourly
)

const viewCount = 7

var viewNames = [viewCount]string{"Overview", "Rules", "Countries", "IPs", "URIs", "Attacks", "Hourly"}

func (v View) String() string {
	if v < 0 || int(v) >= viewCount {
		return "Unknown"
	}
	return viewNames[v]
}

// Model browses one analysis result
type Model struct {
	result   *models.AnalysisResult
	patterns *models.TrafficPatterns
	stats    models.FetchStats

	view    View
	offset  int
	loading bool
	status  string
	err     error

	width  int
	height int

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	printer *message.Printer
}

type keyMap struct {
	Prev key.Binding
	Next key.Binding
	Jump key.Binding
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Prev, k.Next, k.Jump, k.Up}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newKeyMap() keyMap {
	return keyMap{
		Prev: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev tab")),
		Next: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/tab", "next tab")),
		Jump: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "jump")),
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "scroll")),
		Down: key.NewBinding(key.WithKeys("down", "j")),
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	alert = lipgloss.Color("160")
	muted = lipgloss.Color("243")
	amber = lipgloss.Color("214")

	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(alert).Padding(0, 2)
	mutedStyle  = lipgloss.NewStyle().Foreground(muted)
	labelStyle  = lipgloss.NewStyle().Foreground(amber).Width(22)
	barStyle    = lipgloss.NewStyle().Foreground(alert)
	tabStyle    = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	tabOnStyle  = lipgloss.NewStyle().Foreground(amber).Bold(true).Underline(true).Padding(0, 1)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(muted).Padding(0, 1)
	headStyle   = lipgloss.NewStyle().Foreground(amber).Bold(true)
)

// NewModel returns a model waiting for its data
func NewModel() Model {
	s := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(lipgloss.NewStyle().Foreground(amber)))
	return Model{
		loading: true,
		status:  "Fetching WAF logs...",
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
		printer: message.NewPrinter(language.English),
	}
}

// CurrentView returns the selected tab
func (m Model) CurrentView() View {
	return m.view
}

// LoadingMsg updates the status line while the pipeline runs
type LoadingMsg struct {
	Message string
}

// DataLoadedMsg carries the finished analysis
type DataLoadedMsg struct {
	Result   *models.AnalysisResult
	Patterns *models.TrafficPatterns
	Stats    models.FetchStats
}

// ErrorMsg ends loading with an error
type ErrorMsg struct {
	Err error
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.loading || m.err != nil {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Next):
			m.selectView((m.view + 1) % viewCount)
		case key.Matches(msg, m.keys.Prev):
			m.selectView((m.view + viewCount - 1) % viewCount)
		case key.Matches(msg, m.keys.Jump):
			m.selectView(View(msg.String()[0] - '1'))
		case key.Matches(msg, m.keys.Down):
			m.offset++
		case key.Matches(msg, m.keys.Up):
			m.offset = max(m.offset-1, 0)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case LoadingMsg:
		m.status = msg.Message

	case DataLoadedMsg:
		m.loading = false
		m.result, m.patterns, m.stats = msg.Result, msg.Patterns, msg.Stats

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
	}
	return m, nil
}

func (m *Model) selectView(v View) {
	m.view = v
	m.offset = 0
}

func (m Model) View() string {
	switch {
	case m.err != nil:
		return fmt.Sprintf("\nError: %v\n\nPress q to quit.\n", m.err)
	case m.loading:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+m.status)
	}

	var body string
	switch m.view {
	case ViewRules:
		body = m.counterTable("Top Triggered Rules", m.result.BlockedByRule)
	case ViewCountries:
		body = m.counterTable("Top Attacking Countries", m.result.BlockedByCountry)
	case ViewIPs:
		body = m.counterTable("Top Attacking IP Addresses", m.result.BlockedByIP)
	case ViewURIs:
		body = m.counterTable("Top Blocked URIs", m.result.TopBlockedURIs)
	case ViewAttacks:
		body = m.counterTable("Attack Methods Distribution", m.result.AttackMethods)
	case ViewHourly:
		body = m.hourly()
	default:
		body = m.overview()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.banner(),
		m.tabs(),
		"",
		body,
		"",
		m.help.View(m.keys),
	)
}

func (m Model) banner() string {
	files := mutedStyle.Render(fmt.Sprintf("  %d files, %d failed", m.stats.FilesProcessed, m.stats.FilesFailed))
	return lipgloss.JoinHorizontal(lipgloss.Center, bannerStyle.Render("AWS WAF LOG ANALYZER"), files)
}

func (m Model) tabs() string {
	parts := make([]string, viewCount)
	for i := range parts {
		label := fmt.Sprintf("%d %s", i+1, View(i))
		if View(i) == m.view {
			parts[i] = tabOnStyle.Render(label)
		} else {
			parts[i] = tabStyle.Render(label)
		}
	}
	return strings.Join(parts, mutedStyle.Render("│"))
}

func (m Model) box(title, content string) string {
	return boxStyle.Render(headStyle.Render(title) + "\n\n" + content)
}

func (m Model) overview() string {
	res := m.result
	rows := [][2]string{
		{"Total Requests", m.printer.Sprintf("%d", res.TotalRequests)},
		{"Blocked Requests", m.printer.Sprintf("%d", res.BlockedRequests)},
		{"Allowed Requests", m.printer.Sprintf("%d", res.AllowedRequests)},
		{"Block Rate", fmt.Sprintf("%.2f%%", res.BlockRate())},
		{"Files Processed", fmt.Sprintf("%d", m.stats.FilesProcessed)},
		{"Files Failed", fmt.Sprintf("%d", m.stats.FilesFailed)},
		{"Unique Blocked IPs", fmt.Sprintf("%d", res.BlockedByIP.Len())},
		{"Distinct Rules", fmt.Sprintf("%d", res.BlockedByRule.Len())},
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = labelStyle.Render(row[0]+":") + row[1]
	}
	return m.box("Summary Statistics", strings.Join(lines, "\n"))
}

func (m Model) counterTable(title string, counter *models.Counter) string {
	entries := counter.Top(0)
	if len(entries) == 0 {
		return m.box(title, "No blocked requests")
	}

	top := entries[0].Count
	start := min(m.offset, len(entries)-1)

	lines := make([]string, 0, len(entries)-start)
	for _, entry := range entries[start:] {
		lines = append(lines, fmt.Sprintf("%-40s %10s %6.1f%% %s",
			truncate(entry.Key, 40),
			m.printer.Sprintf("%d", entry.Count),
			m.result.ShareOfBlocked(entry.Count),
			barStyle.Render(bar(entry.Count, top, 30)),
		))
	}
	return m.box(fmt.Sprintf("%s (%d)", title, len(entries)), strings.Join(lines, "\n"))
}

func (m Model) hourly() string {
	var top int64
	for _, count := range m.result.HourlyDistribution {
		top = max(top, count)
	}

	lines := make([]string, 0, models.HoursPerDay)
	for hour, count := range m.result.HourlyDistribution {
		lines = append(lines, fmt.Sprintf("%02d:00 %10s %s",
			hour, m.printer.Sprintf("%d", count), barStyle.Render(bar(count, top, 40))))
	}
	out := m.box("Hourly Request Distribution", strings.Join(lines, "\n"))

	if m.patterns == nil || len(m.patterns.AnomalousHours) == 0 {
		return out
	}
	anomalies := make([]string, 0, len(m.patterns.AnomalousHours))
	for _, a := range m.patterns.AnomalousHours {
		anomalies = append(anomalies, fmt.Sprintf("%02d:00  %d requests (z=%.2f)", a.Hour, a.Count, a.ZScore))
	}
	title := fmt.Sprintf("Anomalous Hours (|z| >= %.1f)", config.DefaultAnomalySettings.ZScoreThreshold)
	return lipgloss.JoinVertical(lipgloss.Left, out, m.box(title, strings.Join(anomalies, "\n")))
}

func bar(count, top int64, width int) string {
	if top == 0 {
		return ""
	}
	return strings.Repeat("█", int(count*int64(width)/top))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
