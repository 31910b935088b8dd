package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/duskforge/riftgate/internal/handlers"
	"github.com/duskforge/riftgate/pkg/run"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config  *ConsoleConfig
	client  *http.Client
	summary *handlers.RunSummary

	left  run.BranchChoice
	right run.BranchChoice

	logViewport viewport.Model
	lines       []string

	ready       bool
	width       int
	height      int
	fastForward bool
	loading     bool
	err         error
}

type previewsMsg struct {
	left  run.BranchChoice
	right run.BranchChoice
	err   error
}

type travelMsg struct {
	side      run.Side
	selection *handlers.SelectResponse
	summary   *handlers.RunSummary
	err       error
}

type copiedMsg struct {
	err error
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	sideStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	routeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	blockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow
)

var titleCaser = cases.Title(language.English)

// displayName turns an encounter key like "gravekeeper" or a compound key
// like "frost_king" into a readable name.
func displayName(key string) string {
	if key == "" {
		return "-"
	}
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, summary *handlers.RunSummary) ConsoleUI {
	vp := viewport.New(60, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		config:      cfg,
		client:      client,
		summary:     summary,
		logViewport: vp,
		loading:     true,
		lines: []string{
			titleStyle.Render("RIFTGATE RUN SIMULATOR"),
			fmt.Sprintf("Run %s started with seed %s.", summary.ID.String()[:8], infoStyle.Render(summary.Seed)),
			"Press L or R to travel a side; the chosen encounter is cleared automatically.",
			"",
		},
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.fetchPreviewsCmd()
}

func (m ConsoleUI) fetchPreviewsCmd() tea.Cmd {
	client, baseURL, runID := m.client, m.config.APIBaseURL, m.summary.ID
	return func() tea.Msg {
		left, err := previewSide(client, baseURL, runID, run.Left)
		if err != nil {
			return previewsMsg{err: err}
		}
		right, err := previewSide(client, baseURL, runID, run.Right)
		if err != nil {
			return previewsMsg{err: err}
		}
		return previewsMsg{left: left, right: right}
	}
}

func (m ConsoleUI) travelCmd(side run.Side) tea.Cmd {
	client, baseURL, runID := m.client, m.config.APIBaseURL, m.summary.ID
	fastForward := m.fastForward
	return func() tea.Msg {
		selection, err := selectSide(client, baseURL, runID, side, fastForward)
		if err != nil {
			return travelMsg{side: side, err: err}
		}
		if !selection.Choice.Some() {
			// Path closed or run complete; nothing to clear.
			return travelMsg{side: side, selection: selection}
		}
		summary, err := markCleared(client, baseURL, runID, selection.Choice.Key)
		if err != nil {
			return travelMsg{side: side, selection: selection, err: err}
		}
		return travelMsg{side: side, selection: selection, summary: summary}
	}
}

func (m ConsoleUI) copyRunIDCmd() tea.Cmd {
	id := m.summary.ID.String()
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(id)}
	}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := lipgloss.Height(m.headerView())
		footerHeight := lipgloss.Height(m.footerView())
		m.logViewport.Width = msg.Width
		m.logViewport.Height = msg.Height - headerHeight - footerHeight
		m.ready = true
		m.refreshLog()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "l", "r":
			if m.loading || m.summary.Complete {
				return m, nil
			}
			side := run.Left
			if msg.String() == "r" {
				side = run.Right
			}
			m.loading = true
			return m, m.travelCmd(side)
		case "f":
			m.fastForward = !m.fastForward
			return m, nil
		case "c":
			return m, m.copyRunIDCmd()
		}

	case previewsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.left = msg.left
		m.right = msg.right
		return m, nil

	case travelMsg:
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.appendTravelLog(msg)
		if msg.summary != nil {
			m.summary = msg.summary
		}
		return m, m.fetchPreviewsCmd()

	case copiedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("failed to copy run ID: %w", msg.err)
		} else {
			m.lines = append(m.lines, mutedStyle.Render("Run ID copied to clipboard."))
			m.refreshLog()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *ConsoleUI) appendTravelLog(msg travelMsg) {
	label := sideStyle.Render(titleCaser.String(msg.side.String()))

	if !msg.selection.Choice.Some() {
		m.lines = append(m.lines, fmt.Sprintf("%s: %s", label, blockedStyle.Render("path is closed")))
		m.refreshLog()
		return
	}

	route := ""
	if msg.selection.Route != nil {
		route = fmt.Sprintf(" via %s", routeStyle.Render(msg.selection.Route.Scene))
	}
	m.lines = append(m.lines, fmt.Sprintf("%s: fought %s%s",
		label, infoStyle.Render(displayName(msg.selection.Choice.Key)), route))

	if msg.summary != nil && msg.summary.Complete {
		m.lines = append(m.lines, "", titleStyle.Render("RUN COMPLETE")+" - the finale has fallen.")
	}
	m.refreshLog()
}

func (m *ConsoleUI) refreshLog() {
	width := m.logViewport.Width - 2
	if width < 10 {
		width = 10
	}
	var content strings.Builder
	for _, line := range m.lines {
		content.WriteString(wordwrap.String(line, width) + "\n")
	}
	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func (m ConsoleUI) headerView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("RIFTGATE") + mutedStyle.Render(
		fmt.Sprintf("  run %s  seed %s  cleared %d", m.summary.ID.String()[:8], m.summary.Seed, m.summary.ClearedCount)))
	b.WriteString("\n")

	b.WriteString(m.sideView(run.Left, m.left, m.summary.Barrier.LeftBlocked))
	b.WriteString("   ")
	b.WriteString(m.sideView(run.Right, m.right, m.summary.Barrier.RightBlocked))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(m.width-1, 10))))
	b.WriteString("\n")
	return b.String()
}

func (m ConsoleUI) sideView(side run.Side, choice run.BranchChoice, blocked bool) string {
	label := sideStyle.Render(side.Folder())
	switch {
	case blocked:
		return fmt.Sprintf("%s: %s", label, blockedStyle.Render("BLOCKED"))
	case choice.Some():
		return fmt.Sprintf("%s: %s", label, infoStyle.Render(displayName(choice.Key)))
	case m.summary.Complete:
		return fmt.Sprintf("%s: %s", label, mutedStyle.Render("run complete"))
	default:
		return fmt.Sprintf("%s: %s", label, mutedStyle.Render("…"))
	}
}

func (m ConsoleUI) footerView() string {
	var b strings.Builder
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(m.width-1, 10))))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	status := ""
	if m.loading {
		status = loadingStyle.Render("working… ")
	}
	ff := "off"
	if m.fastForward {
		ff = "on"
	}
	b.WriteString(status + mutedStyle.Render(
		fmt.Sprintf("L/R travel • F fast-forward (%s) • C copy run ID • Q quit", ff)))
	return b.String()
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return loadingStyle.Render("Loading…")
	}
	return m.headerView() + m.logViewport.View() + "\n" + m.footerView()
}
