// ABOUTME: Bubbletea model for the xyscope TUI
// ABOUTME: Shows session state and playback counters and maps keys to session actions
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xyscope/xyscope/pkg/scope"
)

// refreshInterval is how often the model polls Stats
const refreshInterval = 250 * time.Millisecond

// Controller is what the TUI drives. Toggle and Reset are called from the
// bubbletea goroutine.
type Controller interface {
	Stats() scope.Stats
	// Toggle starts playback, or stops it if running
	Toggle() error
	// Reset restores the initial drawing
	Reset() error
}

// Model represents the TUI state
type Model struct {
	title   string
	backend string
	ctrl    Controller

	stats       scope.Stats
	clients     []string
	showClients bool
	lastErr     string

	quitting bool

	// Dimensions
	width  int
	height int
}

type tickMsg time.Time

// ClientsMsg replaces the list of connected clients
type ClientsMsg []string

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stateColors = map[scope.State]lipgloss.Color{
		scope.StateBuilding:  lipgloss.Color("220"),
		scope.StateSealed:    lipgloss.Color("46"),
		scope.StateFailed:    lipgloss.Color("196"),
		scope.StateDestroyed: lipgloss.Color("240"),
	}
)

// Init starts the refresh ticker
func (m Model) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.refresh()
		return m, tickEvery()
	case ClientsMsg:
		m.clients = msg
		m.showClients = true
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "s", " ":
		if m.ctrl != nil {
			m.setError(m.ctrl.Toggle())
			m.refresh()
		}
	case "c":
		if m.ctrl != nil {
			m.setError(m.ctrl.Reset())
			m.refresh()
		}
	}

	return m, nil
}

func (m *Model) refresh() {
	if m.ctrl != nil {
		m.stats = m.ctrl.Stats()
	}
}

func (m *Model) setError(err error) {
	if err != nil {
		m.lastErr = err.Error()
	} else {
		m.lastErr = ""
	}
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	field := func(name, value string) {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s", name+":")))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	stateStyle := lipgloss.NewStyle().Bold(true).Foreground(stateColors[m.stats.State])
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s", "State:")))
	b.WriteString(stateStyle.Render(m.stats.State.String()))
	b.WriteString("\n")

	field("Backend", m.backend)
	field("Frames", fmt.Sprintf("%d / %d", m.stats.Frames, m.stats.Capacity))
	field("Rate", formatRate(m.stats.SampleRate))
	field("Played", fmt.Sprintf("%d frames, %d loops", m.stats.FramesPlayed, m.stats.Loops))
	if m.stats.SampleRate > 0 && m.stats.Frames > 0 {
		field("Refresh", fmt.Sprintf("%.1f Hz", float64(m.stats.SampleRate)/float64(m.stats.Frames)))
	}

	if m.showClients {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render(fmt.Sprintf("Clients (%d)", len(m.clients))))
		b.WriteString("\n")
		if len(m.clients) == 0 {
			b.WriteString(valueStyle.Render("  No clients connected"))
			b.WriteString("\n")
		}
		for _, name := range m.clients {
			b.WriteString(valueStyle.Render("  - " + name))
			b.WriteString("\n")
		}
	}

	if m.lastErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.lastErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("s:Start/Stop  c:Clear  q:Quit"))
	b.WriteString("\n")

	return b.String()
}

func formatRate(rate int) string {
	if rate == 0 {
		return "-"
	}
	if rate%1000 == 0 {
		return fmt.Sprintf("%d kHz", rate/1000)
	}
	return fmt.Sprintf("%.1f kHz", float64(rate)/1000)
}
