package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eykd/stringgen-go/internal/entropy"
)

const (
	barWidth    = 40
	minBarWidth = 10
)

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorMuted   = lipgloss.Color("#626262")

	titleStyle  = lipgloss.NewStyle().Bold(true)
	filledStyle = lipgloss.NewStyle().Foreground(colorPrimary)
	emptyStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	helpStyle   = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)

type progressMsg struct {
	accepted, target int
}

type doneMsg struct{}

// Model is the sampling screen.
type Model struct {
	tracker *Tracker
	cancel  context.CancelFunc
	spinner spinner.Model

	accepted int
	target   int
	width    int

	done      bool
	cancelled bool
}

func newModel(tracker *Tracker, cancel context.CancelFunc) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return Model{
		tracker: tracker,
		cancel:  cancel,
		spinner: sp,
		width:   barWidth,
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles mouse, key and progress messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.tracker.Set(msg.X, msg.Y)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			m.cancel()
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width - 2
		if m.width > barWidth {
			m.width = barWidth
		}
		if m.width < minBarWidth {
			m.width = minBarWidth
		}
		return m, nil

	case progressMsg:
		m.accepted, m.target = msg.accepted, msg.target
		return m, nil

	case doneMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress screen.
func (m Model) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(titleStyle.Render("Move the mouse inside this terminal"))
	b.WriteString("\n\n")
	b.WriteString(m.bar())
	b.WriteString(fmt.Sprintf(" %d/%d samples", m.accepted, m.target))
	if r := m.remaining(); r > 0 {
		b.WriteString(fmt.Sprintf(", ~%ds of motion left", r))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("ctrl+c to cancel"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) bar() string {
	filled := 0
	if m.target > 0 {
		filled = m.width * m.accepted / m.target
	}
	if filled > m.width {
		filled = m.width
	}
	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", m.width-filled))
}

// remaining estimates seconds of continuous motion still needed.
func (m Model) remaining() int {
	left := m.target - m.accepted
	if left <= 0 {
		return 0
	}
	return (left + entropy.TicksPerSecond - 1) / entropy.TicksPerSecond
}
