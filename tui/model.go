package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"keymap/audio"
	"keymap/input"
)

type startedMsg struct{ handle audio.Handle }
type tapMsg struct {
	n    int
	word string
}
type tickMsg time.Time

type model struct {
	words  []string
	next   int // index into words of the word the next tap consumes
	taps   int
	last   string
	handle audio.Handle
	events chan<- error
	width  int
}

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	nextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			select {
			case m.events <- input.ErrInterrupted:
			default:
			}
			return m, tea.Quit
		}
		select {
		case m.events <- nil:
		default:
		}

	case tickMsg:
		return m, tick()

	case startedMsg:
		m.handle = msg.handle

	case tapMsg:
		m.taps = msg.n
		m.last = msg.word
		if m.next < len(m.words) {
			m.next++
		}
	}
	return m, nil
}

func (m model) progress() (pos, dur time.Duration) {
	if m.handle == nil {
		return 0, 0
	}
	return m.handle.Position(), m.handle.Duration()
}

func renderBar(pos, dur time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if dur > 0 {
		filled = int(float64(width) * float64(pos) / float64(dur))
	}
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("● keymap"))
	b.WriteString("\n\n")

	pos, dur := m.progress()
	barWidth := 40
	if m.width > 0 && m.width-20 < barWidth {
		barWidth = max(m.width-20, 10)
	}
	b.WriteString(barStyle.Render(renderBar(pos, dur, barWidth)))
	b.WriteString(dimStyle.Render(fmt.Sprintf(" %.1fs / %.1fs", pos.Seconds(), dur.Seconds())))
	b.WriteString("\n\n")

	if m.next < len(m.words) {
		b.WriteString("next: " + nextStyle.Render(m.words[m.next]))
		if rest := m.words[m.next+1:]; len(rest) > 0 {
			b.WriteString(dimStyle.Render("  " + strings.Join(rest, " ")))
		}
	} else {
		b.WriteString(dimStyle.Render("all words placed, waiting for the sample to end"))
	}
	b.WriteString("\n")

	last := "-"
	if m.taps > 0 {
		last = fmt.Sprintf("%q", m.last)
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("taps: %d  last: %s", m.taps, last)))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("any key to tap · esc/ctrl+c to abort"))
	b.WriteString("\n")
	return b.String()
}
