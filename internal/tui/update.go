package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case logsMsg:
		if msg.month != m.month {
			return m, nil
		}
		m.logs = msg.logs
		m.loaded = true
		return m, waitForLogs(m.updates, m.stop)

	case statsMsg:
		m.stats, m.err = msg.ranked, msg.err

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Tab):
			return m, m.setState((m.state + 1) % 3)
		case key.Matches(msg, m.keys.ShiftTab):
			return m, m.setState((m.state - 1 + 3) % 3)
		case key.Matches(msg, m.keys.Left):
			return m, m.move(m.cursor.AddDate(0, 0, -1))
		case key.Matches(msg, m.keys.Right):
			return m, m.move(m.cursor.AddDate(0, 0, 1))
		case key.Matches(msg, m.keys.Up):
			return m, m.move(m.cursor.AddDate(0, 0, -7))
		case key.Matches(msg, m.keys.Down):
			return m, m.move(m.cursor.AddDate(0, 0, 7))
		case key.Matches(msg, m.keys.PrevMonth):
			return m, m.move(firstOfMonth(m.cursor).AddDate(0, -1, 0))
		case key.Matches(msg, m.keys.NextMonth):
			return m, m.move(firstOfMonth(m.cursor).AddDate(0, 1, 0))
		case key.Matches(msg, m.keys.Today):
			t := m.now()
			return m, m.move(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
		}
	}

	return m, nil
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (m *Model) move(to time.Time) tea.Cmd {
	m.cursor = to
	return m.watchMonth()
}

func (m *Model) setState(s SessionState) tea.Cmd {
	m.state = s
	if s == StateStats {
		return m.loadStats()
	}
	return nil
}
