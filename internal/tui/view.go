package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routinelog/internal/calendar"
	"github.com/julianstephens/routinelog/internal/cli"
	"github.com/julianstephens/routinelog/internal/utils"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateCalendar:
		content = m.viewCalendar()
	case StateDay:
		content = m.viewDay()
	case StateStats:
		content = m.viewStats()
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		"",
		content,
		"",
		m.help.View(m.keys),
	))
}

func (m *Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Calendar", "Day", "Stats"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) viewCalendar() string {
	if !m.loaded {
		return mutedStyle.Render("Loading…")
	}
	year, month := m.cursor.Year(), m.cursor.Month()
	badges := calendar.Badges(m.logs)
	today := utils.FormatDate(m.now())

	var b strings.Builder
	b.WriteString(cli.HeaderStyle.Render(fmt.Sprintf("%s %d", month, year)))
	b.WriteString("\n")
	for _, d := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-6s", d)))
	}
	b.WriteString("\n")

	cell := lipgloss.NewStyle().Width(6)
	for _, week := range calendar.MonthGrid(year, month) {
		var days, marks []string
		for _, date := range week {
			label := ""
			if date != "" {
				label = date[8:]
				if date == today {
					label = cli.TodayStyle.Render(label)
				}
			}
			style := cell
			if date != "" && date == m.Date() {
				style = cell.Inherit(cursorStyle)
			}
			days = append(days, style.Render(label))
			marks = append(marks, cell.Render(cli.RenderBadge(badges[date])))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, days...))
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, marks...))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewDay() string {
	var b strings.Builder
	b.WriteString(cli.HeaderStyle.Render(m.Date()))
	b.WriteString("\n")
	logs := m.DayLogs()
	if len(logs) == 0 {
		b.WriteString(mutedStyle.Render("Nothing logged"))
		return b.String()
	}
	for _, l := range logs {
		b.WriteString(fmt.Sprintf("%s %s %s", cli.Dot(l.GroupColor), l.Time, l.ItemNameSnapshot))
		if l.Note != "" {
			b.WriteString(" " + mutedStyle.Render(l.Note))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewStats() string {
	if m.err != nil {
		return mutedStyle.Render("Failed to load stats: " + m.err.Error())
	}
	var b strings.Builder
	b.WriteString(cli.HeaderStyle.Render(fmt.Sprintf("Last %d days", statsDays)))
	b.WriteString("\n")
	if len(m.stats) == 0 {
		b.WriteString(mutedStyle.Render("No activity"))
		return b.String()
	}
	for _, s := range m.stats {
		b.WriteString(fmt.Sprintf("%4d  %s\n", s.Count, s.Name))
	}
	return b.String()
}
