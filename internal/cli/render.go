package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/routinelog/internal/calendar"
	"github.com/julianstephens/routinelog/internal/constants"
)

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	TodayStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Dot renders a coloured bullet.
func Dot(color string) string {
	if color == "" {
		color = constants.DefaultGroupColor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// RenderBadge draws a calendar badge: dots per colour, or the count.
func RenderBadge(b calendar.Badge) string {
	switch b.Kind {
	case calendar.BadgeDots:
		dots := make([]string, len(b.Dots))
		for i, c := range b.Dots {
			dots[i] = Dot(c)
		}
		return strings.Join(dots, "")
	case calendar.BadgeCount:
		return MutedStyle.Render(fmt.Sprintf("%d", b.Count))
	default:
		return ""
	}
}

// RenderMonth draws a Sunday-first month grid with a badge under each day.
func RenderMonth(year int, month time.Month, grid [][]string, badges map[string]calendar.Badge, today string) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%s %d", month, year)))
	b.WriteString("\n")
	for _, d := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("%-6s", d)))
	}
	b.WriteString("\n")

	cell := lipgloss.NewStyle().Width(6)
	for _, week := range grid {
		var days, marks []string
		for _, date := range week {
			if date == "" {
				days = append(days, cell.Render(""))
				marks = append(marks, cell.Render(""))
				continue
			}
			label := date[8:]
			if date == today {
				label = TodayStyle.Render(label)
			}
			days = append(days, cell.Render(label))
			marks = append(marks, cell.Render(RenderBadge(badges[date])))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, days...))
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, marks...))
		b.WriteString("\n")
	}
	return b.String()
}
