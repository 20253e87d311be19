// Package calendar aggregates logs into per-day calendar badges.
package calendar

import (
	"sort"
	"time"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/utils"
)

// LogCountsByDate counts logs per date.
func LogCountsByDate(logs []models.Log) map[string]int {
	counts := make(map[string]int)
	for _, l := range logs {
		counts[l.Date]++
	}
	return counts
}

// LogColorsByDate lists the distinct group colours of each date in the order
// they were first seen. Colours compare as exact strings, so two groups with
// the same hex value share one entry. Logs without a colour count as the
// default colour.
func LogColorsByDate(logs []models.Log) map[string][]string {
	colors := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for _, l := range logs {
		color := l.GroupColor
		if color == "" {
			color = constants.DefaultGroupColor
		}
		if seen[l.Date] == nil {
			seen[l.Date] = make(map[string]bool)
		}
		if seen[l.Date][color] {
			continue
		}
		seen[l.Date][color] = true
		colors[l.Date] = append(colors[l.Date], color)
	}
	return colors
}

type BadgeKind int

const (
	BadgeNone BadgeKind = iota
	BadgeDots
	BadgeCount
)

// Badge is what a calendar cell shows: one dot per colour, or the log count
// when there are too many colours to draw.
type Badge struct {
	Kind  BadgeKind
	Dots  []string
	Count int
}

func BadgeFor(count int, colors []string) Badge {
	switch {
	case count <= 0 && len(colors) == 0:
		return Badge{Kind: BadgeNone}
	case len(colors) > constants.MaxCalendarDots:
		return Badge{Kind: BadgeCount, Count: count}
	case len(colors) == 0:
		return Badge{Kind: BadgeDots, Dots: []string{constants.DefaultGroupColor}, Count: count}
	default:
		return Badge{Kind: BadgeDots, Dots: colors, Count: count}
	}
}

// Badges computes the badge of every date that has logs.
func Badges(logs []models.Log) map[string]Badge {
	counts := LogCountsByDate(logs)
	colors := LogColorsByDate(logs)
	badges := make(map[string]Badge, len(counts))
	for date, n := range counts {
		badges[date] = BadgeFor(n, colors[date])
	}
	return badges
}

// MonthDateRange returns the inclusive YYYY-MM-DD range of a month.
func MonthDateRange(year int, month time.Month) (start, end string) {
	return utils.MonthDateRange(year, month)
}

// MonthGrid lays a month out in Sunday-first weeks of dates. Cells outside
// the month are empty strings.
func MonthGrid(year int, month time.Month) [][]string {
	days := utils.DaysInMonth(year, month, time.UTC)
	var weeks [][]string
	week := make([]string, 7)
	for _, d := range days {
		week[int(d.Weekday())] = utils.FormatDate(d)
		if d.Weekday() == time.Saturday {
			weeks = append(weeks, week)
			week = make([]string, 7)
		}
	}
	if days[len(days)-1].Weekday() != time.Saturday {
		weeks = append(weeks, week)
	}
	return weeks
}

// ItemCount is one row of usage statistics.
type ItemCount struct {
	Name  string
	Count int
}

// UsageStats counts logs per item name snapshot.
func UsageStats(logs []models.Log) map[string]int {
	stats := make(map[string]int)
	for _, l := range logs {
		stats[l.ItemNameSnapshot]++
	}
	return stats
}

// RankUsage orders usage statistics by count descending, then name.
func RankUsage(stats map[string]int) []ItemCount {
	ranked := make([]ItemCount, 0, len(stats))
	for name, n := range stats {
		ranked = append(ranked, ItemCount{Name: name, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}
