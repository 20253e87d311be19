package utils

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
)

// FormatDate formats t as YYYY-MM-DD in t's own location. The zero padding
// keeps lexicographic order equal to chronological order.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// FormatTime formats t as a zero-padded 24-hour HH:MM.
func FormatTime(t time.Time) string {
	return t.Format(constants.TimeFormat)
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// NormalizeTime accepts HH:MM or the four digits typed into a masked time
// input ("0930") and returns the canonical HH:MM form.
func NormalizeTime(timeStr string) (string, error) {
	s := strings.TrimSpace(timeStr)
	if len(s) == 4 && !strings.Contains(s, ":") {
		s = s[:2] + ":" + s[2:]
	}
	t, err := ParseTime(s)
	if err != nil || len(s) != 5 {
		return "", fmt.Errorf("invalid time %q (expected HH:MM)", timeStr)
	}
	return FormatTime(t), nil
}

// NormalizeDate validates a YYYY-MM-DD string and returns it zero padded.
func NormalizeDate(dateStr string) (string, error) {
	t, err := time.Parse(constants.DateFormat, strings.TrimSpace(dateStr))
	if err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", dateStr)
	}
	return FormatDate(t), nil
}

// FirstDayOfMonth returns the first day of month in loc.
func FirstDayOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

// LastDayOfMonth returns the last day of month in loc.
func LastDayOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
}

// DaysInMonth returns every day of the month at midnight.
func DaysInMonth(year int, month time.Month, loc *time.Location) []time.Time {
	last := LastDayOfMonth(year, month, loc)
	days := make([]time.Time, 0, last.Day())
	for d := 1; d <= last.Day(); d++ {
		days = append(days, time.Date(year, month, d, 0, 0, 0, 0, loc))
	}
	return days
}

// MonthDateRange returns the inclusive date range covering a month.
func MonthDateRange(year int, month time.Month) (start, end string) {
	return FormatDate(FirstDayOfMonth(year, month, time.UTC)), FormatDate(LastDayOfMonth(year, month, time.UTC))
}

// DaysAgoRange returns the inclusive range of the last n days ending at now.
func DaysAgoRange(now time.Time, n int) (start, end string) {
	if n < 1 {
		n = 1
	}
	return FormatDate(now.AddDate(0, 0, -n+1)), FormatDate(now)
}

// SortLogsByTime sorts logs in place by time of day. String comparison on
// HH:MM is chronological within one day.
func SortLogsByTime(logs []models.Log) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Time < logs[j].Time
	})
}

// SortLogsByDateTime sorts logs by date, then time of day.
func SortLogsByDateTime(logs []models.Log) {
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].Date != logs[j].Date {
			return logs[i].Date < logs[j].Date
		}
		return logs[i].Time < logs[j].Time
	})
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}
