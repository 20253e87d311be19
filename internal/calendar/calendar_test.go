package calendar

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
)

func TestLogCountsByDate(t *testing.T) {
	tests := []struct {
		name string
		logs []models.Log
		want map[string]int
	}{
		{"empty", nil, map[string]int{}},
		{
			"same date",
			[]models.Log{{Date: "2024-03-01"}, {Date: "2024-03-01"}, {Date: "2024-03-01"}},
			map[string]int{"2024-03-01": 3},
		},
		{
			"several dates",
			[]models.Log{{Date: "2024-03-01"}, {Date: "2024-03-02"}, {Date: "2024-03-01"}},
			map[string]int{"2024-03-01": 2, "2024-03-02": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, LogCountsByDate(tt.logs)); diff != "" {
				t.Errorf("LogCountsByDate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLogColorsByDate(t *testing.T) {
	logs := []models.Log{
		{Date: "2024-03-01", GroupID: "a", GroupColor: "#ff0000"},
		{Date: "2024-03-01", GroupID: "b", GroupColor: "#00ff00"},
		// different group, same hex: one dot
		{Date: "2024-03-01", GroupID: "c", GroupColor: "#ff0000"},
		{Date: "2024-03-01"},
		{Date: "2024-03-02", GroupColor: "#FF0000"},
		{Date: "2024-03-02", GroupColor: "#ff0000"},
	}
	want := map[string][]string{
		"2024-03-01": {"#ff0000", "#00ff00", constants.DefaultGroupColor},
		"2024-03-02": {"#FF0000", "#ff0000"},
	}
	if diff := cmp.Diff(want, LogColorsByDate(logs)); diff != "" {
		t.Errorf("LogColorsByDate() mismatch (-want +got):\n%s", diff)
	}
}

func TestBadgeFor(t *testing.T) {
	five := []string{"#1", "#2", "#3", "#4", "#5"}
	tests := []struct {
		name   string
		count  int
		colors []string
		want   Badge
	}{
		{"nothing", 0, nil, Badge{Kind: BadgeNone}},
		{"one colour", 2, []string{"#ff0000"}, Badge{Kind: BadgeDots, Dots: []string{"#ff0000"}, Count: 2}},
		{"four colours", 4, five[:4], Badge{Kind: BadgeDots, Dots: five[:4], Count: 4}},
		{"five colours", 7, five, Badge{Kind: BadgeCount, Count: 7}},
		{"no colours", 3, nil, Badge{Kind: BadgeDots, Dots: []string{constants.DefaultGroupColor}, Count: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, BadgeFor(tt.count, tt.colors)); diff != "" {
				t.Errorf("BadgeFor() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBadges(t *testing.T) {
	logs := []models.Log{
		{Date: "2024-03-01", GroupColor: "#ff0000"},
		{Date: "2024-03-01", GroupColor: "#ff0000"},
	}
	got := Badges(logs)
	want := map[string]Badge{"2024-03-01": {Kind: BadgeDots, Dots: []string{"#ff0000"}, Count: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Badges() mismatch (-want +got):\n%s", diff)
	}
}

func TestMonthGrid(t *testing.T) {
	// March 2024 starts on a Friday and ends on a Sunday.
	grid := MonthGrid(2024, time.March)
	if len(grid) != 6 {
		t.Fatalf("weeks = %d, want 6", len(grid))
	}
	if grid[0][5] != "2024-03-01" || grid[0][4] != "" {
		t.Errorf("first week = %v", grid[0])
	}
	if grid[5][0] != "2024-03-31" || grid[5][1] != "" {
		t.Errorf("last week = %v", grid[5])
	}

	// February 2026 fills exactly four weeks.
	if n := len(MonthGrid(2026, time.February)); n != 4 {
		t.Errorf("February 2026 weeks = %d, want 4", n)
	}
}

func TestMonthDateRange(t *testing.T) {
	start, end := MonthDateRange(2024, time.February)
	if start != "2024-02-01" || end != "2024-02-29" {
		t.Errorf("MonthDateRange() = %s..%s, want 2024-02-01..2024-02-29", start, end)
	}
}

func TestUsageStats(t *testing.T) {
	logs := []models.Log{
		{ItemNameSnapshot: "Spor"}, {ItemNameSnapshot: "Kahve"}, {ItemNameSnapshot: "Spor"}, {ItemNameSnapshot: "Yemek"},
	}
	stats := UsageStats(logs)
	want := []ItemCount{{"Spor", 2}, {"Kahve", 1}, {"Yemek", 1}}
	if diff := cmp.Diff(want, RankUsage(stats)); diff != "" {
		t.Errorf("RankUsage() mismatch (-want +got):\n%s", diff)
	}
}
