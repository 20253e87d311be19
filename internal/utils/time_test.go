package utils

import (
	"testing"
	"time"

	"github.com/julianstephens/routinelog/internal/models"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "canonical", input: "09:30", want: "09:30"},
		{name: "masked digits", input: "0930", want: "09:30"},
		{name: "late evening", input: "2359", want: "23:59"},
		{name: "surrounding spaces", input: " 07:05 ", want: "07:05"},
		{name: "unpadded hour", input: "9:30", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "1260", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTime(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeTime(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	if got, err := NormalizeDate("2024-03-01"); err != nil || got != "2024-03-01" {
		t.Errorf("NormalizeDate() = %q, %v", got, err)
	}
	for _, bad := range []string{"2024-3-1", "2024/03/01", "2024-02-30", ""} {
		if _, err := NormalizeDate(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestFormatDateIsLexicographicallyOrdered(t *testing.T) {
	start := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)
	prev := FormatDate(start)
	for i := 1; i < 400; i++ {
		next := FormatDate(start.AddDate(0, 0, i))
		if !(prev < next) {
			t.Fatalf("expected %q < %q", prev, next)
		}
		prev = next
	}
}

func TestFormatTime(t *testing.T) {
	got := FormatTime(time.Date(2024, 1, 1, 7, 5, 0, 0, time.UTC))
	if got != "07:05" {
		t.Errorf("FormatTime() = %q, want 07:05", got)
	}
}

func TestMonthHelpers(t *testing.T) {
	start, end := MonthDateRange(2024, time.February)
	if start != "2024-02-01" || end != "2024-02-29" {
		t.Errorf("MonthDateRange() = %s..%s", start, end)
	}

	days := DaysInMonth(2023, time.February, time.UTC)
	if len(days) != 28 {
		t.Errorf("expected 28 days, got %d", len(days))
	}
	if days[0].Day() != 1 || days[27].Day() != 28 {
		t.Errorf("unexpected bounds %v..%v", days[0], days[27])
	}

	if got := LastDayOfMonth(2024, time.December, time.UTC); got.Day() != 31 || got.Month() != time.December {
		t.Errorf("LastDayOfMonth() = %v", got)
	}
}

func TestDaysAgoRange(t *testing.T) {
	now := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)
	start, end := DaysAgoRange(now, 7)
	if start != "2024-02-26" || end != "2024-03-03" {
		t.Errorf("DaysAgoRange() = %s..%s", start, end)
	}
}

func TestSortLogsByDateTime(t *testing.T) {
	logs := []models.Log{
		{ID: "c", Date: "2024-03-02", Time: "08:00"},
		{ID: "b", Date: "2024-03-01", Time: "21:15"},
		{ID: "a", Date: "2024-03-01", Time: "06:45"},
	}
	SortLogsByDateTime(logs)
	got := logs[0].ID + logs[1].ID + logs[2].ID
	if got != "abc" {
		t.Errorf("expected order abc, got %s", got)
	}
}

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}
