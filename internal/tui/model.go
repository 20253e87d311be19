// Package tui is a live month calendar: it subscribes to the visible month's
// logs and redraws whenever they change.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/routinelog/internal/calendar"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/tracker"
	"github.com/julianstephens/routinelog/internal/utils"
)

type SessionState int

const (
	StateCalendar SessionState = iota
	StateDay
	StateStats
)

const statsDays = 30

// logsMsg is a snapshot of one month's logs. Snapshots of a month no longer
// on screen are dropped.
type logsMsg struct {
	month string
	logs  []models.Log
}

type statsMsg struct {
	ranked []calendar.ItemCount
	err    error
}

type Model struct {
	ctx    context.Context
	client *tracker.Client
	uid    string
	now    func() time.Time

	state    SessionState
	keys     KeyMap
	help     help.Model
	quitting bool
	width    int
	height   int

	cursor time.Time
	month  string
	logs   []models.Log
	loaded bool
	stats  []calendar.ItemCount
	err    error

	// live subscription of the visible month
	sub     *tracker.Subscription
	updates chan logsMsg
	stop    chan struct{}
}

func NewModel(ctx context.Context, client *tracker.Client, uid string, now func() time.Time) *Model {
	if now == nil {
		now = time.Now
	}
	t := now()
	return &Model{
		ctx:    ctx,
		client: client,
		uid:    uid,
		now:    now,
		state:  StateCalendar,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		cursor: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.watchMonth()
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// watchMonth subscribes to the cursor's month, replacing any previous
// subscription.
func (m *Model) watchMonth() tea.Cmd {
	key := monthKey(m.cursor)
	if m.sub != nil && key == m.month {
		return nil
	}
	m.Close()

	m.month = key
	m.loaded = false
	m.logs = nil
	start, end := calendar.MonthDateRange(m.cursor.Year(), m.cursor.Month())
	updates := make(chan logsMsg, 1)
	stop := make(chan struct{})
	m.updates, m.stop = updates, stop
	m.sub = m.client.SubscribeToLogsByDateRange(m.ctx, m.uid, start, end, func(logs []models.Log) {
		select {
		case updates <- logsMsg{month: key, logs: logs}:
		case <-stop:
		}
	})
	return waitForLogs(updates, stop)
}

func waitForLogs(updates <-chan logsMsg, stop <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-updates:
			return msg
		case <-stop:
			return nil
		}
	}
}

// Close ends the live subscription.
func (m *Model) Close() {
	if m.sub == nil {
		return
	}
	close(m.stop)
	m.sub.Unsubscribe()
	<-m.sub.Done()
	m.sub = nil
}

func (m *Model) loadStats() tea.Cmd {
	client, ctx, uid := m.client, m.ctx, m.uid
	return func() tea.Msg {
		stats, err := client.GetUsageStats(ctx, uid, statsDays)
		return statsMsg{ranked: calendar.RankUsage(stats), err: err}
	}
}

// Date is the date under the cursor.
func (m *Model) Date() string {
	return utils.FormatDate(m.cursor)
}

// DayLogs returns the logs of the cursor's date ordered by time.
func (m *Model) DayLogs() []models.Log {
	var day []models.Log
	date := m.Date()
	for _, l := range m.logs {
		if l.Date == date {
			day = append(day, l)
		}
	}
	utils.SortLogsByTime(day)
	return day
}
