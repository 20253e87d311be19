// Package sharing decides what one user may see of a friend's activity.
// Permissions are granted by the data owner: the viewer's access is read
// from the owner's friendship record naming the viewer.
package sharing

import (
	"context"

	"github.com/julianstephens/routinelog/internal/calendar"
	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
)

// Source is the slice of the data-access layer sharing needs.
type Source interface {
	GetFriendshipStatus(ctx context.Context, viewerUID, ownerUID string) (models.Friendship, error)
	GetLogsByDateRange(ctx context.Context, userID, startDate, endDate string) ([]models.Log, error)
}

type Viewer struct {
	src Source
}

func NewViewer(src Source) *Viewer {
	return &Viewer{src: src}
}

// Profile is a friend's activity as the viewer is allowed to see it.
type Profile struct {
	OwnerUID    string
	Permissions models.Permissions
	Start, End  string

	logs []models.Log
}

// Open resolves the viewer's access to owner's data for [start, end]. It
// fails with errors.ErrNotFriends when the owner has no record naming the
// viewer. Logs are only requested when the owner grants calendar access.
func (v *Viewer) Open(ctx context.Context, viewerUID, ownerUID, start, end string) (*Profile, error) {
	f, err := v.src.GetFriendshipStatus(ctx, viewerUID, ownerUID)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		OwnerUID:    ownerUID,
		Permissions: f.Permissions,
		Start:       start,
		End:         end,
	}
	if !f.Permissions.ViewCalendar {
		return p, nil
	}

	logs, err := v.src.GetLogsByDateRange(ctx, ownerUID, start, end)
	if err != nil {
		return nil, err
	}
	p.logs = logs
	return p, nil
}

// VisibleLog is one log after permissions are applied. Label is the item
// name or the placeholder; Time and Note are empty when hidden.
type VisibleLog struct {
	Date  string
	Time  string
	Label string
	Color string
	Note  string
}

// DayView is one rendered day. The flags record what was withheld so that
// every permission combination renders differently.
type DayView struct {
	Date           string
	CalendarHidden bool
	NamesHidden    bool
	TimesHidden    bool
	Entries        []VisibleLog
}

// Badges returns the calendar badges of the visible range; empty without
// calendar access.
func (p *Profile) Badges() map[string]calendar.Badge {
	return calendar.Badges(p.logs)
}

// Counts returns log counts per date; empty without calendar access.
func (p *Profile) Counts() map[string]int {
	return calendar.LogCountsByDate(p.logs)
}

func (p *Profile) RenderDay(date string) DayView {
	perms := p.Permissions
	view := DayView{
		Date:           date,
		CalendarHidden: !perms.ViewCalendar,
		NamesHidden:    !perms.ViewDetails,
		TimesHidden:    perms.HideTimes,
		Entries:        []VisibleLog{},
	}
	if !perms.ViewCalendar {
		return view
	}

	for _, l := range p.logs {
		if l.Date != date {
			continue
		}
		entry := VisibleLog{
			Date:  l.Date,
			Label: constants.PlaceholderActivityLabel,
			Color: l.GroupColor,
		}
		if entry.Color == "" {
			entry.Color = constants.DefaultGroupColor
		}
		if perms.ViewDetails {
			entry.Label = l.ItemNameSnapshot
			entry.Note = l.Note
		}
		if !perms.HideTimes {
			entry.Time = l.Time
		}
		view.Entries = append(view.Entries, entry)
	}
	return view
}
