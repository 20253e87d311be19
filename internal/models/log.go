package models

import "time"

// Log records that an item was done on Date at Time. ItemNameSnapshot,
// GroupID and GroupColor are copied from the item and rewritten when the item
// is renamed or regrouped.
type Log struct {
	ID               string    `json:"id"`
	Date             string    `json:"date"` // YYYY-MM-DD
	Time             string    `json:"time"` // HH:MM
	Timestamp        time.Time `json:"timestamp"`
	ItemID           string    `json:"itemId"`
	ItemNameSnapshot string    `json:"itemNameSnapshot"`
	GroupID          string    `json:"groupId,omitempty"`
	GroupColor       string    `json:"groupColor,omitempty"`
	Note             string    `json:"note,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type LogUpdate struct {
	Date *string `json:"date,omitempty"`
	Time *string `json:"time,omitempty"`
	Note *string `json:"note,omitempty"`
}

func (u LogUpdate) IsEmpty() bool {
	return u.Date == nil && u.Time == nil && u.Note == nil
}

// LogPatch is a single write of an item fan-out.
type LogPatch struct {
	LogID            string
	ItemNameSnapshot *string
	GroupID          *string
	GroupColor       *string
}

// LogEntryInput is one item of a bulk (preset) log.
type LogEntryInput struct {
	ItemID           string `json:"itemId"`
	ItemNameSnapshot string `json:"itemNameSnapshot"`
}

// LogQuery filters logs of one user. Date selects a single day; StartDate and
// EndDate select an inclusive range. ItemID filters by item.
type LogQuery struct {
	Date      string
	StartDate string
	EndDate   string
	ItemID    string
}
