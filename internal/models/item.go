package models

import "time"

// Item is a catalog entry. The group name and colour are copied from the
// group when the item is saved and are not kept in sync with later group edits.
type Item struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	GroupID            string    `json:"groupId"`
	GroupNameSnapshot  string    `json:"groupNameSnapshot,omitempty"`
	GroupColorSnapshot string    `json:"groupColorSnapshot,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	IsArchived         bool      `json:"isArchived"`
}

// ItemUpdate is a partial update; nil fields are left untouched.
type ItemUpdate struct {
	Name               *string `json:"name,omitempty"`
	GroupID            *string `json:"groupId,omitempty"`
	GroupNameSnapshot  *string `json:"groupNameSnapshot,omitempty"`
	GroupColorSnapshot *string `json:"groupColorSnapshot,omitempty"`
}

func (u ItemUpdate) IsEmpty() bool {
	return u.Name == nil && u.GroupID == nil && u.GroupNameSnapshot == nil && u.GroupColorSnapshot == nil
}

// LogPatch returns the denormalised fields a log referencing the item must
// receive after this update. ok is false when no log field changes.
func (u ItemUpdate) LogPatch(logID string) (patch LogPatch, ok bool) {
	patch = LogPatch{LogID: logID}
	if u.Name != nil {
		patch.ItemNameSnapshot = u.Name
		ok = true
	}
	if u.GroupID != nil {
		patch.GroupID = u.GroupID
		ok = true
	}
	if u.GroupColorSnapshot != nil {
		patch.GroupColor = u.GroupColorSnapshot
		ok = true
	}
	return patch, ok
}
