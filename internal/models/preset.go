package models

import "time"

// Preset is a named bundle of items logged together.
type Preset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ItemIDs   []string  `json:"itemIds"`
	CreatedAt time.Time `json:"createdAt"`
}

type PresetUpdate struct {
	Name    *string  `json:"name,omitempty"`
	ItemIDs []string `json:"itemIds,omitempty"`
}

func (u PresetUpdate) IsEmpty() bool {
	return u.Name == nil && u.ItemIDs == nil
}
