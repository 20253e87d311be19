package models

import "time"

type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"` // hex, e.g. #8b5cf6
	CreatedAt time.Time `json:"createdAt"`
}

// GroupUpdate is a partial update; nil fields are left untouched.
type GroupUpdate struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// IsEmpty reports whether the update would modify nothing.
func (u GroupUpdate) IsEmpty() bool {
	return u.Name == nil && u.Color == nil
}
