package models

import (
	"time"

	"github.com/julianstephens/routinelog/internal/constants"
)

// UserProfile is the searchable identity of a user, separate from the login
// credential.
type UserProfile struct {
	UID         string    `json:"uid"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName,omitempty"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Account is the identity provider's credential record.
type Account struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type FriendRequest struct {
	ID           string                        `json:"id"`
	FromID       string                        `json:"fromId"`
	FromUsername string                        `json:"fromUsername"`
	ToID         string                        `json:"toId"`
	ToUsername   string                        `json:"toUsername"`
	Status       constants.FriendRequestStatus `json:"status"`
	CreatedAt    time.Time                     `json:"createdAt"`
}

// FriendRequestQuery filters friend requests; empty fields match anything.
type FriendRequestQuery struct {
	FromID string
	ToID   string
	Status constants.FriendRequestStatus
}

// Permissions are three independent visibility bits granted by the data owner.
type Permissions struct {
	ViewCalendar bool `json:"viewCalendar"`
	ViewDetails  bool `json:"viewDetails"`
	HideTimes    bool `json:"hideTimes"`
}

// DefaultPermissions are granted to both sides when a request is accepted.
func DefaultPermissions() Permissions {
	return Permissions{ViewCalendar: true, ViewDetails: false, HideTimes: false}
}

// Friendship is stored under the granting user and names the friend.
type Friendship struct {
	UID         string      `json:"uid"`
	Username    string      `json:"username"`
	Since       time.Time   `json:"since"`
	Permissions Permissions `json:"permissions"`
}
