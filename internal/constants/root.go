package constants

import "time"

// Collection names a document collection inside the per-user namespace.
type Collection string

// FriendRequestStatus is the lifecycle state of a friend request.
type FriendRequestStatus string

const (
	AppName            = "routinelog"
	DefaultKeyringUser = "database-connection"
	SessionKeyringUser = "session"
	SecretKeyringUser  = "session-secret"
	SessionSecretFile  = "session.key"
	DefaultConfigDir   = "~/.config/routinelog"
	DefaultConfigPath  = "~/.config/routinelog/routinelog.db"
	Version            = "v0.3.0"

	// IdentityDomain turns a username into the email-shaped identifier the
	// identity provider expects.
	IdentityDomain = "routinelog.app"

	// Default group provisioned on first access
	DefaultGroupName  = "Genel"
	DefaultGroupColor = "#8b5cf6"

	// FanOutBatchSize is the number of log writes committed per batch when an
	// item rename or regroup is propagated to its logs. It stays below
	// storage.MaxBatchWrites.
	FanOutBatchSize = 490

	// Calendar badges
	MaxCalendarDots = 4

	// PlaceholderActivityLabel replaces item names for friends without detail access.
	PlaceholderActivityLabel = "Completed activity"

	// Auth
	MinSecretLength   = 6
	MaxFailedLogins   = 5
	FailedLoginWindow = 15 * time.Minute
	SessionTTL        = 30 * 24 * time.Hour
	SessionSecretSize = 32

	// Collections
	CollectionGroups         Collection = "groups"
	CollectionItems          Collection = "items"
	CollectionLogs           Collection = "logs"
	CollectionPresets        Collection = "presets"
	CollectionFriends        Collection = "friends"
	CollectionProfiles       Collection = "profiles"
	CollectionFriendRequests Collection = "friendRequests"

	// Friend request statuses
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// DemoItemNames are added to the default group by `item demo`.
var DemoItemNames = []string{"Spor", "Yemek", "Meditasyon", "Kahve"}
