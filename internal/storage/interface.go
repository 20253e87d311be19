package storage

import (
	"context"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
)

// Provider is the document store behind the data-access layer. Every user
// owns a namespace (users/{uid}/...); the provider assigns document ids and
// every timestamp. Each committed write is announced on Feed().
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error
	Feed() *Feed

	// Groups
	AddGroup(ctx context.Context, userID string, group models.Group) (string, error)
	UpdateGroup(ctx context.Context, userID, id string, update models.GroupUpdate) error
	DeleteGroup(ctx context.Context, userID, id string) error
	ListGroups(ctx context.Context, userID string) ([]models.Group, error)
	FindGroupsByName(ctx context.Context, userID, name string) ([]models.Group, error)

	// Items
	AddItem(ctx context.Context, userID string, item models.Item) (string, error)
	GetItem(ctx context.Context, userID, id string) (models.Item, error)
	UpdateItem(ctx context.Context, userID, id string, update models.ItemUpdate) error
	ArchiveItem(ctx context.Context, userID, id string) error
	DeleteItem(ctx context.Context, userID, id string) error
	ListItems(ctx context.Context, userID string, includeArchived bool) ([]models.Item, error)

	// Logs
	AddLog(ctx context.Context, userID string, log models.Log) (string, error)
	UpdateLog(ctx context.Context, userID, id string, update models.LogUpdate) error
	DeleteLog(ctx context.Context, userID, id string) error
	ListLogs(ctx context.Context, userID string, query models.LogQuery) ([]models.Log, error)
	// CountLogs is a server-side aggregate; no documents are transferred.
	CountLogs(ctx context.Context, userID string, query models.LogQuery) (int, error)
	// CommitLogBatch applies patches in one transaction. Batches larger than
	// MaxBatchWrites are rejected with ErrBatchTooLarge.
	CommitLogBatch(ctx context.Context, userID string, patches []models.LogPatch) error

	// Presets
	AddPreset(ctx context.Context, userID string, preset models.Preset) (string, error)
	GetPreset(ctx context.Context, userID, id string) (models.Preset, error)
	UpdatePreset(ctx context.Context, userID, id string, update models.PresetUpdate) error
	DeletePreset(ctx context.Context, userID, id string) error
	ListPresets(ctx context.Context, userID string) ([]models.Preset, error)

	// Profiles
	SaveProfile(ctx context.Context, profile models.UserProfile) error
	GetProfile(ctx context.Context, uid string) (models.UserProfile, error)
	GetProfileByUsername(ctx context.Context, username string) (models.UserProfile, error)

	// Friend requests
	AddFriendRequest(ctx context.Context, req models.FriendRequest) (string, error)
	GetFriendRequest(ctx context.Context, id string) (models.FriendRequest, error)
	ListFriendRequests(ctx context.Context, query models.FriendRequestQuery) ([]models.FriendRequest, error)
	SetFriendRequestStatus(ctx context.Context, id string, status constants.FriendRequestStatus) error

	// Friendships, stored under the granting owner
	SaveFriendship(ctx context.Context, ownerID string, friendship models.Friendship) error
	GetFriendship(ctx context.Context, ownerID, friendID string) (models.Friendship, error)
	ListFriendships(ctx context.Context, ownerID string) ([]models.Friendship, error)
	UpdateFriendPermissions(ctx context.Context, ownerID, friendID string, perms models.Permissions) error
	DeleteFriendship(ctx context.Context, ownerID, friendID string) error

	// Accounts (identity provider)
	CreateAccount(ctx context.Context, account models.Account) (string, error)
	GetAccountByEmail(ctx context.Context, email string) (models.Account, error)
	DeleteAccount(ctx context.Context, uid string) error

	// DeleteUserData removes every document owned by or naming the user.
	DeleteUserData(ctx context.Context, userID string) error

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by providers with a versioned schema. Migrate
// brings an existing store up to the latest schema, reporting progress to
// logFn, and returns how many migrations ran.
type Migrator interface {
	Migrate(ctx context.Context, logFn func(string)) (int, error)
}
