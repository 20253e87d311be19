package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func strPtr(s string) *string { return &s }

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(context.Background()); err == nil {
		t.Fatal("Load() on a missing database should fail")
	}
}

func TestLoadAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	first := NewStore(path)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := first.AddGroup(ctx, "u1", models.Group{Name: "Genel", Color: "#8b5cf6"}); err != nil {
		t.Fatalf("AddGroup() error = %v", err)
	}
	first.Close()

	second := NewStore(path)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer second.Close()

	groups, err := second.ListGroups(ctx, "u1")
	if err != nil {
		t.Fatalf("ListGroups() error = %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "Genel" {
		t.Errorf("ListGroups() = %+v, want the persisted group", groups)
	}
}

func TestGroups(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.AddGroup(ctx, "u1", models.Group{Name: "Health", Color: "#ff0000"})
	if err != nil {
		t.Fatalf("AddGroup() error = %v", err)
	}
	if id == "" {
		t.Fatal("AddGroup() returned an empty id")
	}

	if err := store.UpdateGroup(ctx, "u1", id, models.GroupUpdate{Color: strPtr("#00ff00")}); err != nil {
		t.Fatalf("UpdateGroup() error = %v", err)
	}

	groups, err := store.ListGroups(ctx, "u1")
	if err != nil {
		t.Fatalf("ListGroups() error = %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("ListGroups() returned %d groups, want 1", len(groups))
	}
	if groups[0].Name != "Health" || groups[0].Color != "#00ff00" {
		t.Errorf("group = %+v, want name kept and colour updated", groups[0])
	}
	if groups[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not assigned by the store")
	}

	found, err := store.FindGroupsByName(ctx, "u1", "Health")
	if err != nil || len(found) != 1 {
		t.Errorf("FindGroupsByName() = %v, %v; want one match", found, err)
	}

	other, err := store.ListGroups(ctx, "u2")
	if err != nil || len(other) != 0 {
		t.Errorf("ListGroups(u2) = %v, %v; want an empty namespace", other, err)
	}

	if err := store.DeleteGroup(ctx, "u1", id); err != nil {
		t.Fatalf("DeleteGroup() error = %v", err)
	}
	if err := store.DeleteGroup(ctx, "u1", id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteGroup() twice error = %v, want ErrNotFound", err)
	}
}

func TestItems(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.AddItem(ctx, "u1", models.Item{Name: "Kahve", GroupID: "g1", GroupNameSnapshot: "Genel", GroupColorSnapshot: "#8b5cf6"})
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	item, err := store.GetItem(ctx, "u1", id)
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if item.IsArchived {
		t.Error("new item should not be archived")
	}
	if item.GroupNameSnapshot != "Genel" || item.GroupColorSnapshot != "#8b5cf6" {
		t.Errorf("snapshots = %q/%q, want Genel/#8b5cf6", item.GroupNameSnapshot, item.GroupColorSnapshot)
	}

	if err := store.ArchiveItem(ctx, "u1", id); err != nil {
		t.Fatalf("ArchiveItem() error = %v", err)
	}

	active, _ := store.ListItems(ctx, "u1", false)
	if len(active) != 0 {
		t.Errorf("ListItems(active) = %d items, want 0", len(active))
	}
	all, _ := store.ListItems(ctx, "u1", true)
	if len(all) != 1 || !all[0].IsArchived {
		t.Errorf("ListItems(all) = %+v, want the archived item", all)
	}

	if _, err := store.GetItem(ctx, "u1", "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetItem(missing) error = %v, want ErrNotFound", err)
	}
	if err := store.UpdateItem(ctx, "u1", "missing", models.ItemUpdate{Name: strPtr("x")}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateItem(missing) error = %v, want ErrNotFound", err)
	}
}

func TestLogsQueryAndCount(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, l := range []models.Log{
		{Date: "2024-05-01", Time: "09:00", ItemID: "a", ItemNameSnapshot: "A"},
		{Date: "2024-05-02", Time: "10:00", ItemID: "a", ItemNameSnapshot: "A", GroupColor: "#ff0000"},
		{Date: "2024-05-02", Time: "08:00", ItemID: "b", ItemNameSnapshot: "B"},
		{Date: "2024-06-01", Time: "08:00", ItemID: "a", ItemNameSnapshot: "A"},
	} {
		if _, err := store.AddLog(ctx, "u1", l); err != nil {
			t.Fatalf("AddLog() error = %v", err)
		}
	}

	tests := []struct {
		name  string
		query models.LogQuery
		want  int
	}{
		{"single date", models.LogQuery{Date: "2024-05-02"}, 2},
		{"range", models.LogQuery{StartDate: "2024-05-01", EndDate: "2024-05-31"}, 3},
		{"item", models.LogQuery{ItemID: "a"}, 3},
		{"range and item", models.LogQuery{StartDate: "2024-05-01", EndDate: "2024-05-31", ItemID: "a"}, 2},
		{"empty", models.LogQuery{Date: "2023-01-01"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs, err := store.ListLogs(ctx, "u1", tt.query)
			if err != nil {
				t.Fatalf("ListLogs() error = %v", err)
			}
			if len(logs) != tt.want {
				t.Errorf("ListLogs() = %d logs, want %d", len(logs), tt.want)
			}
			n, err := store.CountLogs(ctx, "u1", tt.query)
			if err != nil {
				t.Fatalf("CountLogs() error = %v", err)
			}
			if n != tt.want {
				t.Errorf("CountLogs() = %d, want %d", n, tt.want)
			}
		})
	}

	logs, _ := store.ListLogs(ctx, "u1", models.LogQuery{Date: "2024-05-02"})
	for _, l := range logs {
		if l.Timestamp.IsZero() || l.CreatedAt.IsZero() || l.UpdatedAt.IsZero() {
			t.Errorf("log %s is missing server timestamps: %+v", l.ID, l)
		}
		if l.ItemID == "b" && l.GroupColor != "" {
			t.Errorf("absent group colour should scan as empty, got %q", l.GroupColor)
		}
	}
}

func TestUpdateLogBumpsUpdatedAt(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.AddLog(ctx, "u1", models.Log{Date: "2024-05-01", Time: "09:00", ItemID: "a", ItemNameSnapshot: "A", Note: "first"})
	if err != nil {
		t.Fatalf("AddLog() error = %v", err)
	}
	before, _ := store.ListLogs(ctx, "u1", models.LogQuery{Date: "2024-05-01"})

	if err := store.UpdateLog(ctx, "u1", id, models.LogUpdate{Time: strPtr("10:30"), Note: strPtr("")}); err != nil {
		t.Fatalf("UpdateLog() error = %v", err)
	}
	after, _ := store.ListLogs(ctx, "u1", models.LogQuery{Date: "2024-05-01"})
	if len(after) != 1 {
		t.Fatalf("expected one log, got %d", len(after))
	}
	if after[0].Time != "10:30" || after[0].Note != "" {
		t.Errorf("log = %+v, want time 10:30 and note cleared", after[0])
	}
	if after[0].UpdatedAt.Before(before[0].UpdatedAt) {
		t.Errorf("UpdatedAt moved backwards: %v -> %v", before[0].UpdatedAt, after[0].UpdatedAt)
	}
	if !after[0].CreatedAt.Equal(before[0].CreatedAt) {
		t.Error("CreatedAt changed on update")
	}
}

func TestCommitLogBatch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := store.AddLog(ctx, "u1", models.Log{Date: "2024-05-01", Time: "09:00", ItemID: "a", ItemNameSnapshot: "Old"})
		if err != nil {
			t.Fatalf("AddLog() error = %v", err)
		}
		ids = append(ids, id)
	}

	t.Run("applies patches", func(t *testing.T) {
		var patches []models.LogPatch
		for _, id := range ids {
			patches = append(patches, models.LogPatch{LogID: id, ItemNameSnapshot: strPtr("New"), GroupColor: strPtr("#00ff00")})
		}
		if err := store.CommitLogBatch(ctx, "u1", patches); err != nil {
			t.Fatalf("CommitLogBatch() error = %v", err)
		}
		logs, _ := store.ListLogs(ctx, "u1", models.LogQuery{ItemID: "a"})
		for _, l := range logs {
			if l.ItemNameSnapshot != "New" || l.GroupColor != "#00ff00" {
				t.Errorf("log %s = %+v, want patched snapshot", l.ID, l)
			}
		}
	})

	t.Run("missing log rolls back the batch", func(t *testing.T) {
		patches := []models.LogPatch{
			{LogID: ids[0], ItemNameSnapshot: strPtr("Rolled")},
			{LogID: "missing", ItemNameSnapshot: strPtr("Rolled")},
		}
		if err := store.CommitLogBatch(ctx, "u1", patches); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("CommitLogBatch() error = %v, want ErrNotFound", err)
		}
		logs, _ := store.ListLogs(ctx, "u1", models.LogQuery{ItemID: "a"})
		for _, l := range logs {
			if l.ItemNameSnapshot == "Rolled" {
				t.Errorf("log %s was written by a failed batch", l.ID)
			}
		}
	})

	t.Run("rejects oversized batch", func(t *testing.T) {
		patches := make([]models.LogPatch, storage.MaxBatchWrites+1)
		for i := range patches {
			patches[i] = models.LogPatch{LogID: ids[0], ItemNameSnapshot: strPtr("x")}
		}
		if err := store.CommitLogBatch(ctx, "u1", patches); !errors.Is(err, storage.ErrBatchTooLarge) {
			t.Errorf("CommitLogBatch() error = %v, want ErrBatchTooLarge", err)
		}
	})
}

func TestPresets(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.AddPreset(ctx, "u1", models.Preset{Name: "Morning", ItemIDs: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("AddPreset() error = %v", err)
	}
	if err := store.UpdatePreset(ctx, "u1", id, models.PresetUpdate{ItemIDs: []string{"c"}}); err != nil {
		t.Fatalf("UpdatePreset() error = %v", err)
	}
	p, err := store.GetPreset(ctx, "u1", id)
	if err != nil {
		t.Fatalf("GetPreset() error = %v", err)
	}
	if diff := cmp.Diff([]string{"c"}, p.ItemIDs); diff != "" {
		t.Errorf("ItemIDs mismatch (-want +got):\n%s", diff)
	}
	if p.Name != "Morning" {
		t.Errorf("Name = %q, want Morning", p.Name)
	}

	empty, err := store.AddPreset(ctx, "u1", models.Preset{Name: "Empty"})
	if err != nil {
		t.Fatalf("AddPreset() error = %v", err)
	}
	p, _ = store.GetPreset(ctx, "u1", empty)
	if p.ItemIDs == nil || len(p.ItemIDs) != 0 {
		t.Errorf("ItemIDs = %#v, want an empty slice", p.ItemIDs)
	}
}

func TestProfilesAndAccounts(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.SaveProfile(ctx, models.UserProfile{UID: "u1", Username: "Alice"}); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	p, err := store.GetProfileByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetProfileByUsername() error = %v", err)
	}
	if p.UID != "u1" || p.Username != "Alice" {
		t.Errorf("profile = %+v, want u1/Alice", p)
	}
	if err := store.SaveProfile(ctx, models.UserProfile{UID: "u2", Username: "ALICE"}); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("SaveProfile(duplicate username) error = %v, want ErrConflict", err)
	}

	uid, err := store.CreateAccount(ctx, models.Account{Email: "alice@routinelog.app", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if _, err := store.CreateAccount(ctx, models.Account{Email: "alice@routinelog.app", PasswordHash: "hash"}); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("CreateAccount(duplicate) error = %v, want ErrConflict", err)
	}
	acct, err := store.GetAccountByEmail(ctx, "alice@routinelog.app")
	if err != nil || acct.UID != uid || acct.PasswordHash != "hash" {
		t.Errorf("GetAccountByEmail() = %+v, %v", acct, err)
	}
	if err := store.DeleteAccount(ctx, uid); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}
	if _, err := store.GetAccountByEmail(ctx, "alice@routinelog.app"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetAccountByEmail() after delete error = %v, want ErrNotFound", err)
	}
}

func TestFriends(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	reqID, err := store.AddFriendRequest(ctx, models.FriendRequest{FromID: "u1", FromUsername: "alice", ToID: "u2", ToUsername: "bob"})
	if err != nil {
		t.Fatalf("AddFriendRequest() error = %v", err)
	}
	pending, _ := store.ListFriendRequests(ctx, models.FriendRequestQuery{ToID: "u2", Status: constants.FriendRequestPending})
	if len(pending) != 1 || pending[0].ID != reqID {
		t.Fatalf("pending requests = %+v, want the new request", pending)
	}
	if err := store.SetFriendRequestStatus(ctx, reqID, constants.FriendRequestAccepted); err != nil {
		t.Fatalf("SetFriendRequestStatus() error = %v", err)
	}
	req, _ := store.GetFriendRequest(ctx, reqID)
	if req.Status != constants.FriendRequestAccepted {
		t.Errorf("status = %q, want accepted", req.Status)
	}

	perms := models.DefaultPermissions()
	if err := store.SaveFriendship(ctx, "u1", models.Friendship{UID: "u2", Username: "bob", Permissions: perms}); err != nil {
		t.Fatalf("SaveFriendship() error = %v", err)
	}
	perms.HideTimes = true
	if err := store.UpdateFriendPermissions(ctx, "u1", "u2", perms); err != nil {
		t.Fatalf("UpdateFriendPermissions() error = %v", err)
	}
	f, err := store.GetFriendship(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("GetFriendship() error = %v", err)
	}
	if diff := cmp.Diff(perms, f.Permissions); diff != "" {
		t.Errorf("permissions mismatch (-want +got):\n%s", diff)
	}
	if _, err := store.GetFriendship(ctx, "u2", "u1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetFriendship(reverse) error = %v, want ErrNotFound", err)
	}
	if err := store.UpdateFriendPermissions(ctx, "u2", "u1", perms); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateFriendPermissions(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteUserData(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	store.AddGroup(ctx, "u1", models.Group{Name: "G", Color: "#000000"})
	store.AddItem(ctx, "u1", models.Item{Name: "I", GroupID: "g"})
	store.AddLog(ctx, "u1", models.Log{Date: "2024-01-01", Time: "09:00", ItemID: "i", ItemNameSnapshot: "I"})
	store.AddPreset(ctx, "u1", models.Preset{Name: "P"})
	store.SaveProfile(ctx, models.UserProfile{UID: "u1", Username: "alice"})
	store.SaveFriendship(ctx, "u1", models.Friendship{UID: "u2", Username: "bob"})
	store.SaveFriendship(ctx, "u2", models.Friendship{UID: "u1", Username: "alice"})
	store.AddFriendRequest(ctx, models.FriendRequest{FromID: "u3", FromUsername: "carol", ToID: "u1", ToUsername: "alice"})
	store.AddLog(ctx, "u2", models.Log{Date: "2024-01-01", Time: "09:00", ItemID: "x", ItemNameSnapshot: "X"})

	var mu sync.Mutex
	touched := map[string]bool{}
	cancel := store.Feed().Listen(func(c storage.Change) {
		mu.Lock()
		touched[c.Path()] = true
		mu.Unlock()
	})
	defer cancel()

	if err := store.DeleteUserData(ctx, "u1"); err != nil {
		t.Fatalf("DeleteUserData() error = %v", err)
	}

	if g, _ := store.ListGroups(ctx, "u1"); len(g) != 0 {
		t.Errorf("groups left: %d", len(g))
	}
	if i, _ := store.ListItems(ctx, "u1", true); len(i) != 0 {
		t.Errorf("items left: %d", len(i))
	}
	if n, _ := store.CountLogs(ctx, "u1", models.LogQuery{}); n != 0 {
		t.Errorf("logs left: %d", n)
	}
	if p, _ := store.ListPresets(ctx, "u1"); len(p) != 0 {
		t.Errorf("presets left: %d", len(p))
	}
	if _, err := store.GetProfile(ctx, "u1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("profile still present: %v", err)
	}
	if f, _ := store.ListFriendships(ctx, "u2"); len(f) != 0 {
		t.Errorf("reverse friendship left: %+v", f)
	}
	if r, _ := store.ListFriendRequests(ctx, models.FriendRequestQuery{FromID: "u3"}); len(r) != 0 {
		t.Errorf("friend requests left: %+v", r)
	}
	if n, _ := store.CountLogs(ctx, "u2", models.LogQuery{}); n != 1 {
		t.Errorf("other user's logs = %d, want 1", n)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, path := range []string{"users/u1/logs", "users/u2/friends", "users/u3/friendRequests"} {
		if !touched[path] {
			t.Errorf("no change published for %s", path)
		}
	}
}

func TestFeedPublishesCommittedWrites(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var got []storage.Change
	cancel := store.Feed().Listen(func(c storage.Change) { got = append(got, c) })
	defer cancel()

	if _, err := store.AddItem(ctx, "u1", models.Item{Name: "Kahve"}); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if err := store.DeleteItem(ctx, "u1", "missing"); err == nil {
		t.Fatal("DeleteItem(missing) should fail")
	}

	want := []storage.Change{{UserID: "u1", Collection: constants.CollectionItems}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("published changes mismatch (-want +got):\n%s", diff)
	}
}

func TestMigrateOutdatedDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "old.db")
	// a zero-length file is a valid database at schema version 0
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}
	store := NewStore(path)
	t.Cleanup(func() { store.Close() })

	if err := store.Load(ctx); err == nil {
		t.Fatal("Load() of an unmigrated database should fail")
	}
	if err := store.Load(ctx); err == nil {
		t.Fatal("second Load() should still validate the schema")
	}

	var messages []string
	applied, err := store.Migrate(ctx, func(msg string) { messages = append(messages, msg) })
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if applied == 0 || len(messages) == 0 {
		t.Errorf("Migrate() = %d migrations, %d messages; want some of both", applied, len(messages))
	}

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load() after migrate error = %v", err)
	}
	again, err := store.Migrate(ctx, func(string) {})
	if err != nil || again != 0 {
		t.Errorf("second Migrate() = %d, %v; want 0, nil", again, err)
	}
	if _, err := store.AddGroup(ctx, "u1", models.Group{Name: "Genel", Color: "#8b5cf6"}); err != nil {
		t.Errorf("AddGroup() after migrate error = %v", err)
	}
}

func TestMigrateMissingDatabase(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := store.Migrate(context.Background(), func(string) {}); err == nil {
		t.Fatal("Migrate() without a database file should fail")
	}
}
