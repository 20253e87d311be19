package backup

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// ticker returns a clock that advances one minute per call.
func ticker() func() time.Time {
	t := time.Date(2025, 3, 15, 9, 30, 0, 0, time.Local)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "routinelog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()
	for _, stmt := range []string{
		`CREATE TABLE items (id TEXT PRIMARY KEY, name TEXT)`,
		`INSERT INTO items VALUES ('a', 'Run'), ('b', 'Read')`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return dbPath
}

func countItems(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM items").Scan(&n); err != nil {
		t.Fatalf("count items in %s: %v", path, err)
	}
	return n
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, ticker())

	path, err := mgr.Create(context.Background())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if filepath.Dir(path) != mgr.Dir() {
		t.Errorf("backup written to %s, want under %s", path, mgr.Dir())
	}
	if got := filepath.Base(path); got != "routinelog-20250315-0931.db" {
		t.Errorf("backup name = %s", got)
	}
	if n := countItems(t, path); n != 2 {
		t.Errorf("backup rows = %d, want 2", n)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"), ticker())
	if _, err := mgr.Create(context.Background()); err == nil {
		t.Fatal("Create() on a missing database should fail")
	}
}

func TestCreateSameMinute(t *testing.T) {
	dbPath := setupTestDB(t)
	fixed := time.Date(2025, 3, 15, 9, 30, 5, 0, time.Local)
	mgr := NewManager(dbPath, func() time.Time { return fixed })

	want := []string{
		"routinelog-20250315-0930.db",
		"routinelog-20250315-093005.db",
		"routinelog-20250315-093005-1.db",
	}
	for _, name := range want {
		path, err := mgr.Create(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(path) != name {
			t.Errorf("backup name = %s, want %s", filepath.Base(path), name)
		}
	}
	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != len(want) {
		t.Errorf("List() = %d backups, want %d", len(backups), len(want))
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, ticker())

	var newest string
	for i := 0; i < MaxBackups+5; i++ {
		path, err := mgr.Create(context.Background())
		if err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
		newest = path
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != MaxBackups {
		t.Fatalf("backups after rotation = %d, want %d", len(backups), MaxBackups)
	}
	if backups[0].Path != newest {
		t.Errorf("List()[0] = %s, want newest %s", backups[0].Path, newest)
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backup %d is newer than backup %d", i, i-1)
		}
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, ticker())
	if _, err := mgr.Create(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "routinelog-garbage.db", "other-20250315-0930.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Fatalf("List() = %d backups, want 1", len(backups))
	}
	if backups[0].Size == 0 {
		t.Error("backup size is 0")
	}
}

func TestListWithoutDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "routinelog.db"), ticker())
	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 0 {
		t.Errorf("List() = %d backups, want 0", len(backups))
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, ticker())
	ctx := context.Background()

	snapshot, err := mgr.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO items VALUES ('c', 'Stretch')"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	previous, err := mgr.Restore(ctx, mgr.Resolve(filepath.Base(snapshot)))
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if n := countItems(t, dbPath); n != 2 {
		t.Errorf("rows after restore = %d, want 2", n)
	}
	if previous == "" {
		t.Fatal("Restore() should snapshot the replaced database")
	}
	if n := countItems(t, previous); n != 3 {
		t.Errorf("pre-restore snapshot rows = %d, want 3", n)
	}
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, ticker())
	ctx := context.Background()

	if _, err := mgr.Restore(ctx, filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("Restore() of a missing file should fail")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("definitely not sqlite, padded to look like a header........"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(ctx, bogus); err == nil {
		t.Error("Restore() of a corrupt file should fail")
	}
	if n := countItems(t, dbPath); n != 2 {
		t.Errorf("database modified by failed restore: rows = %d", n)
	}
}

func TestResolve(t *testing.T) {
	mgr := NewManager("/data/routinelog.db", nil)
	tests := []struct {
		in, want string
	}{
		{"routinelog-20250315-0930.db", filepath.Join("/data", DirName, "routinelog-20250315-0930.db")},
		{"/tmp/snap.db", "/tmp/snap.db"},
		{"rel/snap.db", "rel/snap.db"},
	}
	for _, tt := range tests {
		if got := mgr.Resolve(tt.in); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
