package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/routinelog/internal/logger"
	"github.com/julianstephens/routinelog/internal/migration"
	"github.com/julianstephens/routinelog/internal/storage"
	"github.com/julianstephens/routinelog/internal/storage/sqlstore"
	"github.com/julianstephens/routinelog/migrations"
)

// Store is the single-process provider. Changes are published on the feed
// right after each write commits.
type Store struct {
	*sqlstore.Store

	path string
	db   *sql.DB
	feed *storage.Feed
}

var (
	_ storage.Provider = (*Store)(nil)
	_ storage.Migrator = (*Store)(nil)
)

func NewStore(path string) *Store {
	return &Store{
		path: path,
		feed: storage.NewFeed(),
	}
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One connection serialises writers; concurrent batches queue instead of
	// failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s.db = db
	s.Store = sqlstore.New(db, dialect{}, func(_ context.Context, changes ...storage.Change) {
		s.feed.Publish(changes...)
	})
	return nil
}

func (s *Store) Init(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'routinelog init' first")
	}

	if err := s.open(); err != nil {
		return err
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := s.validateSchemaVersion(); err != nil {
		s.Close()
		return err
	}
	return nil
}

// Migrate applies pending migrations to an initialized database file. A
// connection opened here is closed again.
func (s *Store) Migrate(ctx context.Context, logFn func(string)) (int, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return 0, fmt.Errorf("storage not initialized, run 'routinelog init' first")
	}
	if s.db == nil {
		if err := s.open(); err != nil {
			return 0, err
		}
		defer s.Close()
	}
	if err := s.db.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("failed to connect to database: %w", err)
	}
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(logFn)
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) Feed() *storage.Feed {
	return s.feed
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.DriverSQLite), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) GetConfigPath() string {
	return s.path
}
