// Package sqlstore implements storage.Provider's document operations over
// database/sql. The sqlite and postgres packages supply the connection, the
// dialect and change notification.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/storage"
)

// Dialect captures the differences between the supported databases.
type Dialect interface {
	// Rebind rewrites ? placeholders for the driver.
	Rebind(query string) string
	// Now is the SQL expression for a server-assigned timestamp.
	Now() string
	// IsUniqueViolation reports whether err is a unique-constraint failure.
	IsUniqueViolation(err error) bool
}

// Notifier is told about every committed write.
type Notifier func(ctx context.Context, changes ...storage.Change)

type Store struct {
	db      *sql.DB
	dialect Dialect
	notify  Notifier
}

func New(db *sql.DB, dialect Dialect, notify Notifier) *Store {
	if notify == nil {
		notify = func(context.Context, ...storage.Change) {}
	}
	return &Store{db: db, dialect: dialect, notify: notify}
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

func newID() string {
	return uuid.New().String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

// execOne runs a write that must touch exactly one document.
func (s *Store) execOne(ctx context.Context, query string, args ...any) error {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func (s *Store) changed(ctx context.Context, userID string, collection constants.Collection) {
	s.notify(ctx, storage.Change{UserID: userID, Collection: collection})
}

// setClause accumulates the columns of a partial update.
type setClause struct {
	cols []string
	args []any
}

func (c *setClause) add(col string, v any) {
	c.cols = append(c.cols, col+" = ?")
	c.args = append(c.args, v)
}

func (c *setClause) addRaw(expr string) {
	c.cols = append(c.cols, expr)
}

func (c *setClause) empty() bool {
	return len(c.cols) == 0
}

func (c *setClause) String() string {
	return strings.Join(c.cols, ", ")
}

// timestamp scans either a driver time.Time or the text SQLite stores.
type timestamp struct {
	t *time.Time
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		*ts.t = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (ts timestamp) parse(v string) error {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			*ts.t = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", v)
}

func scanTime(t *time.Time) timestamp {
	return timestamp{t: t}
}

// nullable stores "" as NULL.
func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullablePtr(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return nullable(*v)
}
