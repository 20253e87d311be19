package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/storage"
)

const logColumns = "id, log_date, log_time, logged_at, item_id, item_name_snapshot, group_id, group_color, note, created_at, updated_at"

func (s *Store) AddLog(ctx context.Context, userID string, log models.Log) (string, error) {
	id := newID()
	_, err := s.exec(ctx, `
		INSERT INTO logs (id, user_id, log_date, log_time, item_id, item_name_snapshot, group_id, group_color, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, log.Date, log.Time, log.ItemID, log.ItemNameSnapshot,
		nullable(log.GroupID), nullable(log.GroupColor), nullable(log.Note))
	if err != nil {
		return "", err
	}
	s.changed(ctx, userID, constants.CollectionLogs)
	return id, nil
}

func (s *Store) UpdateLog(ctx context.Context, userID, id string, update models.LogUpdate) error {
	var set setClause
	if update.Date != nil {
		set.add("log_date", *update.Date)
	}
	if update.Time != nil {
		set.add("log_time", *update.Time)
	}
	if update.Note != nil {
		set.add("note", nullablePtr(update.Note))
	}
	if set.empty() {
		return nil
	}
	set.addRaw("updated_at = " + s.dialect.Now())

	args := append(set.args, userID, id)
	if err := s.execOne(ctx, "UPDATE logs SET "+set.String()+" WHERE user_id = ? AND id = ?", args...); err != nil {
		return err
	}
	s.changed(ctx, userID, constants.CollectionLogs)
	return nil
}

func (s *Store) DeleteLog(ctx context.Context, userID, id string) error {
	if err := s.execOne(ctx, "DELETE FROM logs WHERE user_id = ? AND id = ?", userID, id); err != nil {
		return err
	}
	s.changed(ctx, userID, constants.CollectionLogs)
	return nil
}

func logFilter(userID string, q models.LogQuery) (string, []any) {
	where := []string{"user_id = ?"}
	args := []any{userID}
	if q.Date != "" {
		where = append(where, "log_date = ?")
		args = append(args, q.Date)
	}
	if q.StartDate != "" {
		where = append(where, "log_date >= ?")
		args = append(args, q.StartDate)
	}
	if q.EndDate != "" {
		where = append(where, "log_date <= ?")
		args = append(args, q.EndDate)
	}
	if q.ItemID != "" {
		where = append(where, "item_id = ?")
		args = append(args, q.ItemID)
	}
	return strings.Join(where, " AND "), args
}

// ListLogs returns matching logs in insertion order. Ordering by date and
// time is left to the caller.
func (s *Store) ListLogs(ctx context.Context, userID string, q models.LogQuery) ([]models.Log, error) {
	where, args := logFilter(userID, q)
	rows, err := s.query(ctx, "SELECT "+logColumns+" FROM logs WHERE "+where+" ORDER BY seq", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.Log{}
	for rows.Next() {
		var l models.Log
		var groupID, groupColor, note sql.NullString
		err := rows.Scan(&l.ID, &l.Date, &l.Time, scanTime(&l.Timestamp), &l.ItemID, &l.ItemNameSnapshot,
			&groupID, &groupColor, &note, scanTime(&l.CreatedAt), scanTime(&l.UpdatedAt))
		if err != nil {
			return nil, err
		}
		l.GroupID = groupID.String
		l.GroupColor = groupColor.String
		l.Note = note.String
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) CountLogs(ctx context.Context, userID string, q models.LogQuery) (int, error) {
	where, args := logFilter(userID, q)
	var n int
	if err := s.queryRow(ctx, "SELECT COUNT(*) FROM logs WHERE "+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CommitLogBatch applies every patch or none of them. A patch naming a
// missing log fails the whole batch with storage.ErrNotFound.
func (s *Store) CommitLogBatch(ctx context.Context, userID string, patches []models.LogPatch) error {
	if len(patches) > storage.MaxBatchWrites {
		return fmt.Errorf("%w: %d > %d", storage.ErrBatchTooLarge, len(patches), storage.MaxBatchWrites)
	}
	if len(patches) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range patches {
		var set setClause
		if p.ItemNameSnapshot != nil {
			set.add("item_name_snapshot", *p.ItemNameSnapshot)
		}
		if p.GroupID != nil {
			set.add("group_id", nullablePtr(p.GroupID))
		}
		if p.GroupColor != nil {
			set.add("group_color", nullablePtr(p.GroupColor))
		}
		if set.empty() {
			continue
		}
		args := append(set.args, userID, p.LogID)
		res, err := tx.ExecContext(ctx, s.dialect.Rebind("UPDATE logs SET "+set.String()+" WHERE user_id = ? AND id = ?"), args...)
		if err != nil {
			return fmt.Errorf("failed to patch log %s: %w", p.LogID, err)
		}
		if err := requireRows(res); err != nil {
			return fmt.Errorf("failed to patch log %s: %w", p.LogID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	s.changed(ctx, userID, constants.CollectionLogs)
	return nil
}
