package sqlstore

import (
	"context"
	"database/sql"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
)

const itemColumns = "id, name, group_id, group_name_snapshot, group_color_snapshot, is_archived, created_at"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.Item, error) {
	var it models.Item
	var groupName, groupColor sql.NullString
	err := row.Scan(&it.ID, &it.Name, &it.GroupID, &groupName, &groupColor, &it.IsArchived, scanTime(&it.CreatedAt))
	if err != nil {
		return models.Item{}, err
	}
	it.GroupNameSnapshot = groupName.String
	it.GroupColorSnapshot = groupColor.String
	return it, nil
}

func (s *Store) AddItem(ctx context.Context, userID string, item models.Item) (string, error) {
	id := newID()
	_, err := s.exec(ctx, `
		INSERT INTO items (id, user_id, name, group_id, group_name_snapshot, group_color_snapshot, is_archived)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, userID, item.Name, item.GroupID, nullable(item.GroupNameSnapshot), nullable(item.GroupColorSnapshot), item.IsArchived)
	if err != nil {
		return "", err
	}
	s.changed(ctx, userID, constants.CollectionItems)
	return id, nil
}

func (s *Store) GetItem(ctx context.Context, userID, id string) (models.Item, error) {
	row := s.queryRow(ctx, "SELECT "+itemColumns+" FROM items WHERE user_id = ? AND id = ?", userID, id)
	it, err := scanItem(row)
	return it, notFound(err)
}

func (s *Store) UpdateItem(ctx context.Context, userID, id string, update models.ItemUpdate) error {
	var set setClause
	if update.Name != nil {
		set.add("name", *update.Name)
	}
	if update.GroupID != nil {
		set.add("group_id", *update.GroupID)
	}
	if update.GroupNameSnapshot != nil {
		set.add("group_name_snapshot", nullablePtr(update.GroupNameSnapshot))
	}
	if update.GroupColorSnapshot != nil {
		set.add("group_color_snapshot", nullablePtr(update.GroupColorSnapshot))
	}
	if set.empty() {
		return nil
	}

	args := append(set.args, userID, id)
	if err := s.execOne(ctx, "UPDATE items SET "+set.String()+" WHERE user_id = ? AND id = ?", args...); err != nil {
		return err
	}
	s.changed(ctx, userID, constants.CollectionItems)
	return nil
}

func (s *Store) ArchiveItem(ctx context.Context, userID, id string) error {
	if err := s.execOne(ctx, "UPDATE items SET is_archived = ? WHERE user_id = ? AND id = ?", true, userID, id); err != nil {
		return err
	}
	s.changed(ctx, userID, constants.CollectionItems)
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, userID, id string) error {
	if err := s.execOne(ctx, "DELETE FROM items WHERE user_id = ? AND id = ?", userID, id); err != nil {
		return err
	}
	s.changed(ctx, userID, constants.CollectionItems)
	return nil
}

// ListItems returns items in storage order; callers sort by creation time.
func (s *Store) ListItems(ctx context.Context, userID string, includeArchived bool) ([]models.Item, error) {
	query := "SELECT " + itemColumns + " FROM items WHERE user_id = ?"
	args := []any{userID}
	if !includeArchived {
		query += " AND is_archived = ?"
		args = append(args, false)
	}
	query += " ORDER BY seq"

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
