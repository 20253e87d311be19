package sqlstore

import (
	"context"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
)

const groupColumns = "id, name, color, created_at"

func (s *Store) AddGroup(ctx context.Context, userID string, group models.Group) (string, error) {
	id := newID()
	_, err := s.exec(ctx, `
		INSERT INTO item_groups (id, user_id, name, color)
		VALUES (?, ?, ?, ?)`,
		id, userID, group.Name, group.Color)
	if err != nil {
		return "", err
	}
	s.changed(ctx, userID, constants.CollectionGroups)
	return id, nil
}

func (s *Store) UpdateGroup(ctx context.Context, userID, id string, update models.GroupUpdate) error {
	var set setClause
	if update.Name != nil {
		set.add("name", *update.Name)
	}
	if update.Color != nil {
		set.add("color", *update.Color)
	}
	if set.empty() {
		return nil
	}

	args := append(set.args, userID, id)
	if err := s.execOne(ctx, "UPDATE item_groups SET "+set.String()+" WHERE user_id = ? AND id = ?", args...); err != nil {
		return err
	}
	s.changed(ctx, userID, constants.CollectionGroups)
	return nil
}

func (s *Store) DeleteGroup(ctx context.Context, userID, id string) error {
	if err := s.execOne(ctx, "DELETE FROM item_groups WHERE user_id = ? AND id = ?", userID, id); err != nil {
		return err
	}
	s.changed(ctx, userID, constants.CollectionGroups)
	return nil
}

func (s *Store) ListGroups(ctx context.Context, userID string) ([]models.Group, error) {
	return s.listGroups(ctx, "SELECT "+groupColumns+" FROM item_groups WHERE user_id = ? ORDER BY created_at, seq", userID)
}

func (s *Store) FindGroupsByName(ctx context.Context, userID, name string) ([]models.Group, error) {
	return s.listGroups(ctx, "SELECT "+groupColumns+" FROM item_groups WHERE user_id = ? AND name = ? ORDER BY created_at, seq", userID, name)
}

func (s *Store) listGroups(ctx context.Context, query string, args ...any) ([]models.Group, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Color, scanTime(&g.CreatedAt)); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
