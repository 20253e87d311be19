package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
)

const presetColumns = "id, name, item_ids, created_at"

func encodeItemIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode item ids: %w", err)
	}
	return string(b), nil
}

func scanPreset(row rowScanner) (models.Preset, error) {
	var p models.Preset
	var raw string
	if err := row.Scan(&p.ID, &p.Name, &raw, scanTime(&p.CreatedAt)); err != nil {
		return models.Preset{}, err
	}
	p.ItemIDs = []string{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.ItemIDs); err != nil {
			return models.Preset{}, fmt.Errorf("failed to decode item ids of preset %s: %w", p.ID, err)
		}
	}
	return p, nil
}

func (s *Store) AddPreset(ctx context.Context, userID string, preset models.Preset) (string, error) {
	ids, err := encodeItemIDs(preset.ItemIDs)
	if err != nil {
		return "", err
	}
	id := newID()
	if _, err := s.exec(ctx, "INSERT INTO presets (id, user_id, name, item_ids) VALUES (?, ?, ?, ?)", id, userID, preset.Name, ids); err != nil {
		return "", err
	}
	s.changed(ctx, userID, constants.CollectionPresets)
	return id, nil
}

func (s *Store) GetPreset(ctx context.Context, userID, id string) (models.Preset, error) {
	p, err := scanPreset(s.queryRow(ctx, "SELECT "+presetColumns+" FROM presets WHERE user_id = ? AND id = ?", userID, id))
	return p, notFound(err)
}

func (s *Store) UpdatePreset(ctx context.Context, userID, id string, update models.PresetUpdate) error {
	var set setClause
	if update.Name != nil {
		set.add("name", *update.Name)
	}
	if update.ItemIDs != nil {
		ids, err := encodeItemIDs(update.ItemIDs)
		if err != nil {
			return err
		}
		set.add("item_ids", ids)
	}
	if set.empty() {
		return nil
	}

	args := append(set.args, userID, id)
	if err := s.execOne(ctx, "UPDATE presets SET "+set.String()+" WHERE user_id = ? AND id = ?", args...); err != nil {
		return err
	}
	s.changed(ctx, userID, constants.CollectionPresets)
	return nil
}

func (s *Store) DeletePreset(ctx context.Context, userID, id string) error {
	if err := s.execOne(ctx, "DELETE FROM presets WHERE user_id = ? AND id = ?", userID, id); err != nil {
		return err
	}
	s.changed(ctx, userID, constants.CollectionPresets)
	return nil
}

func (s *Store) ListPresets(ctx context.Context, userID string) ([]models.Preset, error) {
	rows, err := s.query(ctx, "SELECT "+presetColumns+" FROM presets WHERE user_id = ? ORDER BY seq", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presets := []models.Preset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}
