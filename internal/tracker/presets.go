package tracker

import (
	"context"
	"fmt"
	"sort"

	"github.com/julianstephens/routinelog/internal/constants"
	apperrors "github.com/julianstephens/routinelog/internal/errors"
	"github.com/julianstephens/routinelog/internal/logger"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/validation"
)

func (c *Client) AddPreset(ctx context.Context, userID, name string, itemIDs []string) (string, error) {
	name, err := validation.Name(name)
	if err != nil {
		return "", err
	}
	if itemIDs == nil {
		itemIDs = []string{}
	}
	id, err := c.store.AddPreset(ctx, userID, models.Preset{Name: name, ItemIDs: itemIDs})
	if err != nil {
		return "", apperrors.WriteFailed("addPreset", err)
	}
	return id, nil
}

func (c *Client) UpdatePreset(ctx context.Context, userID, presetID string, update models.PresetUpdate) error {
	if update.Name != nil {
		name, err := validation.Name(*update.Name)
		if err != nil {
			return err
		}
		update.Name = &name
	}
	if update.IsEmpty() {
		return nil
	}
	return apperrors.WriteFailed("updatePreset", c.store.UpdatePreset(ctx, userID, presetID, update))
}

func (c *Client) DeletePreset(ctx context.Context, userID, presetID string) error {
	return apperrors.WriteFailed("deletePreset", c.store.DeletePreset(ctx, userID, presetID))
}

// GetPresets returns presets ordered by creation time.
func (c *Client) GetPresets(ctx context.Context, userID string) ([]models.Preset, error) {
	presets, err := c.store.ListPresets(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(presets, func(i, j int) bool {
		return presets[i].CreatedAt.Before(presets[j].CreatedAt)
	})
	return presets, nil
}

func (c *Client) SubscribeToPresets(ctx context.Context, userID string, callback func([]models.Preset)) *Subscription {
	return watch(ctx, c, userID, constants.CollectionPresets, func(ctx context.Context) ([]models.Preset, error) {
		return c.GetPresets(ctx, userID)
	}, callback)
}

// ApplyPreset logs every item of the preset on date at time. Items that no
// longer exist are skipped. Archived items are still logged.
func (c *Client) ApplyPreset(ctx context.Context, userID, presetID, date, time, note string) ([]string, error) {
	preset, err := c.store.GetPreset(ctx, userID, presetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preset: %w", err)
	}
	items, err := c.GetAllItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	names := make(map[string]string, len(items))
	for _, it := range items {
		names[it.ID] = it.Name
	}

	entries := make([]models.LogEntryInput, 0, len(preset.ItemIDs))
	for _, id := range preset.ItemIDs {
		name, ok := names[id]
		if !ok {
			logger.Warn("Preset references a missing item", "preset", presetID, "item", id)
			continue
		}
		entries = append(entries, models.LogEntryInput{ItemID: id, ItemNameSnapshot: name})
	}
	return c.AddMultipleLogs(ctx, userID, date, time, entries, note)
}
