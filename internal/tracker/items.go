package tracker

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/routinelog/internal/constants"
	apperrors "github.com/julianstephens/routinelog/internal/errors"
	"github.com/julianstephens/routinelog/internal/logger"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/validation"
)

func sortItems(items []models.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

// AddItem creates an active item. Name, GroupID and the group snapshots are
// taken from item; everything else is assigned by the store.
func (c *Client) AddItem(ctx context.Context, userID string, item models.Item) (string, error) {
	name, err := validation.Name(item.Name)
	if err != nil {
		return "", err
	}
	id, err := c.store.AddItem(ctx, userID, models.Item{
		Name:               name,
		GroupID:            item.GroupID,
		GroupNameSnapshot:  item.GroupNameSnapshot,
		GroupColorSnapshot: item.GroupColorSnapshot,
	})
	if err != nil {
		return "", apperrors.WriteFailed("addItem", err)
	}
	return id, nil
}

// UpdateItem applies update to the item, then rewrites the snapshots of
// every log referencing it. The log writes go out in concurrent batches of
// at most constants.FanOutBatchSize; all batches are awaited and the first
// failure is returned. Batches are independent of each other and of the
// item write, so a failure can leave some logs stale.
func (c *Client) UpdateItem(ctx context.Context, userID, itemID string, update models.ItemUpdate) error {
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

	if err := c.store.UpdateItem(ctx, userID, itemID, update); err != nil {
		return apperrors.WriteFailed("updateItem", err)
	}

	logs, err := c.store.ListLogs(ctx, userID, models.LogQuery{ItemID: itemID})
	if err != nil {
		return apperrors.WriteFailed("updateItem: query logs", err)
	}

	var patches []models.LogPatch
	for _, l := range logs {
		if patch, ok := update.LogPatch(l.ID); ok {
			patches = append(patches, patch)
		}
	}
	if len(patches) == 0 {
		return nil
	}

	batches := chunkPatches(patches, constants.FanOutBatchSize)
	logger.Debug("Propagating item update to logs", "item", itemID, "logs", len(patches), "batches", len(batches))

	var g errgroup.Group
	for _, batch := range batches {
		g.Go(func() error {
			return c.store.CommitLogBatch(ctx, userID, batch)
		})
	}
	return apperrors.WriteFailed("updateItem: propagate to logs", g.Wait())
}

// chunkPatches splits patches into consecutive batches of at most size.
func chunkPatches(patches []models.LogPatch, size int) [][]models.LogPatch {
	var batches [][]models.LogPatch
	for start := 0; start < len(patches); start += size {
		end := min(start+size, len(patches))
		batches = append(batches, patches[start:end])
	}
	return batches
}

// ArchiveItem hides the item from active queries. Its logs are untouched.
func (c *Client) ArchiveItem(ctx context.Context, userID, itemID string) error {
	return apperrors.WriteFailed("archiveItem", c.store.ArchiveItem(ctx, userID, itemID))
}

func (c *Client) DeleteItem(ctx context.Context, userID, itemID string) error {
	return apperrors.WriteFailed("deleteItem", c.store.DeleteItem(ctx, userID, itemID))
}

// GetItems returns active items ordered by creation time.
func (c *Client) GetItems(ctx context.Context, userID string) ([]models.Item, error) {
	items, err := c.store.ListItems(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	sortItems(items)
	return items, nil
}

// GetItemsOnce is GetItems for first paint: a read failure is logged and
// yields an empty list.
func (c *Client) GetItemsOnce(ctx context.Context, userID string) []models.Item {
	defer logger.Timed("getItemsOnce", "user", userID)()
	items, err := c.GetItems(ctx, userID)
	if err != nil {
		logger.Error("Error fetching items", "error", err)
		return []models.Item{}
	}
	return items
}

// GetAllItems includes archived items.
func (c *Client) GetAllItems(ctx context.Context, userID string) ([]models.Item, error) {
	items, err := c.store.ListItems(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	sortItems(items)
	return items, nil
}

func (c *Client) SubscribeToItems(ctx context.Context, userID string, callback func([]models.Item)) *Subscription {
	return watch(ctx, c, userID, constants.CollectionItems, func(ctx context.Context) ([]models.Item, error) {
		return c.GetItems(ctx, userID)
	}, callback)
}

// AddDemoItems seeds the default group with a few starter items.
func (c *Client) AddDemoItems(ctx context.Context, userID string) ([]string, error) {
	groupID, err := c.EnsureDefaultGroup(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(constants.DemoItemNames))
	for _, name := range constants.DemoItemNames {
		id, err := c.AddItem(ctx, userID, models.Item{Name: name, GroupID: groupID})
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
