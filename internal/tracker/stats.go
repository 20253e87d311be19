package tracker

import (
	"context"

	"github.com/julianstephens/routinelog/internal/calendar"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/utils"
)

// GetLogCountsByItemID counts an item's logs per date within an inclusive
// range. Only the date range goes to the store; the item filter runs here so
// the store needs no composite (date, item) index.
func (c *Client) GetLogCountsByItemID(ctx context.Context, userID, itemID, startDate, endDate string) (map[string]int, error) {
	startDate, endDate, err := normalizeRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if startDate > endDate {
		return map[string]int{}, nil
	}
	logs, err := c.store.ListLogs(ctx, userID, models.LogQuery{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}
	matching := logs[:0]
	for _, l := range logs {
		if l.ItemID == itemID {
			matching = append(matching, l)
		}
	}
	return calendar.LogCountsByDate(matching), nil
}

// GetTotalItemUsageCount is an all-time count computed by the store.
func (c *Client) GetTotalItemUsageCount(ctx context.Context, userID, itemID string) (int, error) {
	return c.store.CountLogs(ctx, userID, models.LogQuery{ItemID: itemID})
}

// GetUsageStats counts logs per item name over the last days days,
// today included.
func (c *Client) GetUsageStats(ctx context.Context, userID string, days int) (map[string]int, error) {
	start, end := utils.DaysAgoRange(c.now(), days)
	logs, err := c.GetLogsByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return calendar.UsageStats(logs), nil
}
