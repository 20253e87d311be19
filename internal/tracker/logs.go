package tracker

import (
	"context"

	"github.com/julianstephens/routinelog/internal/constants"
	apperrors "github.com/julianstephens/routinelog/internal/errors"
	"github.com/julianstephens/routinelog/internal/logger"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/utils"
)

// AddLog records that log.ItemID was done on log.Date at log.Time. The
// time may be given as HH:MM or as four digits ("0930").
func (c *Client) AddLog(ctx context.Context, userID string, log models.Log) (string, error) {
	date, err := utils.NormalizeDate(log.Date)
	if err != nil {
		return "", err
	}
	tm, err := utils.NormalizeTime(log.Time)
	if err != nil {
		return "", err
	}

	id, err := c.store.AddLog(ctx, userID, models.Log{
		Date:             date,
		Time:             tm,
		ItemID:           log.ItemID,
		ItemNameSnapshot: log.ItemNameSnapshot,
		GroupID:          log.GroupID,
		GroupColor:       log.GroupColor,
		Note:             log.Note,
	})
	if err != nil {
		return "", apperrors.WriteFailed("addLog", err)
	}
	return id, nil
}

// AddMultipleLogs logs several items at once, one write per entry. The
// entries carry no group, so these logs have no group id or colour.
func (c *Client) AddMultipleLogs(ctx context.Context, userID, date, time string, entries []models.LogEntryInput, note string) ([]string, error) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		id, err := c.AddLog(ctx, userID, models.Log{
			Date:             date,
			Time:             time,
			ItemID:           e.ItemID,
			ItemNameSnapshot: e.ItemNameSnapshot,
			Note:             note,
		})
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// UpdateLog changes date, time or note and bumps updatedAt.
func (c *Client) UpdateLog(ctx context.Context, userID, logID string, update models.LogUpdate) error {
	if update.Date != nil {
		date, err := utils.NormalizeDate(*update.Date)
		if err != nil {
			return err
		}
		update.Date = &date
	}
	if update.Time != nil {
		tm, err := utils.NormalizeTime(*update.Time)
		if err != nil {
			return err
		}
		update.Time = &tm
	}
	if update.IsEmpty() {
		return nil
	}
	return apperrors.WriteFailed("updateLog", c.store.UpdateLog(ctx, userID, logID, update))
}

func (c *Client) DeleteLog(ctx context.Context, userID, logID string) error {
	return apperrors.WriteFailed("deleteLog", c.store.DeleteLog(ctx, userID, logID))
}

// GetLogsByDate returns the logs of one day ordered by time.
func (c *Client) GetLogsByDate(ctx context.Context, userID, date string) ([]models.Log, error) {
	date, err := utils.NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	logs, err := c.store.ListLogs(ctx, userID, models.LogQuery{Date: date})
	if err != nil {
		return nil, err
	}
	utils.SortLogsByTime(logs)
	return logs, nil
}

// GetLogsByDateOnce is GetLogsByDate for first paint: a read failure is
// logged and yields an empty list.
func (c *Client) GetLogsByDateOnce(ctx context.Context, userID, date string) []models.Log {
	defer logger.Timed("getLogsByDateOnce", "date", date)()
	logs, err := c.GetLogsByDate(ctx, userID, date)
	if err != nil {
		logger.Error("Error fetching logs", "date", date, "error", err)
		return []models.Log{}
	}
	return logs
}

func (c *Client) SubscribeToLogsByDate(ctx context.Context, userID, date string, callback func([]models.Log)) *Subscription {
	return watch(ctx, c, userID, constants.CollectionLogs, func(ctx context.Context) ([]models.Log, error) {
		return c.GetLogsByDate(ctx, userID, date)
	}, callback)
}

// GetLogsByDateRange returns logs with startDate <= date <= endDate ordered
// by date, then time.
func (c *Client) GetLogsByDateRange(ctx context.Context, userID, startDate, endDate string) ([]models.Log, error) {
	startDate, endDate, err := normalizeRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if startDate > endDate {
		return []models.Log{}, nil
	}
	logs, err := c.store.ListLogs(ctx, userID, models.LogQuery{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}
	utils.SortLogsByDateTime(logs)
	return logs, nil
}

func (c *Client) SubscribeToLogsByDateRange(ctx context.Context, userID, startDate, endDate string, callback func([]models.Log)) *Subscription {
	return watch(ctx, c, userID, constants.CollectionLogs, func(ctx context.Context) ([]models.Log, error) {
		return c.GetLogsByDateRange(ctx, userID, startDate, endDate)
	}, callback)
}

// normalizeRange validates both bounds. An empty bound would drop the
// filter in the store, so it is rejected like any other bad date.
func normalizeRange(startDate, endDate string) (string, string, error) {
	start, err := utils.NormalizeDate(startDate)
	if err != nil {
		return "", "", err
	}
	end, err := utils.NormalizeDate(endDate)
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}
