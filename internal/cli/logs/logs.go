package logs

import (
	"fmt"

	"github.com/julianstephens/routinelog/internal/cli"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/utils"
)

type LogCmd struct {
	Add    LogAddCmd    `cmd:"" help:"Log one or more items."`
	List   LogListCmd   `cmd:"" help:"List the logs of a day."`
	Range  LogRangeCmd  `cmd:"" help:"List logs between two dates."`
	Edit   LogEditCmd   `cmd:"" help:"Change a log's date, time or note."`
	Delete LogDeleteCmd `cmd:"" help:"Delete a log."`
}

type LogAddCmd struct {
	Items []string `arg:"" help:"Item IDs."`
	Date  string   `short:"d" help:"Date (YYYY-MM-DD), defaults to today."`
	Time  string   `short:"t" help:"Time (HH:MM or HHMM), defaults to now."`
	Note  string   `short:"n" help:"Note."`
}

func (c *LogAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	tm := c.Time
	if tm == "" {
		tm = utils.FormatTime(ctx.Clock())
	}

	all, err := ctx.Tracker.GetAllItems(ctx.Ctx, user.UID)
	if err != nil {
		return err
	}
	byID := make(map[string]models.Item, len(all))
	for _, item := range all {
		byID[item.ID] = item
	}
	for _, id := range c.Items {
		if _, ok := byID[id]; !ok {
			return fmt.Errorf("item %s not found", id)
		}
	}

	// A single item keeps its group; multi-item logs carry none.
	if len(c.Items) == 1 {
		item := byID[c.Items[0]]
		id, err := ctx.Tracker.AddLog(ctx.Ctx, user.UID, models.Log{
			Date:             date,
			Time:             tm,
			ItemID:           item.ID,
			ItemNameSnapshot: item.Name,
			GroupID:          item.GroupID,
			GroupColor:       item.GroupColorSnapshot,
			Note:             c.Note,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Logged %s (%s)\n", item.Name, id)
		return nil
	}

	entries := make([]models.LogEntryInput, 0, len(c.Items))
	for _, id := range c.Items {
		entries = append(entries, models.LogEntryInput{ItemID: id, ItemNameSnapshot: byID[id].Name})
	}
	ids, err := ctx.Tracker.AddMultipleLogs(ctx.Ctx, user.UID, date, tm, entries, c.Note)
	if err != nil {
		return err
	}
	fmt.Printf("Logged %d items\n", len(ids))
	return nil
}

// PrintLogs writes one line per log.
func PrintLogs(logs []models.Log, withDate bool) {
	for _, l := range logs {
		when := l.Time
		if withDate {
			when = l.Date + " " + l.Time
		}
		line := fmt.Sprintf("  %s %s %s", cli.Dot(l.GroupColor), when, l.ItemNameSnapshot)
		if l.Note != "" {
			line += " " + cli.MutedStyle.Render("· "+l.Note)
		}
		fmt.Printf("%s %s\n", line, cli.MutedStyle.Render(l.ID))
	}
}

type LogListCmd struct {
	Date string `short:"d" help:"Date (YYYY-MM-DD), defaults to today."`
}

func (c *LogListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	logs, err := ctx.Tracker.GetLogsByDate(ctx.Ctx, user.UID, date)
	if err != nil {
		return fmt.Errorf("failed to get logs: %w", err)
	}
	fmt.Println(cli.HeaderStyle.Render(date))
	if len(logs) == 0 {
		fmt.Println("No logs found")
		return nil
	}
	PrintLogs(logs, false)
	return nil
}

type LogRangeCmd struct {
	From string `arg:"" help:"Start date (YYYY-MM-DD)."`
	To   string `arg:"" help:"End date (YYYY-MM-DD), inclusive."`
}

func (c *LogRangeCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	from, err := utils.NormalizeDate(c.From)
	if err != nil {
		return err
	}
	to, err := utils.NormalizeDate(c.To)
	if err != nil {
		return err
	}
	logs, err := ctx.Tracker.GetLogsByDateRange(ctx.Ctx, user.UID, from, to)
	if err != nil {
		return fmt.Errorf("failed to get logs: %w", err)
	}
	if len(logs) == 0 {
		fmt.Println("No logs found")
		return nil
	}
	PrintLogs(logs, true)
	return nil
}

type LogEditCmd struct {
	ID   string  `arg:"" help:"Log ID."`
	Date *string `short:"d" help:"New date (YYYY-MM-DD)."`
	Time *string `short:"t" help:"New time (HH:MM)."`
	Note *string `short:"n" help:"New note (empty clears it)."`
}

func (c *LogEditCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	update := models.LogUpdate{Date: c.Date, Time: c.Time, Note: c.Note}
	if update.IsEmpty() {
		return fmt.Errorf("nothing to update: pass --date, --time or --note")
	}
	if err := ctx.Tracker.UpdateLog(ctx.Ctx, user.UID, c.ID, update); err != nil {
		return err
	}
	fmt.Println("Log updated")
	return nil
}

type LogDeleteCmd struct {
	ID string `arg:"" help:"Log ID."`
}

func (c *LogDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	if err := ctx.Tracker.DeleteLog(ctx.Ctx, user.UID, c.ID); err != nil {
		return err
	}
	fmt.Println("Log deleted")
	return nil
}
