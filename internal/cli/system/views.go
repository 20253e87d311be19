package system

import (
	"fmt"

	"github.com/julianstephens/routinelog/internal/calendar"
	"github.com/julianstephens/routinelog/internal/cli"
)

type CalendarCmd struct {
	Month string `short:"m" help:"Month (YYYY-MM), defaults to the current month."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	year, month, err := ctx.ResolveMonth(c.Month)
	if err != nil {
		return err
	}
	start, end := calendar.MonthDateRange(year, month)
	logs, err := ctx.Tracker.GetLogsByDateRange(ctx.Ctx, user.UID, start, end)
	if err != nil {
		return fmt.Errorf("failed to get logs: %w", err)
	}
	fmt.Print(cli.RenderMonth(year, month, calendar.MonthGrid(year, month), calendar.Badges(logs), ctx.Today()))
	return nil
}

type StatsCmd struct {
	Days int `short:"n" help:"Number of days, today included." default:"7"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	stats, err := ctx.Tracker.GetUsageStats(ctx.Ctx, user.UID, c.Days)
	if err != nil {
		return err
	}
	ranked := calendar.RankUsage(stats)
	fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("Last %d days", c.Days)))
	if len(ranked) == 0 {
		fmt.Println("No activity")
		return nil
	}
	for _, r := range ranked {
		fmt.Printf("  %4d  %s\n", r.Count, r.Name)
	}
	return nil
}
