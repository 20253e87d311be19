package items

import (
	"fmt"

	"github.com/julianstephens/routinelog/internal/calendar"
	"github.com/julianstephens/routinelog/internal/cli"
	"github.com/julianstephens/routinelog/internal/models"
)

type ItemCmd struct {
	Add      ItemAddCmd      `cmd:"" help:"Add an item."`
	List     ItemListCmd     `cmd:"" help:"List items."`
	Edit     ItemEditCmd     `cmd:"" help:"Rename or regroup an item; its logs follow."`
	Archive  ItemArchiveCmd  `cmd:"" help:"Archive an item (logs are kept)."`
	Delete   ItemDeleteCmd   `cmd:"" help:"Delete an item."`
	Demo     ItemDemoCmd     `cmd:"" help:"Add the demo items to the default group."`
	Calendar ItemCalendarCmd `cmd:"" help:"Show an item's monthly calendar."`
	Usage    ItemUsageCmd    `cmd:"" help:"Show how often an item was logged."`
}

// groupSnapshot finds groupID among the user's groups. An empty id means
// the default group.
func groupSnapshot(ctx *cli.Context, uid, groupID string) (models.Group, error) {
	if groupID == "" {
		id, err := ctx.Tracker.EnsureDefaultGroup(ctx.Ctx, uid)
		if err != nil {
			return models.Group{}, err
		}
		groupID = id
	}
	groups, err := ctx.Tracker.GetGroups(ctx.Ctx, uid)
	if err != nil {
		return models.Group{}, err
	}
	for _, g := range groups {
		if g.ID == groupID {
			return g, nil
		}
	}
	return models.Group{}, fmt.Errorf("group %s not found", groupID)
}

type ItemAddCmd struct {
	Name  string `arg:"" help:"Item name."`
	Group string `short:"g" help:"Group ID (defaults to the default group)."`
}

func (c *ItemAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	group, err := groupSnapshot(ctx, user.UID, c.Group)
	if err != nil {
		return err
	}
	id, err := ctx.Tracker.AddItem(ctx.Ctx, user.UID, models.Item{
		Name:               c.Name,
		GroupID:            group.ID,
		GroupNameSnapshot:  group.Name,
		GroupColorSnapshot: group.Color,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added item %s %s (%s)\n", cli.Dot(group.Color), c.Name, id)
	return nil
}

type ItemListCmd struct {
	Archived bool `help:"Include archived items."`
}

func (c *ItemListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}

	var items []models.Item
	if c.Archived {
		items, err = ctx.Tracker.GetAllItems(ctx.Ctx, user.UID)
	} else {
		items, err = ctx.Tracker.GetItems(ctx.Ctx, user.UID)
	}
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	if len(items) == 0 {
		fmt.Println("No items found")
		return nil
	}
	for _, item := range items {
		status := ""
		if item.IsArchived {
			status = " [ARCHIVED]"
		}
		fmt.Printf("  %s %s%s %s %s\n", cli.Dot(item.GroupColorSnapshot), item.Name, status,
			cli.MutedStyle.Render(item.GroupNameSnapshot), cli.MutedStyle.Render(item.ID))
	}
	return nil
}

type ItemEditCmd struct {
	ID    string  `arg:"" help:"Item ID."`
	Name  *string `short:"n" help:"New name."`
	Group *string `short:"g" help:"New group ID."`
}

func (c *ItemEditCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}

	update := models.ItemUpdate{Name: c.Name}
	if c.Group != nil {
		group, err := groupSnapshot(ctx, user.UID, *c.Group)
		if err != nil {
			return err
		}
		update.GroupID = &group.ID
		update.GroupNameSnapshot = &group.Name
		update.GroupColorSnapshot = &group.Color
	}
	if update.IsEmpty() {
		return fmt.Errorf("nothing to update: pass --name or --group")
	}
	if err := ctx.Tracker.UpdateItem(ctx.Ctx, user.UID, c.ID, update); err != nil {
		return err
	}
	fmt.Println("Item updated")
	return nil
}

type ItemArchiveCmd struct {
	ID string `arg:"" help:"Item ID."`
}

func (c *ItemArchiveCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	if err := ctx.Tracker.ArchiveItem(ctx.Ctx, user.UID, c.ID); err != nil {
		return err
	}
	fmt.Println("Item archived")
	return nil
}

type ItemDeleteCmd struct {
	ID  string `arg:"" help:"Item ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ItemDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	ok, err := ctx.Confirm("Delete this item? Existing logs keep its name.", c.Yes)
	if err != nil || !ok {
		return err
	}
	if err := ctx.Tracker.DeleteItem(ctx.Ctx, user.UID, c.ID); err != nil {
		return err
	}
	fmt.Println("Item deleted")
	return nil
}

type ItemDemoCmd struct{}

func (c *ItemDemoCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	ids, err := ctx.Tracker.AddDemoItems(ctx.Ctx, user.UID)
	if err != nil {
		return err
	}
	fmt.Printf("Added %d demo items\n", len(ids))
	return nil
}

type ItemCalendarCmd struct {
	ID    string `arg:"" help:"Item ID."`
	Month string `short:"m" help:"Month (YYYY-MM), defaults to the current month."`
}

func (c *ItemCalendarCmd) Run(ctx *cli.Context) error {
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
	counts, err := ctx.Tracker.GetLogCountsByItemID(ctx.Ctx, user.UID, c.ID, start, end)
	if err != nil {
		return err
	}

	badges := make(map[string]calendar.Badge, len(counts))
	for date, n := range counts {
		badges[date] = calendar.Badge{Kind: calendar.BadgeCount, Count: n}
	}
	fmt.Print(cli.RenderMonth(year, month, calendar.MonthGrid(year, month), badges, ctx.Today()))
	return nil
}

type ItemUsageCmd struct {
	ID string `arg:"" help:"Item ID."`
}

func (c *ItemUsageCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	n, err := ctx.Tracker.GetTotalItemUsageCount(ctx.Ctx, user.UID, c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Logged %d times\n", n)
	return nil
}
