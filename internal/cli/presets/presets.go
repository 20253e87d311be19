package presets

import (
	"fmt"
	"strings"

	"github.com/julianstephens/routinelog/internal/cli"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/utils"
)

type PresetCmd struct {
	Add    PresetAddCmd    `cmd:"" help:"Save a named set of items."`
	List   PresetListCmd   `cmd:"" help:"List presets."`
	Edit   PresetEditCmd   `cmd:"" help:"Rename a preset or replace its items."`
	Delete PresetDeleteCmd `cmd:"" help:"Delete a preset."`
	Apply  PresetApplyCmd  `cmd:"" help:"Log every item of a preset."`
}

type PresetAddCmd struct {
	Name  string   `arg:"" help:"Preset name."`
	Items []string `short:"i" help:"Item IDs (comma separated or repeated)." sep:","`
}

func (c *PresetAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	id, err := ctx.Tracker.AddPreset(ctx.Ctx, user.UID, c.Name, c.Items)
	if err != nil {
		return err
	}
	fmt.Printf("Added preset %s (%s)\n", c.Name, id)
	return nil
}

type PresetListCmd struct{}

func (c *PresetListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	presets, err := ctx.Tracker.GetPresets(ctx.Ctx, user.UID)
	if err != nil {
		return fmt.Errorf("failed to get presets: %w", err)
	}
	if len(presets) == 0 {
		fmt.Println("No presets found")
		return nil
	}

	names := make(map[string]string)
	for _, item := range ctx.Tracker.GetItemsOnce(ctx.Ctx, user.UID) {
		names[item.ID] = item.Name
	}
	for _, p := range presets {
		labels := make([]string, 0, len(p.ItemIDs))
		for _, id := range p.ItemIDs {
			if name, ok := names[id]; ok {
				labels = append(labels, name)
			} else {
				labels = append(labels, cli.MutedStyle.Render(id))
			}
		}
		fmt.Printf("  %s: %s %s\n", p.Name, strings.Join(labels, ", "), cli.MutedStyle.Render(p.ID))
	}
	return nil
}

type PresetEditCmd struct {
	ID    string   `arg:"" help:"Preset ID."`
	Name  *string  `short:"n" help:"New name."`
	Items []string `short:"i" help:"Replacement item IDs." sep:","`
}

func (c *PresetEditCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	update := models.PresetUpdate{Name: c.Name, ItemIDs: c.Items}
	if update.IsEmpty() {
		return fmt.Errorf("nothing to update: pass --name or --items")
	}
	if err := ctx.Tracker.UpdatePreset(ctx.Ctx, user.UID, c.ID, update); err != nil {
		return err
	}
	fmt.Println("Preset updated")
	return nil
}

type PresetDeleteCmd struct {
	ID string `arg:"" help:"Preset ID."`
}

func (c *PresetDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	if err := ctx.Tracker.DeletePreset(ctx.Ctx, user.UID, c.ID); err != nil {
		return err
	}
	fmt.Println("Preset deleted")
	return nil
}

type PresetApplyCmd struct {
	ID   string `arg:"" help:"Preset ID."`
	Date string `short:"d" help:"Date (YYYY-MM-DD), defaults to today."`
	Time string `short:"t" help:"Time (HH:MM), defaults to now."`
	Note string `short:"n" help:"Note for every log."`
}

func (c *PresetApplyCmd) Run(ctx *cli.Context) error {
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
	ids, err := ctx.Tracker.ApplyPreset(ctx.Ctx, user.UID, c.ID, date, tm, c.Note)
	if err != nil {
		return err
	}
	fmt.Printf("Logged %d items on %s\n", len(ids), date)
	return nil
}
