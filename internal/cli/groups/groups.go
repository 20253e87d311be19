package groups

import (
	"fmt"

	"github.com/julianstephens/routinelog/internal/cli"
	"github.com/julianstephens/routinelog/internal/constants"
	"github.com/julianstephens/routinelog/internal/models"
)

type GroupCmd struct {
	Add           GroupAddCmd           `cmd:"" help:"Add a group."`
	List          GroupListCmd          `cmd:"" help:"List groups."`
	Edit          GroupEditCmd          `cmd:"" help:"Rename or recolour a group."`
	Delete        GroupDeleteCmd        `cmd:"" help:"Delete a group."`
	EnsureDefault GroupEnsureDefaultCmd `cmd:"" name:"ensure-default" help:"Create the default group if you have none."`
}

type GroupAddCmd struct {
	Name  string `arg:"" help:"Group name."`
	Color string `short:"c" help:"Hex colour."`
}

func (c *GroupAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	color := c.Color
	if color == "" {
		color = constants.DefaultGroupColor
	}
	id, err := ctx.Tracker.AddGroup(ctx.Ctx, user.UID, c.Name, color)
	if err != nil {
		return err
	}
	fmt.Printf("Added group %s %s (%s)\n", cli.Dot(color), c.Name, id)
	return nil
}

type GroupListCmd struct{}

func (c *GroupListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	groups, err := ctx.Tracker.GetGroups(ctx.Ctx, user.UID)
	if err != nil {
		return fmt.Errorf("failed to get groups: %w", err)
	}
	if len(groups) == 0 {
		fmt.Println("No groups found")
		return nil
	}
	PrintGroups(groups)
	return nil
}

// PrintGroups lists groups oldest first.
func PrintGroups(groups []models.Group) {
	for _, g := range groups {
		fmt.Printf("  %s %s %s\n", cli.Dot(g.Color), g.Name, cli.MutedStyle.Render(g.ID))
	}
}

type GroupEditCmd struct {
	ID    string  `arg:"" help:"Group ID."`
	Name  *string `short:"n" help:"New name."`
	Color *string `short:"c" help:"New hex colour."`
}

func (c *GroupEditCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	update := models.GroupUpdate{Name: c.Name, Color: c.Color}
	if update.IsEmpty() {
		return fmt.Errorf("nothing to update: pass --name or --color")
	}
	if err := ctx.Tracker.UpdateGroup(ctx.Ctx, user.UID, c.ID, update); err != nil {
		return err
	}
	fmt.Println("Group updated")
	return nil
}

type GroupDeleteCmd struct {
	ID  string `arg:"" help:"Group ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *GroupDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	ok, err := ctx.Confirm("Delete this group? Its items keep their group snapshot.", c.Yes)
	if err != nil || !ok {
		return err
	}
	if err := ctx.Tracker.DeleteGroup(ctx.Ctx, user.UID, c.ID); err != nil {
		return err
	}
	fmt.Println("Group deleted")
	return nil
}

type GroupEnsureDefaultCmd struct{}

func (c *GroupEnsureDefaultCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	id, err := ctx.Tracker.EnsureDefaultGroup(ctx.Ctx, user.UID)
	if err != nil {
		return err
	}
	fmt.Printf("Default group: %s\n", id)
	return nil
}
