package account

import (
	"fmt"

	"github.com/julianstephens/routinelog/internal/cli"
)

type RegisterCmd struct {
	Username string `arg:"" help:"Username (3-32 letters, digits, '.', '_' or '-')."`
	Password string `help:"Password (prompted when omitted)." env:"ROUTINELOG_PASSWORD"`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	if err := ctx.Connect(); err != nil {
		return err
	}
	secret, err := ctx.Secret(c.Password, "Choose a password")
	if err != nil {
		return err
	}
	user, err := ctx.Auth.Register(ctx.Ctx, c.Username, secret)
	if err != nil {
		return cli.AuthFailure(err)
	}
	if _, err := ctx.Tracker.EnsureDefaultGroup(ctx.Ctx, user.UID); err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Registered and logged in as %s", user.Username)))
	return nil
}

type LoginCmd struct {
	Username string `arg:"" help:"Username."`
	Password string `help:"Password (prompted when omitted)." env:"ROUTINELOG_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if err := ctx.Connect(); err != nil {
		return err
	}
	secret, err := ctx.Secret(c.Password, "Password")
	if err != nil {
		return err
	}
	user, err := ctx.Auth.Login(ctx.Ctx, c.Username, secret)
	if err != nil {
		return cli.AuthFailure(err)
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Logged in as %s", user.Username)))
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Auth.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Println("Logged out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", user.Username, user.UID)
	return nil
}

type AccountCmd struct {
	Delete DeleteCmd `cmd:"" help:"Delete your account and all of its data."`
}

type DeleteCmd struct {
	Username string `arg:"" help:"Username of the account to delete."`
	Password string `help:"Password (prompted when omitted)." env:"ROUTINELOG_PASSWORD"`
	Yes      bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Connect(); err != nil {
		return err
	}
	ok, err := ctx.Confirm(fmt.Sprintf("Delete %s and every log, item and friendship?", c.Username), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled")
		return nil
	}
	secret, err := ctx.Secret(c.Password, "Password")
	if err != nil {
		return err
	}
	if err := ctx.Auth.DeleteAccount(ctx.Ctx, c.Username, secret); err != nil {
		return cli.AuthFailure(err)
	}
	fmt.Println("Account deleted")
	return nil
}
