package system

import (
	"fmt"

	"github.com/julianstephens/routinelog/internal/cli"
	"github.com/julianstephens/routinelog/internal/storage"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return fmt.Errorf("storage does not support migrations")
	}
	count, err := m.Migrate(ctx.Ctx, func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
		return nil
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Applied %d migration(s)", count)))
	return nil
}
