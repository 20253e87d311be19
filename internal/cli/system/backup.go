package system

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/routinelog/internal/backup"
	"github.com/julianstephens/routinelog/internal/cli"
	"github.com/julianstephens/routinelog/internal/storage/sqlite"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" default:"1" help:"Snapshot the SQLite database."`
	List    BackupListCmd    `cmd:"" help:"List snapshots, newest first."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the database with a snapshot."`
}

func backupManager(ctx *cli.Context) (*backup.Manager, error) {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil, fmt.Errorf("backups are only supported for SQLite storage")
	}
	return backup.NewManager(store.GetConfigPath(), ctx.Now), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	path, err := mgr.Create(ctx.Ctx)
	if err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render("✓ Backup created: " + path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Println("No backups in " + mgr.Dir())
		return nil
	}
	fmt.Println(cli.HeaderStyle.Render("Backups in " + mgr.Dir()))
	for _, b := range backups {
		fmt.Printf("  %s  %s  %s\n",
			b.Name(),
			cli.MutedStyle.Render(b.Timestamp.Format("2006-01-02 15:04")),
			humanize.Bytes(uint64(b.Size)))
	}
	return nil
}

type BackupRestoreCmd struct {
	Name string `arg:"" help:"Snapshot name from 'backup list' or a path to a database file."`
	Yes  bool   `short:"y" help:"Skip confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	ok, err := ctx.Confirm(fmt.Sprintf("Replace the current database with %s?", c.Name), c.Yes)
	if err != nil || !ok {
		return err
	}

	// release the file before it is replaced
	if err := ctx.Tracker.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}

	previous, err := mgr.Restore(ctx.Ctx, mgr.Resolve(c.Name))
	if err != nil {
		return err
	}
	if previous != "" {
		fmt.Println(cli.MutedStyle.Render("Previous database saved as " + previous))
	}
	if err := ctx.Connect(); err != nil {
		return fmt.Errorf("restored database failed to open: %w", err)
	}
	fmt.Println(cli.SuccessStyle.Render("✓ Database restored from " + c.Name))
	return nil
}
