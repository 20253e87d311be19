package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/routinelog/internal/auth"
	"github.com/julianstephens/routinelog/internal/cli"
	"github.com/julianstephens/routinelog/internal/cli/account"
	"github.com/julianstephens/routinelog/internal/cli/friends"
	"github.com/julianstephens/routinelog/internal/cli/groups"
	"github.com/julianstephens/routinelog/internal/cli/items"
	"github.com/julianstephens/routinelog/internal/cli/logs"
	"github.com/julianstephens/routinelog/internal/cli/presets"
	"github.com/julianstephens/routinelog/internal/cli/system"
	"github.com/julianstephens/routinelog/internal/config"
	"github.com/julianstephens/routinelog/internal/constants"
	apperrors "github.com/julianstephens/routinelog/internal/errors"
	"github.com/julianstephens/routinelog/internal/keyring"
	"github.com/julianstephens/routinelog/internal/logger"
	"github.com/julianstephens/routinelog/internal/tracker"
)

var CLI struct {
	Version       kong.VersionFlag
	DB            string `name:"db" help:"SQLite file path or PostgreSQL connection string. PostgreSQL passwords must NOT be embedded; use ~/.pgpass or 'routinelog keyring set'." env:"ROUTINELOG_DB"`
	Debug         bool   `help:"Log debug output to stderr." env:"ROUTINELOG_DEBUG"`
	ConfigDir     string `help:"Directory for the default database and logs." default:"${config_dir}" env:"ROUTINELOG_CONFIG_DIR"`
	SessionSecret string `help:"Key used to sign session tokens." env:"ROUTINELOG_SESSION_SECRET"`
	Timezone      string `name:"tz" help:"IANA timezone used for today's date, e.g. Europe/Istanbul." env:"ROUTINELOG_TZ"`
	EnvFile       string `name:"env-file" help:"Load variables from this .env file." default:".env"`

	Init     system.InitCmd      `cmd:"" help:"Initialize routinelog storage."`
	Doctor   system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Migrate  system.MigrateCmd   `cmd:"" help:"Apply pending schema migrations."`
	Keyring  system.KeyringCmd   `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Backup   system.BackupCmd    `cmd:"" help:"Snapshot or restore the SQLite database."`
	Register account.RegisterCmd `cmd:"" help:"Create an account and log in."`
	Login    account.LoginCmd    `cmd:"" help:"Log in."`
	Logout   account.LogoutCmd   `cmd:"" help:"Log out."`
	Whoami   account.WhoamiCmd   `cmd:"" help:"Show the logged-in user."`
	Account  account.AccountCmd  `cmd:"" help:"Manage your account."`
	Group    groups.GroupCmd     `cmd:"" help:"Manage groups."`
	Item     items.ItemCmd       `cmd:"" help:"Manage items."`
	Log      logs.LogCmd         `cmd:"" help:"Manage logs."`
	Preset   presets.PresetCmd   `cmd:"" help:"Manage presets."`
	Friend   friends.FriendCmd   `cmd:"" help:"Manage friends and sharing."`
	Calendar system.CalendarCmd  `cmd:"" help:"Show this month's calendar."`
	Stats    system.StatsCmd     `cmd:"" help:"Show usage statistics."`
	Watch    system.WatchCmd     `cmd:"" help:"Stream live snapshots of a collection."`
	Tui      system.TuiCmd       `cmd:"" help:"Launch the interactive calendar." default:"1"`
}

// envFileFromArgs finds --env-file before kong parses, so the file can feed
// the env tags of the other flags.
func envFileFromArgs(args []string) string {
	for i, a := range args {
		if a == "--env-file" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(a, "--env-file="); ok {
			return v
		}
	}
	return ".env"
}

func main() {
	if err := config.LoadEnv(envFileFromArgs(os.Args[1:])); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}

	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal routine tracker: log activities, browse your calendar and share it with friends"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":    constants.Version,
			"config_dir": constants.DefaultConfigDir,
		},
	)

	cfg := config.Config{
		DB:            CLI.DB,
		Debug:         CLI.Debug,
		SessionSecret: CLI.SessionSecret,
		ConfigDir:     CLI.ConfigDir,
		Timezone:      CLI.Timezone,
	}
	clock, err := cfg.Clock()
	if err != nil {
		apperrors.Fatal(err)
	}
	configDir, err := cfg.ResolveConfigDir()
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := cfg.OpenProvider()
	if err != nil {
		apperrors.Fatal(err)
	}

	var tokens auth.TokenStore = keyring.SessionStore{}
	if !keyring.IsAvailable() {
		logger.Warn("OS keyring unavailable, session will not persist")
		tokens = &auth.MemoryTokens{}
	}

	secret, err := cfg.ResolveSessionSecret()
	if err != nil {
		logger.Warn("No session secret, sign-in disabled", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := tracker.New(store, tracker.WithClock(clock))
	appCtx := &cli.Context{
		Ctx:         ctx,
		Store:       store,
		Tracker:     client,
		Auth:        auth.NewService(store, client, tokens, secret),
		Now:         clock,
		Interactive: isatty.IsTerminal(os.Stdin.Fd()),
	}

	err = kctx.Run(appCtx)
	if closeErr := client.Close(); closeErr != nil {
		logger.Warn("Failed to close client", "error", closeErr)
	}
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	if err != nil {
		stop()
		apperrors.Fatal(err)
	}
}
