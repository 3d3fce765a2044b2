package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/trackit/internal/cli"
	"github.com/julianstephens/trackit/internal/cli/backups"
	"github.com/julianstephens/trackit/internal/cli/categories"
	"github.com/julianstephens/trackit/internal/cli/settings"
	"github.com/julianstephens/trackit/internal/cli/system"
	"github.com/julianstephens/trackit/internal/cli/trackers"
	"github.com/julianstephens/trackit/internal/cli/views"
	"github.com/julianstephens/trackit/internal/config"
	"github.com/julianstephens/trackit/internal/constants"
	"github.com/julianstephens/trackit/internal/errors"
	"github.com/julianstephens/trackit/internal/logger"
)

var CLI struct {
	Version    kong.VersionFlag
	DB         string `name:"db" help:"SQLite database path or PostgreSQL connection string. Overrides config.yaml. For PostgreSQL, keep the password in ~/.pgpass, PGPASSWORD, TRACKIT_DB_CONNECTION or the OS keyring."`
	ConfigFile string `name:"config" help:"Path to config.yaml." type:"path"`
	Debug      bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd         `cmd:"" help:"Initialize trackit storage."`
	Migrate  system.MigrateCmd      `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd          `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Tracker  trackers.TrackerCmd    `cmd:"" help:"Manage habits and irregular events."`
	Mark     trackers.MarkCmd       `cmd:"" help:"Mark or unmark a tracker as done for a day."`
	Category categories.CategoryCmd `cmd:"" help:"Manage categories."`
	Day      views.DayCmd           `cmd:"" help:"Show the trackers for a day."`
	Stats    views.StatsCmd         `cmd:"" help:"Show completion statistics."`
	Backup   backups.BackupCmd      `cmd:"" help:"Manage database backups."`
	Settings settings.SettingsCmd   `cmd:"" help:"Manage application settings."`
	Keyring  system.KeyringCmd      `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Remind   system.RemindCmd       `cmd:"" help:"Send a reminder for today's open trackers."`
}

// commands that open the store themselves or do not need it
var skipLoad = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit and event tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configPath := CLI.ConfigFile
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			errors.Fatal(err)
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		errors.Fatal(err)
	}

	logCfg := logger.Config{
		Debug:      CLI.Debug || cfg.Log.Debug,
		LogDir:     cfg.Log.Dir,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}
	if err := logger.Init(logCfg); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := cli.OpenStore(cfg, CLI.DB)
	if err != nil {
		errors.Fatal(err)
	}

	base, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := cli.NewContext(base, store, cfg)
	defer appCtx.Close()

	command := strings.Fields(kctx.Command())[0]
	if !skipLoad[command] {
		if err := store.Load(base); err != nil {
			errors.Fatal(err)
		}
		if _, err := appCtx.ApplySettings(); err != nil {
			errors.Fatal(err)
		}
	}

	logger.Debug("Running command", "command", kctx.Command(), "storage", store.GetConfigPath())
	if err := kctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
}
