package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/habita/habita/internal/cli"
	"github.com/habita/habita/internal/constants"
	"github.com/habita/habita/internal/engine"
	"github.com/habita/habita/internal/events"
	"github.com/habita/habita/internal/keyring"
	"github.com/habita/habita/internal/logger"
	"github.com/habita/habita/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage path (.db for SQLite, .json for a plain file) or a PostgreSQL connection string without embedded credentials." default:"~/.config/habita/habita.db"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init     cli.InitCmd   `cmd:"" help:"Initialize habita storage."`
	Tui      cli.TuiCmd    `cmd:"" help:"Launch the interactive day view." default:"1"`
	Day      cli.DayCmd    `cmd:"" help:"Show the trackers for a day."`
	Toggle   cli.ToggleCmd `cmd:"" help:"Toggle a tracker's completion for a day."`
	Stats    cli.StatsCmd  `cmd:"" help:"Show completion statistics."`
	Category struct {
		Add    cli.CategoryAddCmd    `cmd:"" help:"Add a category."`
		List   cli.CategoryListCmd   `cmd:"" help:"List categories and their trackers." default:"1"`
		Rename cli.CategoryRenameCmd `cmd:"" help:"Rename a category."`
		Delete cli.CategoryDeleteCmd `cmd:"" help:"Delete a category and its trackers."`
	} `cmd:"" help:"Manage categories."`
	Tracker struct {
		Add    cli.TrackerAddCmd    `cmd:"" help:"Add a tracker (interactive when flags are omitted)."`
		Edit   cli.TrackerEditCmd   `cmd:"" help:"Edit a tracker."`
		Delete cli.TrackerDeleteCmd `cmd:"" help:"Delete a tracker."`
		List   cli.TrackerListCmd   `cmd:"" help:"List all trackers." default:"1"`
	} `cmd:"" help:"Manage trackers."`
	Filter struct {
		Get cli.FilterGetCmd `cmd:"" help:"Show the persisted filter mode." default:"1"`
		Set cli.FilterSetCmd `cmd:"" help:"Set the persisted filter mode."`
	} `cmd:"" help:"Manage the day-view filter."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a storage backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore storage from a backup."`
	} `cmd:"" help:"Manage storage backups."`
	Keyring struct {
		Set   cli.KeyringSetCmd   `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Clear cli.KeyringClearCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage stored database credentials."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with a per-day completion ledger"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configPath := expandHome(CLI.Config)
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir(configPath),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	bus := events.NewBus()
	store, err := buildStore(configPath, bus)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:  store,
		Engine: engine.New(),
		Bus:    bus,
	}

	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v (run 'habita init' first?)\n", err)
			os.Exit(1)
		}
		// Today mode must evaluate the calendar day in the configured
		// zone, the same zone used for day keys and the future-date
		// guard.
		loc := appCtx.Location()
		appCtx.Engine = engine.NewWithNow(func() time.Time { return time.Now().In(loc) })
	}

	if err := ctx.Run(appCtx); err != nil {
		logger.Error("command failed", "command", ctx.Command(), "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildStore picks the storage backend from the config value: a Postgres
// connection string, a .json file, or the default SQLite database.
func buildStore(config string, bus *events.Bus) (storage.Provider, error) {
	if strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://") {
		if storage.HasEmbeddedCredentials(config) {
			return nil, fmt.Errorf("connection strings with embedded credentials are not allowed; store them with 'habita keyring set' or the %s environment variable", constants.DBConnectionEnv)
		}
		connStr := config
		if env := os.Getenv(constants.DBConnectionEnv); env != "" {
			connStr = env
		} else if stored, err := keyring.GetConnectionString(); err == nil {
			connStr = stored
		}
		return storage.NewPostgresStore(connStr, bus), nil
	}

	if filepath.Ext(config) == ".json" {
		return storage.NewJSONStore(config, bus), nil
	}
	return storage.NewSQLiteStore(config, bus), nil
}

func configDir(config string) string {
	if strings.HasPrefix(config, "postgres") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		return filepath.Join(home, ".config", constants.AppName)
	}
	return filepath.Dir(config)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
