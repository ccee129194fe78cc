package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/backups"
	"github.com/julianstephens/habitual/internal/cli/habits"
	"github.com/julianstephens/habitual/internal/cli/system"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Data file path (.db for SQLite, .json for JSON), a PostgreSQL connection string, or 'postgres' to use the connection string from the environment or OS keyring. Credentials must NOT be embedded in the connection string." type:"string" default:"${default_db}"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init      system.InitCmd      `cmd:"" help:"Initialize habitual storage."`
	Doctor    system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Tui       system.TuiCmd       `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit     habits.HabitCmd     `cmd:"" help:"Create, complete and inspect habits."`
	Analytics habits.AnalyticsCmd `cmd:"" help:"Show streak analytics across all habits."`
	Generate  system.GenerateCmd  `cmd:"" help:"Fill the store with four weeks of sample habits."`
	Backup    backups.BackupCmd   `cmd:"" help:"Manage database backups."`
	Keyring   system.KeyringCmd   `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks and analytics"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(config.YAML, constants.DefaultConfigFile),
		kong.Vars{
			"version":    constants.Version,
			"default_db": constants.DefaultDBPath,
		},
	)

	configDir, err := cli.ExpandPath(constants.DefaultConfigDir)
	if err != nil {
		errors.Fatalf("cannot resolve config directory: %v", err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		errors.Fatalf("cannot start logging: %v", err)
	}

	command := ctx.Command()
	appCtx := cli.NewContext(nil, configDir)

	// Keyring commands manage the connection string and never touch the store
	if !strings.HasPrefix(command, "keyring") {
		store, lockDir, err := cli.OpenStore(CLI.Config)
		if err != nil {
			errors.Fatalf("cannot open storage: %v", err)
		}
		appCtx.Store = store
		appCtx.ConfigDir = lockDir

		// init creates the store and doctor reports on it, so neither needs it loaded
		if !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "doctor") {
			if err := store.Load(); err != nil {
				errors.Fatal(err)
			}
		}
	}

	logger.Debug("Running command", "command", command)
	err = ctx.Run(appCtx)
	if appCtx.Store != nil {
		if closeErr := appCtx.Store.Close(); closeErr != nil {
			logger.Warn("Failed to close storage", "error", closeErr)
		}
	}
	errors.Fatal(err)
}
