package main

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/cli/backups"
	"github.com/julianstephens/habitlog/internal/cli/habits"
	"github.com/julianstephens/habitlog/internal/cli/notes"
	"github.com/julianstephens/habitlog/internal/cli/system"
	"github.com/julianstephens/habitlog/internal/constants"
	apperr "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite database path or PostgreSQL connection string. PostgreSQL connection strings must not embed a password; use 'habitlog keyring set' or HABITLOG_DB_CONNECTION instead. Defaults to the keyring, then ~/.config/habitlog/habitlog.db." env:"HABITLOG_CONFIG" default:""`
	User     string `help:"User that owns habits and notes created from the command line." env:"HABITLOG_USER" default:"local"`
	Timezone string `help:"IANA timezone that decides which day is today." default:"Local"`
	Debug    bool   `help:"Enable debug logging to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize habitlog storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Serve   system.ServeCmd   `cmd:"" help:"Run the HTTP API for the browser client."`
	Habit   habits.HabitCmd   `cmd:"" help:"Manage habits and completions."`
	Note    notes.NoteCmd     `cmd:"" help:"Manage journal notes."`
	Backup  backups.BackupCmd `cmd:"" help:"Manage database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily habit tracker and journal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configDir, err := utils.ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	if err != nil {
		apperr.Fatal(fmt.Errorf("failed to resolve config directory: %w", err))
	}
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir,
		Stderr:    ctx.Command() == "serve",
	}); err != nil {
		apperr.Fatal(fmt.Errorf("failed to initialize logger: %w", err))
	}
	defer logger.Close()

	loc, err := utils.LoadLocation(CLI.Timezone)
	if err != nil {
		apperr.Fatal(fmt.Errorf("invalid timezone %q: %w", CLI.Timezone, err))
	}

	store, err := cli.OpenStore(CLI.Config)
	if err != nil {
		apperr.Fatal(err)
	}
	defer store.Close()

	appCtx := cli.NewContext(store, CLI.User, loc)
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperr.Fatal(err)
	}
}
