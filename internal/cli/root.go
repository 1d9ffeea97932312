package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitlog/internal/backup"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/keyring"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/migration"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/storage/postgres"
	"github.com/julianstephens/habitlog/internal/storage/sqlite"
	"github.com/julianstephens/habitlog/internal/tracker"
	"github.com/julianstephens/habitlog/internal/utils"
)

type Context struct {
	Store   storage.Provider
	Tracker *tracker.Service
	// UserID owns everything the CLI and TUI create.
	UserID string
	// Stdin is read by confirmation prompts.
	Stdin io.Reader
}

func NewContext(store storage.Provider, userID string, loc *time.Location) *Context {
	if userID == "" {
		userID = constants.LocalUserID
	}
	return &Context{
		Store:   store,
		Tracker: tracker.New(store, tracker.WithLocation(loc)),
		UserID:  userID,
		Stdin:   os.Stdin,
	}
}

// Migrator is implemented by stores with a versioned schema.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	MigrationStatus() (migration.Status, error)
}

// BackupManager returns the backup manager for SQLite stores.
func (c *Context) BackupManager() (*backup.Manager, error) {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil, errors.New("backups are only supported for SQLite databases")
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// PerformAutomaticBackup creates a backup and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks a yes/no question on stdout and reads the answer from Stdin.
func (c *Context) Confirm(prompt string) (bool, error) {
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// OpenStore picks the storage backend. An empty location falls back to a
// connection string from HABITLOG_DB_CONNECTION or the OS keyring, then to
// the default SQLite file. Connection strings given on the command line must
// not embed a password.
func OpenStore(location string) (storage.Provider, error) {
	if location == "" {
		connStr, source, err := keyring.Resolve()
		if err != nil {
			logger.Warn("Could not read connection string from keyring", "error", err)
		}
		if connStr != "" {
			logger.Debug("Using PostgreSQL connection string", "source", source)
			return postgres.New(connStr), nil
		}
		location = constants.DefaultConfigPath
	}

	if utils.IsPostgresURL(location) || strings.Contains(location, "host=") {
		if err := postgres.ValidateConnString(location); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store the connection string with 'habitlog keyring set' or export %s instead",
					err, constants.EnvDBConnection)
			}
			return nil, err
		}
		return postgres.New(location), nil
	}

	path, err := utils.ExpandPath(location)
	if err != nil {
		return nil, fmt.Errorf("failed to expand database path: %w", err)
	}
	return sqlite.NewStore(path), nil
}
