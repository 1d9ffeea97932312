package constants

import "time"

const (
	AppName            = "habitlog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitlog/habitlog.db"
	Version            = "v0.3.0"

	// DateFormat is the storage and wire format for calendar days (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// LocalUserID owns data created through the CLI and TUI when no --user is given
	LocalUserID = "local"

	// Environment variables
	EnvConfig       = "HABITLOG_CONFIG"
	EnvUser         = "HABITLOG_USER"
	EnvDBConnection = "HABITLOG_DB_CONNECTION"

	// Display window: five days before the end day, the end day, one day after
	WindowDaysBefore = 5
	WindowDaysAfter  = 1
	WeekStep         = 7

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitlog-"
	BackupFileSuffix = ".db"

	// Log constants
	LogDirName  = "logs"
	LogFileName = "habitlog.log"
)

// Server defaults
const (
	DefaultHost             = "localhost"
	DefaultPort             = 8420
	DefaultSessionTTL       = 30 * 24 * time.Hour
	DefaultRateLimitPerSec  = 10.0
	DefaultRateLimitBurst   = 30
	DefaultShutdownTimeout  = 10 * time.Second
	SessionCookieName       = "habitlog_session"
	OAuthStateCookieName    = "habitlog_oauth_state"
	MaxSettingsFileSize     = 1024 * 1024
	DefaultSettingsFileName = "server.yaml"
)
