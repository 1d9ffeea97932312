// Package logger owns the process-wide charmbracelet logger. Records always go
// to a rotating file under the config directory; stderr is added for --debug
// and for the long-running server.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/habitlog/internal/constants"
)

// Logger is nil until Init runs; the package helpers are no-ops before that.
var Logger *log.Logger

var file *lumberjack.Logger

type Config struct {
	Debug     bool
	ConfigDir string
	// Stderr mirrors records to stderr at info level without turning on debug.
	Stderr bool
	// Level overrides the level picked from Debug and Stderr.
	Level string
	// Format is "text" (default), "json" or "logfmt".
	Format string
}

func Init(cfg Config) error {
	dir := filepath.Join(cfg.ConfigDir, constants.LogDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	formatter, err := parseFormat(cfg.Format)
	if err != nil {
		return err
	}
	level, err := pickLevel(cfg)
	if err != nil {
		return err
	}

	if file != nil {
		_ = file.Close()
	}
	file = &lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.LogFileName),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	var w io.Writer = file
	if cfg.Debug || cfg.Stderr {
		w = io.MultiWriter(os.Stderr, file)
	}

	Logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          constants.AppName,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

// Configure changes level and format of a running logger. Empty arguments
// leave the current setting alone.
func Configure(level, format string) error {
	if Logger == nil {
		return nil
	}
	if level != "" {
		lvl, err := log.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q", level)
		}
		Logger.SetLevel(lvl)
	}
	if format != "" {
		f, err := parseFormat(format)
		if err != nil {
			return err
		}
		Logger.SetFormatter(f)
	}
	return nil
}

// Close flushes and closes the log file.
func Close() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

func pickLevel(cfg Config) (log.Level, error) {
	if cfg.Level != "" {
		lvl, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return 0, fmt.Errorf("invalid log level %q", cfg.Level)
		}
		return lvl, nil
	}
	switch {
	case cfg.Debug:
		return log.DebugLevel, nil
	case cfg.Stderr:
		return log.InfoLevel, nil
	default:
		return log.WarnLevel, nil
	}
}

func parseFormat(s string) (log.Formatter, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return 0, fmt.Errorf("invalid log format %q (want text, json or logfmt)", s)
	}
}

// With returns a child logger carrying keyvals on every record. Before Init it
// returns a logger that discards everything.
func With(keyvals ...interface{}) *log.Logger {
	if Logger == nil {
		return log.New(io.Discard)
	}
	return Logger.With(keyvals...)
}

func Debug(msg string, keyvals ...interface{}) { logAt(log.DebugLevel, msg, keyvals) }
func Info(msg string, keyvals ...interface{})  { logAt(log.InfoLevel, msg, keyvals) }
func Warn(msg string, keyvals ...interface{})  { logAt(log.WarnLevel, msg, keyvals) }
func Error(msg string, keyvals ...interface{}) { logAt(log.ErrorLevel, msg, keyvals) }

func logAt(level log.Level, msg string, keyvals []interface{}) {
	if Logger != nil {
		Logger.Log(level, msg, keyvals...)
	}
}
