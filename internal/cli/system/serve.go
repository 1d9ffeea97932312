package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/julianstephens/habitlog/internal/auth"
	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/server"
	"github.com/julianstephens/habitlog/internal/tracker"
	"github.com/julianstephens/habitlog/internal/utils"
)

type ServeCmd struct {
	Settings string `help:"Path to the server settings file (default: server.yaml beside the default database)." type:"path"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	if err := ctx.Store.Load(); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	svc := tracker.New(ctx.Store, tracker.WithLocation(loc))
	srv := server.New(cfg, svc, auth.NewOAuth(cfg.Auth))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving on http://%s\n", cfg.Addr())
	if err := srv.Run(sigCtx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func (c *ServeCmd) loadConfig() (*config.Config, error) {
	path := c.Settings
	if path == "" {
		dbPath, err := utils.ExpandPath(constants.DefaultConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve settings path: %w", err)
		}
		path = filepath.Join(filepath.Dir(dbPath), constants.DefaultSettingsFileName)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server settings in %s:\n%w", path, err)
	}
	return cfg, nil
}
