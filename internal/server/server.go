// Package server exposes the tracker as a JSON API for the browser client.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/julianstephens/habitlog/internal/auth"
	"github.com/julianstephens/habitlog/internal/config"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/tracker"
)

const sessionPurgeInterval = time.Hour

// Server wires the HTTP routes to a tracker service.
type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	svc      *tracker.Service
	sessions *auth.Sessions
	registry *prometheus.Registry
}

// New builds the server. provider performs the OAuth exchange; pass
// auth.NewOAuth(cfg.Auth) outside tests.
func New(cfg *config.Config, svc *tracker.Service, provider auth.Exchanger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(e)

	s := &Server{
		echo:     e,
		cfg:      cfg,
		svc:      svc,
		sessions: auth.NewSessions(svc.Store(), cfg.Auth.SessionTTL),
		registry: prometheus.NewRegistry(),
	}
	metrics := newMetrics(s.registry)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(metrics.middleware())

	limiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.Server.RateLimit),
			Burst:     cfg.Server.RateBurst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, id string, err error) error {
			logger.Warn("Rate limit exceeded", "ip", id)
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})

	s.registerRoutes(provider, limiter)
	return s
}

func (s *Server) registerRoutes(provider auth.Exchanger, limiter echo.MiddlewareFunc) {
	s.echo.GET("/healthz", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	authGroup := s.echo.Group("/auth", limiter)
	auth.NewHandler(provider, s.sessions, s.svc.Store(), s.cfg.Server.SecureCookies).Register(authGroup)

	v1 := s.echo.Group("/api/v1", limiter, auth.RequireSession(s.sessions))
	v1.GET("/week", s.handleWeek)
	v1.POST("/render", s.handleRender)

	v1.GET("/habits", s.handleListHabits)
	v1.POST("/habits", s.handleAddHabit)
	v1.PUT("/habits", s.handleReplaceHabits)
	v1.PATCH("/habits/:id", s.handleUpdateHabit)
	v1.DELETE("/habits/:id", s.handleDeleteHabit)
	v1.POST("/habits/:id/toggle", s.handleToggleHabit)

	v1.GET("/notes", s.handleListNotes)
	v1.POST("/notes", s.handleAddNote)
	v1.GET("/notes/search", s.handleSearchNotes)
	v1.PATCH("/notes/:id", s.handleEditNote)
	v1.DELETE("/notes/:id", s.handleDeleteNote)
	v1.POST("/notes/:id/pin", s.handlePinNote)
	v1.POST("/notes/:id/checkbox", s.handleNoteCheckbox)
}

// ServeHTTP lets the server be mounted or exercised directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Run serves until ctx is cancelled, then shuts down gracefully. Expired
// sessions are purged periodically while running.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Addr()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case err, ok := <-errCh:
			if ok {
				return err
			}
			return nil
		case <-ticker.C:
			if n, err := s.sessions.Purge(); err != nil {
				logger.Warn("Failed to purge expired sessions", "error", err)
			} else if n > 0 {
				logger.Debug("Purged expired sessions", "count", n)
			}
		case <-ctx.Done():
			logger.Info("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
			defer cancel()
			return s.echo.Shutdown(shutdownCtx)
		}
	}
}
