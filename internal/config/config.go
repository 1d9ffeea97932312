// Package config loads the HTTP server settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/utils"
)

// Config is the server configuration. Precedence, highest first:
// HABITLOG_* environment variables, the YAML settings file, defaults.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Auth   AuthConfig   `koanf:"auth"`
	Log    LogConfig    `koanf:"log"`
	// Timezone decides which calendar day is "today" for streaks and the week window.
	Timezone string `koanf:"timezone"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// RateLimit is the sustained requests per second allowed per client IP.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
	// SecureCookies marks session cookies Secure; enable behind TLS.
	SecureCookies bool `koanf:"secure_cookies"`
}

// LogConfig adjusts the server's log output. Empty values keep the
// command-line defaults.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// AuthConfig configures the OAuth2 identity provider. The endpoint URLs
// default to Google's.
type AuthConfig struct {
	ClientID     string        `koanf:"client_id"`
	ClientSecret string        `koanf:"client_secret"`
	RedirectURL  string        `koanf:"redirect_url"`
	AuthURL      string        `koanf:"auth_url"`
	TokenURL     string        `koanf:"token_url"`
	UserInfoURL  string        `koanf:"userinfo_url"`
	Scopes       []string      `koanf:"scopes"`
	SessionTTL   time.Duration `koanf:"session_ttl"`
}

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// Addr is host:port for the listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = constants.DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = constants.DefaultPort
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = constants.DefaultRateLimitPerSec
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = constants.DefaultRateLimitBurst
	}

	if cfg.Auth.UserInfoURL == "" {
		cfg.Auth.UserInfoURL = googleUserInfoURL
	}
	if len(cfg.Auth.Scopes) == 0 {
		cfg.Auth.Scopes = []string{"openid", "email", "profile"}
	}
	if cfg.Auth.SessionTTL == 0 {
		cfg.Auth.SessionTTL = constants.DefaultSessionTTL
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
}

// Validate checks ranges and that the sign-in provider is fully configured.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit must not be negative"))
	}
	if c.Server.RateBurst < 0 {
		errs = append(errs, fmt.Errorf("server.rate_burst must not be negative"))
	}
	if c.Auth.SessionTTL < time.Minute {
		errs = append(errs, fmt.Errorf("auth.session_ttl must be at least 1m, got %s", c.Auth.SessionTTL))
	}
	if c.Auth.ClientID == "" {
		errs = append(errs, errors.New("auth.client_id is required"))
	}
	if c.Auth.ClientSecret == "" {
		errs = append(errs, errors.New("auth.client_secret is required"))
	}
	if c.Auth.RedirectURL == "" {
		errs = append(errs, errors.New("auth.redirect_url is required"))
	}
	if (c.Auth.AuthURL == "") != (c.Auth.TokenURL == "") {
		errs = append(errs, errors.New("auth.auth_url and auth.token_url must be set together"))
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level %q is not a valid level", c.Log.Level))
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text, json or logfmt, got %q", c.Log.Format))
	}
	if !utils.ValidateTimezone(c.Timezone) {
		errs = append(errs, fmt.Errorf("invalid timezone %q", c.Timezone))
	}
	return errors.Join(errs...)
}
