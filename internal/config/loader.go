package config

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/julianstephens/habitlog/internal/constants"
)

const envPrefix = "HABITLOG_"

// Load reads the YAML settings file at path, when it exists, then applies
// HABITLOG_ environment overrides and defaults. It does not validate.
//
// Environment variables map onto keys by splitting on the first underscore
// after the prefix: HABITLOG_SERVER_PORT sets server.port and
// HABITLOG_AUTH_CLIENT_SECRET sets auth.client_secret.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readSettingsFile(path)
		if err != nil {
			return nil, err
		}
		if content != nil {
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load settings file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	// A scope list from the environment arrives as one comma or space separated string.
	if scopes, ok := k.Get("auth.scopes").(string); ok {
		cfg.Auth.Scopes = strings.Fields(strings.ReplaceAll(scopes, ",", " "))
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

// readSettingsFile returns nil content when the file does not exist. The file
// is checked through the open descriptor so the checks and the read see the
// same file.
func readSettingsFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open settings file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat settings file: %w", err)
	}
	if err := validateFileProperties(info); err != nil {
		return nil, fmt.Errorf("settings file validation failed: %w", err)
	}

	content, err := io.ReadAll(io.LimitReader(f, constants.MaxSettingsFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	return content, nil
}

// validateFileProperties rejects group or world readable files, since the
// settings hold the OAuth client secret, and files over the size cap.
func validateFileProperties(info os.FileInfo) error {
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", info.Name())
	}
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure settings file permissions: %v (expected 0600 or 0400)", perm)
		}
	}
	if info.Size() > constants.MaxSettingsFileSize {
		return fmt.Errorf("settings file too large: %d bytes (max %d)", info.Size(), constants.MaxSettingsFileSize)
	}
	return nil
}
