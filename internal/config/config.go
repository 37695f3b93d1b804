// Package config loads codescore settings from TOML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aezell/codescore/internal/client"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvEndpoint = "CODESCORE_ENDPOINT"
	EnvLogLevel = "CODESCORE_LOG_LEVEL"
	EnvLogFile  = "CODESCORE_LOG_FILE"
)

// Config is the contents of config.toml after .env and environment
// overrides. Empty fields fall back to the Resolved* defaults.
type Config struct {
	Endpoint string      `toml:"endpoint,omitempty"`
	Log      LogConfig   `toml:"log"`
	Serve    ServeConfig `toml:"serve"`
	Theme    ThemeConfig `toml:"theme"`
}

// LogConfig selects the log level and the file the TUI logs to.
type LogConfig struct {
	Level string `toml:"level,omitempty"`
	File  string `toml:"file,omitempty"` // used while the TUI owns the terminal
}

// ServeConfig configures the web front-end started by `codescore serve`.
type ServeConfig struct {
	Addr          string `toml:"addr,omitempty"`
	Port          int    `toml:"port,omitempty"`
	AllowedOrigin string `toml:"allowed_origin,omitempty"`
}

// ThemeConfig holds the tier colours and the accent used for headings.
type ThemeConfig struct {
	Good    string `toml:"good,omitempty"`
	Warning string `toml:"warning,omitempty"`
	Poor    string `toml:"poor,omitempty"`
	Accent  string `toml:"accent,omitempty"`
}

// DefaultConfigPath returns ~/.config/codescore/config.toml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "codescore", "config.toml")
}

// Load reads the TOML file at path, then applies .env and environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
}

// ResolvedEndpoint returns the configured endpoint or the default one.
func (c Config) ResolvedEndpoint() string {
	return pick(c.Endpoint, client.DefaultEndpoint)
}

// ResolvedLogLevel returns the configured log level or "info".
func (c Config) ResolvedLogLevel() string {
	return strings.ToLower(pick(c.Log.Level, "info"))
}

// ResolvedLogFile returns the TUI log file, ~/.cache/codescore/codescore.log
// by default.
func (c Config) ResolvedLogFile() string {
	if c.Log.File != "" {
		return expandHome(c.Log.File)
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "codescore.log")
	}
	return filepath.Join(dir, "codescore", "codescore.log")
}

// ResolvedAddr returns host:port for the web front-end.
func (c Config) ResolvedAddr() string {
	port := c.Serve.Port
	if port <= 0 {
		port = 3000
	}
	return fmt.Sprintf("%s:%d", pick(c.Serve.Addr, "127.0.0.1"), port)
}

// DefaultTheme returns the green/amber/red tier colours of the web page.
func DefaultTheme() ThemeConfig {
	return ThemeConfig{
		Good:    "#4CAF50",
		Warning: "#FFC107",
		Poor:    "#F44336",
		Accent:  "#bd93f9",
	}
}

// ResolvedTheme merges the configured theme with DefaultTheme.
func (c Config) ResolvedTheme() ThemeConfig {
	d := DefaultTheme()
	return ThemeConfig{
		Good:    pick(c.Theme.Good, d.Good),
		Warning: pick(c.Theme.Warning, d.Warning),
		Poor:    pick(c.Theme.Poor, d.Poor),
		Accent:  pick(c.Theme.Accent, d.Accent),
	}
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

func pick(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
