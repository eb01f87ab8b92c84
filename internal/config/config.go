// Package config loads selftrack settings: built-in defaults, then the TOML
// file, then SELFTRACK_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the resolved settings.
type Config struct {
	// DBPath is the SQLite file, or ":memory:".
	DBPath string
	// TickInterval is how often live counters repaint.
	TickInterval time.Duration
	// RefreshInterval is how often displays refetch the session.
	RefreshInterval time.Duration
	// ListenAddr is the HTTP address used by serve.
	ListenAddr string
	// LogUseCases enables structured use-case logs on stderr.
	LogUseCases bool
}

// fileConfig mirrors config.toml. Durations are Go duration strings.
type fileConfig struct {
	DBPath          string `toml:"db_path"`
	TickInterval    string `toml:"tick_interval"`
	RefreshInterval string `toml:"refresh_interval"`
	ListenAddr      string `toml:"listen_addr"`
	LogUseCases     bool   `toml:"log_use_cases"`
}

// Default returns the settings used when nothing is configured. home is the
// directory that holds the default database.
func Default(home string) Config {
	return Config{
		DBPath:          filepath.Join(home, ".selftrack", "selftrack.db"),
		TickInterval:    time.Second,
		RefreshInterval: 5 * time.Second,
		ListenAddr:      "127.0.0.1:8787",
		LogUseCases:     false,
	}
}

// DefaultPath returns ~/.selftrack/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".selftrack", "config.toml"), nil
}

// Load resolves the configuration. An empty path means DefaultPath; a
// missing file is not an error.
func Load(path string) (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("get home directory: %w", err)
	}
	if path == "" {
		path = filepath.Join(home, ".selftrack", "config.toml")
	}

	cfg := Default(home)
	if err := applyFile(&cfg, path); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	meta, err := toml.Decode(string(data), &fc)
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("db_path") {
		cfg.DBPath = strings.TrimSpace(fc.DBPath)
	}
	if meta.IsDefined("tick_interval") {
		if cfg.TickInterval, err = parseInterval("tick_interval", fc.TickInterval); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
	}
	if meta.IsDefined("refresh_interval") {
		if cfg.RefreshInterval, err = parseInterval("refresh_interval", fc.RefreshInterval); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
	}
	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(fc.ListenAddr)
	}
	if meta.IsDefined("log_use_cases") {
		cfg.LogUseCases = fc.LogUseCases
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error
	if v := os.Getenv("SELFTRACK_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SELFTRACK_TICK_INTERVAL"); v != "" {
		if cfg.TickInterval, err = parseInterval("SELFTRACK_TICK_INTERVAL", v); err != nil {
			return err
		}
	}
	if v := os.Getenv("SELFTRACK_REFRESH_INTERVAL"); v != "" {
		if cfg.RefreshInterval, err = parseInterval("SELFTRACK_REFRESH_INTERVAL", v); err != nil {
			return err
		}
	}
	if v := os.Getenv("SELFTRACK_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("SELFTRACK_LOG_USE_CASES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SELFTRACK_LOG_USE_CASES: %w", err)
		}
		cfg.LogUseCases = b
	}
	return nil
}

func parseInterval(name, v string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, d)
	}
	return d, nil
}
