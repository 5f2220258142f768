// ABOUTME: pointedit configuration management with backend selection
// ABOUTME: Handles config file, .env overrides, and storage backend factory

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/pointedit/internal/charm"
	"github.com/harper/pointedit/internal/storage"
	"github.com/joho/godotenv"
)

// Environment variables that override config file values.
const (
	EnvBackend     = "POINTEDIT_BACKEND"
	EnvDataDir     = "POINTEDIT_DATA_DIR"
	EnvDatabaseURL = "POINTEDIT_DATABASE_URL"
	EnvRedisURL    = "POINTEDIT_REDIS_URL"
	EnvLogLevel    = "POINTEDIT_LOG_LEVEL"
	EnvCharmHost   = "CHARM_HOST"
)

// Config stores pointedit configuration.
type Config struct {
	// Backend selects the storage backend: "badger" (default), "sqlite",
	// "postgres", "redis", "charm", or "file".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for local backends.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/pointedit.
	DataDir string `json:"data_dir,omitempty"`

	// DatabaseURL is the Postgres connection string for the postgres backend.
	DatabaseURL string `json:"database_url,omitempty"`

	// RedisURL is the redis:// URL for the redis backend.
	RedisURL string `json:"redis_url,omitempty"`

	// CharmHost is the Charm server for the charm backend.
	CharmHost string `json:"charm_host,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`
}

// defaultDBFilename is the SQLite database filename used for existing-user detection.
const defaultDBFilename = "points.db"

// GetBackend returns the configured backend, defaulting to "badger".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return storage.BackendBadger
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return strings.ToLower(c.LogLevel)
}

// defaultDataDir returns the default XDG data directory for pointedit.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "pointedit")
}

// defaultFirstRunConfig returns the appropriate default config for first-time runs.
// If an existing SQLite database is found, it keeps SQLite as the backend.
// Otherwise, it defaults to badger.
func defaultFirstRunConfig() *Config {
	dbPath := filepath.Join(defaultDataDir(), defaultDBFilename)
	_, err := os.Stat(dbPath)
	switch {
	case err == nil:
		return &Config{Backend: storage.BackendSQLite}
	case !os.IsNotExist(err):
		fmt.Fprintf(os.Stderr, "warning: could not check for existing database: %v\n", err)
	}
	return &Config{Backend: storage.BackendBadger}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStore creates a Store implementation based on the configured backend.
func (c *Config) OpenStore(ctx context.Context) (storage.Store, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case storage.BackendBadger:
		return storage.NewBadgerStore(filepath.Join(dataDir, "badger"))
	case storage.BackendSQLite:
		return storage.NewSQLiteStore(ctx, filepath.Join(dataDir, defaultDBFilename))
	case storage.BackendPostgres:
		return storage.NewPostgresStore(ctx, c.DatabaseURL)
	case storage.BackendRedis:
		return storage.NewRedisStore(ctx, c.RedisURL)
	case storage.BackendCharm:
		cfg := charm.DefaultConfig()
		if c.CharmHost != "" {
			cfg.CharmHost = c.CharmHost
		}
		client, err := charm.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("charm client: %w", err)
		}
		return storage.NewCharmStore(client), nil
	case storage.BackendFile:
		return storage.NewFileStore(filepath.Join(dataDir, "points.json")), nil
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownBackend, backend)
	}
}

// WithBackend returns a copy of c that uses a different backend.
func (c *Config) WithBackend(backend string) *Config {
	clone := *c
	clone.Backend = backend
	return &clone
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "pointedit", "config.json")
}

// LoadEnv reads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadEnv(filenames ...string) {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load %s: %v\n", name, err)
		}
	}
}

// ApplyEnv overrides config values with any POINTEDIT_* variables that are set.
func (c *Config) ApplyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{EnvBackend, &c.Backend},
		{EnvDataDir, &c.DataDir},
		{EnvDatabaseURL, &c.DatabaseURL},
		{EnvRedisURL, &c.RedisURL},
		{EnvLogLevel, &c.LogLevel},
		{EnvCharmHost, &c.CharmHost},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func loadFile() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := defaultFirstRunConfig()
			if saveErr := cfg.Save(); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return storage.AtomicWrite(path, data)
}
