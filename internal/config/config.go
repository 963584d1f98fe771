// Package config loads lexibase configuration.
//
// Config file locations (priority order):
//  1. $LEXIBASE_CONFIG
//  2. ./lexibase.yaml
//  3. $XDG_CONFIG_HOME/lexibase/config.yaml
//  4. ~/.config/lexibase/config.yaml
//  5. /etc/lexibase/config.yaml
//
// Missing values are filled from DefaultConfig. Command-line flags override
// whatever the file says.
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"lexibase/internal/domain"
)

// Defaults
const (
	DefaultAddr           = ":8080"
	DefaultDatabasePath   = "./lexibase.db"
	DefaultDataDir        = "./data"
	DefaultPageLimit      = 20
	DefaultSourceCacheTTL = 10 * time.Second
	DefaultReadTimeout    = 15 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(DefaultReadTimeout)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(DefaultWriteTimeout)
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Cognacy.CladeDepth == 0 {
		c.Cognacy.CladeDepth = domain.DefaultCladeDepth
	}
	if c.Resources.SourceCacheTTL == 0 {
		c.Resources.SourceCacheTTL = Duration(DefaultSourceCacheTTL)
	}
	if c.Resources.PageLimit == 0 {
		c.Resources.PageLimit = DefaultPageLimit
	}
	if c.Import.DataDir == "" {
		c.Import.DataDir = DefaultDataDir
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate rejects values no component can work with
func (c *Config) Validate() error {
	if c.Cognacy.CladeDepth < 1 {
		return fmt.Errorf("cognacy.clade_depth must be at least 1, got %d", c.Cognacy.CladeDepth)
	}
	if c.Resources.PageLimit < 1 {
		return fmt.Errorf("resources.page_limit must be at least 1, got %d", c.Resources.PageLimit)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	for i, b := range c.Entry.Batteries {
		if b.Name == "" || b.Name == domain.FormWordlist {
			return fmt.Errorf("entry.batteries[%d]: invalid name %q", i, b.Name)
		}
		if len(b.Slugs) == 0 {
			return fmt.Errorf("entry.batteries[%d]: %s has no slugs", i, b.Name)
		}
	}
	return nil
}

// Batteries returns the built-in word batteries with the configured ones
// applied over them
func (c *Config) Batteries() map[string]domain.Battery {
	return domain.Batteries(c.Entry.Batteries...)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	return fmt.Sprintf("addr: %s, database: %s, data: %s, clade depth: %d, source cache: %s",
		c.Server.Addr, c.Database.Path, c.Import.DataDir, c.Cognacy.CladeDepth,
		c.Resources.SourceCacheTTL.Duration())
}
