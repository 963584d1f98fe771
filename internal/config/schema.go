package config

import (
	"time"

	"lexibase/internal/domain"
)

// Config is the root configuration structure
type Config struct {
	Version   int             `yaml:"version"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Cognacy   CognacyConfig   `yaml:"cognacy"`
	Resources ResourcesConfig `yaml:"resources"`
	Import    ImportConfig    `yaml:"import"`
	Entry     EntryConfig     `yaml:"entry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CognacyConfig tunes the cognate workflows
type CognacyConfig struct {
	CladeDepth int `yaml:"clade_depth"`
}

// ResourcesConfig tunes the read-only JSON resources
type ResourcesConfig struct {
	SourceCacheTTL Duration `yaml:"source_cache_ttl"`
	PageLimit      int      `yaml:"page_limit"`
}

// ImportConfig holds batch import settings
type ImportConfig struct {
	DataDir string `yaml:"data_dir"`
}

// EntryConfig declares extra word batteries for data-entry tasks. A battery
// named like a built-in one replaces it.
type EntryConfig struct {
	Batteries []domain.Battery `yaml:"batteries,omitempty"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
