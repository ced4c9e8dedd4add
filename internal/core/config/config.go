package config

import (
	"fmt"
	"time"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Sync     SyncConfig     `yaml:"sync"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds health/metrics HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// APIConfig holds settings for the remote records API.
//
// DefaultDelay is the wait between retry attempts when the server does not
// dictate one; PacingDelay is the wait between consecutive payload
// downloads within a cycle.
type APIConfig struct {
	BaseURL      string   `yaml:"base_url"`
	Token        string   `yaml:"token"`
	TokenFile    string   `yaml:"token_file"`
	MaxAttempts  int      `yaml:"max_attempts"`
	DefaultDelay Duration `yaml:"default_delay"`
	PacingDelay  Duration `yaml:"pacing_delay"`
	Timeout      Duration `yaml:"timeout"`
}

// SyncConfig holds sync cycle settings. ArtifactRetention bounds how long
// derived artifact files are kept; zero keeps them forever.
type SyncConfig struct {
	Interval          Duration `yaml:"interval"`
	ArtifactDir       string   `yaml:"artifact_dir"`
	ArtifactRetention Duration `yaml:"artifact_retention"`
	WriteRaw          bool     `yaml:"write_raw"`
	WriteFormatted    bool     `yaml:"write_formatted"`
	WriteUnits        bool     `yaml:"write_units"`
}

// DatabaseConfig selects the header store backend: a non-empty URL selects
// PostgreSQL, otherwise Path selects SQLite.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Path     string `yaml:"path"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RedisConfig holds the optional failed-download queue connection.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Duration wraps time.Duration so YAML values can be written as strings
// like "70s" or "1h30m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
