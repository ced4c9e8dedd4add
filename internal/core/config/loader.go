package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Defaults applied by Load when the file leaves a field unset. The delay
// and attempt defaults match the remote API's documented rate budget.
const (
	DefaultBaseURL      = "https://api.welldatalabs.com"
	DefaultMaxAttempts  = 3
	DefaultRetryDelay   = 70 * time.Second
	DefaultTimeout      = 30 * time.Second
	DefaultSyncInterval = 1 * time.Hour
	DefaultPort         = 8080
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.MaxAttempts == 0 {
		cfg.API.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.API.DefaultDelay == 0 {
		cfg.API.DefaultDelay = Duration(DefaultRetryDelay)
	}
	if cfg.API.PacingDelay == 0 {
		// The original rate budget paces successive payload downloads the
		// same way it paces retries.
		cfg.API.PacingDelay = cfg.API.DefaultDelay
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = Duration(DefaultTimeout)
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = Duration(DefaultSyncInterval)
	}
	if cfg.Sync.ArtifactDir == "" {
		cfg.Sync.ArtifactDir = "persecfiles"
	}
	if cfg.Database.URL == "" && cfg.Database.Path == "" {
		cfg.Database.Path = "sqlite/wellsync.db"
	}
}

// Validate rejects configurations the sync engine cannot run with.
func (c *AppConfig) Validate() error {
	if c.API.MaxAttempts <= 0 {
		return fmt.Errorf("api.max_attempts must be positive, got %d", c.API.MaxAttempts)
	}
	if c.API.DefaultDelay < 0 {
		return fmt.Errorf("api.default_delay must be non-negative, got %s", c.API.DefaultDelay.Std())
	}
	if c.API.PacingDelay < 0 {
		return fmt.Errorf("api.pacing_delay must be non-negative, got %s", c.API.PacingDelay.Std())
	}
	return nil
}
