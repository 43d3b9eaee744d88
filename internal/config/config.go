// Package config holds promptpilot engine configuration: a YAML engine
// config plus a JSON user config under the .promptpilot workspace
// directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all engine configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Storage configuration
	Storage StorageConfig `yaml:"storage"`

	// Preference ledger configuration
	Ledger LedgerConfig `yaml:"ledger"`

	// Background sweep configuration
	Sweep SweepConfig `yaml:"sweep"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig configures the SQLite store.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LedgerConfig configures score decay.
type LedgerConfig struct {
	// One point of score magnitude decays per interval since last update.
	DecayInterval string `yaml:"decay_interval"`
}

// SweepConfig configures the background retry/decay sweep.
type SweepConfig struct {
	Interval   string `yaml:"interval"`
	MaxRetries int    `yaml:"max_retries"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "promptpilot",
		Version: "1.0.0",

		Storage: StorageConfig{
			DatabasePath: filepath.Join(".promptpilot", "promptpilot.db"),
		},

		Ledger: LedgerConfig{
			DecayInterval: "720h", // 30 days per point of magnitude
		},

		Sweep: SweepConfig{
			Interval:   "5m",
			MaxRetries: 10,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("PROMPTPILOT_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
	if interval := os.Getenv("PROMPTPILOT_DECAY_INTERVAL"); interval != "" {
		c.Ledger.DecayInterval = interval
	}
	if interval := os.Getenv("PROMPTPILOT_SWEEP_INTERVAL"); interval != "" {
		c.Sweep.Interval = interval
	}
}

// GetDecayInterval returns the ledger decay interval as a duration.
func (c *Config) GetDecayInterval() time.Duration {
	d, err := time.ParseDuration(c.Ledger.DecayInterval)
	if err != nil || d <= 0 {
		return 720 * time.Hour
	}
	return d
}

// GetSweepInterval returns the sweep interval as a duration.
func (c *Config) GetSweepInterval() time.Duration {
	d, err := time.ParseDuration(c.Sweep.Interval)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// FindWorkspaceRoot attempts to find the workspace root by looking for a
// .promptpilot directory. If not found, returns the current working
// directory.
func FindWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, ".promptpilot")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return originalDir, nil
}
