package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig holds user-specific settings from .promptpilot/config.json:
// logging controls plus the contributor consent flag and self-declared
// expertise tags surfaced in contributor stats.
type UserConfig struct {
	// Contributor settings
	ConsentEnabled bool     `json:"consent_enabled,omitempty"`
	ExpertiseTags  []string `json:"expertise_tags,omitempty"`

	// Logging settings (read by the logging package directly)
	Logging *UserLoggingConfig `json:"logging,omitempty"`
}

// UserLoggingConfig mirrors the logging package's config section.
type UserLoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
	JSONFormat bool            `json:"json_format,omitempty"`
}

// DefaultUserConfigPath returns the default path to .promptpilot/config.json.
func DefaultUserConfigPath() string {
	root, err := FindWorkspaceRoot()
	if err != nil {
		return filepath.Join(".promptpilot", "config.json")
	}
	return filepath.Join(root, ".promptpilot", "config.json")
}

// LoadUserConfig loads configuration from .promptpilot/config.json.
// A missing file yields an empty config.
func LoadUserConfig(path string) (*UserConfig, error) {
	cfg := &UserConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to .promptpilot/config.json.
func (c *UserConfig) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}
