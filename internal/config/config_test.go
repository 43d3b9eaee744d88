package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "promptpilot", cfg.Name)
	assert.Equal(t, 720*time.Hour, cfg.GetDecayInterval())
	assert.Equal(t, 5*time.Minute, cfg.GetSweepInterval())
	assert.NotEmpty(t, cfg.Storage.DatabasePath)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Name, cfg.Name)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("ledger:\n  decay_interval: 24h\nsweep:\n  interval: 30s\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.GetDecayInterval())
	assert.Equal(t, 30*time.Second, cfg.GetSweepInterval())
	// Untouched fields keep defaults.
	assert.Equal(t, "promptpilot", cfg.Name)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ledger: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PROMPTPILOT_DB", "/tmp/custom.db")
	t.Setenv("PROMPTPILOT_DECAY_INTERVAL", "48h")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 48*time.Hour, cfg.GetDecayInterval())
}

func TestInvalidDurationsFallBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ledger.DecayInterval = "bogus"
	cfg.Sweep.Interval = "-5s"

	assert.Equal(t, 720*time.Hour, cfg.GetDecayInterval())
	assert.Equal(t, 5*time.Minute, cfg.GetSweepInterval())
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Ledger.DecayInterval = "12h"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, loaded.GetDecayInterval())
}

func TestUserConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".promptpilot", "config.json")

	cfg := &UserConfig{
		ConsentEnabled: true,
		ExpertiseTags:  []string{"visual_style", "lighting"},
		Logging:        &UserLoggingConfig{DebugMode: true, Level: "debug"},
	}
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadUserConfig(path)
	require.NoError(t, err)
	assert.True(t, loaded.ConsentEnabled)
	assert.Equal(t, cfg.ExpertiseTags, loaded.ExpertiseTags)
	require.NotNil(t, loaded.Logging)
	assert.True(t, loaded.Logging.DebugMode)
}

func TestLoadUserConfigMissingFile(t *testing.T) {
	cfg, err := LoadUserConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.False(t, cfg.ConsentEnabled)
}
