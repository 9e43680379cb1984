// File: internal/config/config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate points every path lookup at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("AGENTTEXT_CONFIG_DIR", filepath.Join(tempDir, "config"))
	t.Setenv("AGENTTEXT_DATA_DIR", filepath.Join(tempDir, "data"))
	for _, key := range []string{
		"AGENTTEXT_BASE_URL",
		"AGENTTEXT_TIMEOUT",
		"AGENTTEXT_LOG_LEVEL",
		"AGENTTEXT_WATCH_INTERVAL",
	} {
		t.Setenv(key, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return tempDir
}

func TestGetConfigPaths(t *testing.T) {
	tempDir := isolate(t)

	paths, err := GetConfigPaths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "config"), paths.BaseDir)
	assert.Equal(t, filepath.Join(tempDir, "config", "config.yaml"), paths.ConfigFile)
	assert.Equal(t, filepath.Join(tempDir, "data", "agenttext.db"), paths.DBFile)

	// Nothing is created
	_, err = os.Stat(paths.BaseDir)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadDefaults(t *testing.T) {
	tempDir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultWatchInterval, cfg.Watch.Interval)
	assert.True(t, cfg.Watch.Journal)
	assert.Equal(t, filepath.Join(tempDir, "data", "agenttext.db"), cfg.Storage.DBPath)

	// A missing default file is not written
	_, err = os.Stat(filepath.Join(tempDir, "config", "config.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadExplicitMissing(t *testing.T) {
	tempDir := isolate(t)

	_, err := Load(filepath.Join(tempDir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	tempDir := isolate(t)
	configPath := filepath.Join(tempDir, "custom.yaml")

	data, err := yaml.Marshal(map[string]any{
		"base_url": "http://example.test:8080",
		"timeout":  "5s",
		"output":   map[string]any{"pretty": true},
		"log":      map[string]any{"level": "debug"},
		"watch":    map[string]any{"journal": false},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, data, 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:8080", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Output.Pretty)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Watch.Journal)
	// Untouched keys keep their defaults
	assert.Equal(t, DefaultWatchInterval, cfg.Watch.Interval)
	assert.Equal(t, configPath, cfg.SystemPaths.ConfigFile)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "base_url: [unclosed"},
		{"bad scheme", "base_url: ftp://localhost"},
		{"no host", "base_url: http://"},
		{"bad level", "log:\n  level: loud"},
		{"zero timeout", "timeout: 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := isolate(t)
			configPath := filepath.Join(tempDir, "config.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0o644))

			_, err := Load(configPath)
			assert.Error(t, err)
		})
	}
}

func TestOverrideFromEnv(t *testing.T) {
	tempDir := isolate(t)
	t.Setenv("AGENTTEXT_BASE_URL", "https://api.example.test")
	t.Setenv("AGENTTEXT_TIMEOUT", "12")
	t.Setenv("AGENTTEXT_LOG_LEVEL", "error")
	t.Setenv("AGENTTEXT_WATCH_INTERVAL", "250ms")
	t.Setenv("AGENTTEXT_DATA_DIR", filepath.Join(tempDir, "elsewhere"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test", cfg.BaseURL)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Interval)
	assert.Equal(t, filepath.Join(tempDir, "elsewhere", "agenttext.db"), cfg.Storage.DBPath)

	t.Setenv("AGENTTEXT_TIMEOUT", "soon")
	_, err = Load("")
	assert.Error(t, err)
}

func TestDotEnv(t *testing.T) {
	tempDir := isolate(t)
	require.NoError(t, os.Unsetenv("AGENTTEXT_BASE_URL"))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".env"),
		[]byte("AGENTTEXT_BASE_URL=http://from-dotenv:4000\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv:4000", cfg.BaseURL)
	require.NoError(t, os.Unsetenv("AGENTTEXT_BASE_URL"))
}

func TestSaveRoundTrip(t *testing.T) {
	tempDir := isolate(t)
	configPath := filepath.Join(tempDir, "nested", "dir", "config.yaml")

	cfg := DefaultConfig()
	cfg.BaseURL = "http://saved:3001"
	cfg.Watch.MaxEntries = 42
	require.NoError(t, cfg.Save(configPath))

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "http://saved:3001", loaded.BaseURL)
	assert.Equal(t, 42, loaded.Watch.MaxEntries)
	assert.Equal(t, cfg.Timeout, loaded.Timeout)
}
