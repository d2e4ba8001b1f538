package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, "https://fetch-hiring.s3.amazonaws.com/", cfg.Source.BaseURL)
	assert.Equal(t, "hiring.json", cfg.Source.Path)
	assert.Equal(t, 10*time.Second, cfg.Source.Timeout.Std())
	assert.Equal(t, time.Duration(0), cfg.Refresh.Interval.Std())
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 200, cfg.History.Retain)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.TUI.ExpandAll)
	assert.True(t, cfg.TUI.RememberExpanded)
	assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
	assert.Equal(t, filepath.Join(dataDir, "catalog.log"), cfg.LogFile())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Source, cfg.Source)
}

func TestLoad_Overlay(t *testing.T) {
	path := writeConfig(t, `
source:
  base_url: http://localhost:8080/api/
  timeout: 3s
  rate_limit: 500ms
refresh:
  interval: 5m
history:
  enabled: false
tui:
  theme: gruvbox
  expand_all: true
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/", cfg.Source.BaseURL)
	assert.Equal(t, "hiring.json", cfg.Source.Path, "unset keys keep defaults")
	assert.Equal(t, 3*time.Second, cfg.Source.Timeout.Std())
	assert.Equal(t, 500*time.Millisecond, cfg.Source.RateLimit.Std())
	assert.Equal(t, 5*time.Minute, cfg.Refresh.Interval.Std())
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 200, cfg.History.Retain)
	assert.True(t, cfg.TUI.ExpandAll)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "source: [", "parse config file"},
		{"bad duration", "source:\n  timeout: soon\n", "invalid duration"},
		{"interval too short", "refresh:\n  interval: 10ms\n", "refresh.interval"},
		{"negative retain", "history:\n  retain: -1\n", "history.retain"},
		{"idle above open", "database:\n  max_open_conns: 1\n  max_idle_conns: 3\n", "max_idle_conns"},
		{"unknown theme", "tui:\n  theme: neon\n", "tui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_EmptyDataDir(t *testing.T) {
	_, err := Load("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory")
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Refresh.Interval = Duration(90 * time.Second)

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "interval: 1m30s")
	assert.NotContains(t, string(data), "datadir")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, cfg.Source, loaded.Source)
	assert.Equal(t, cfg.Refresh, loaded.Refresh)
	assert.Equal(t, cfg.History, loaded.History)
}
