package initcmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/catalog/internal/core/config"
)

func TestAnswers_Config(t *testing.T) {
	a := DefaultAnswers()
	a.Interval = "30s"
	a.ExpandAll = true

	cfg, err := a.Config(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Refresh.Interval.Std())
	assert.True(t, cfg.TUI.ExpandAll)
}

func TestAnswers_Config_Invalid(t *testing.T) {
	a := DefaultAnswers()
	a.Interval = "soon"
	_, err := a.Config(t.TempDir())
	assert.Error(t, err)

	a = DefaultAnswers()
	a.Interval = "10ms"
	_, err = a.Config(t.TempDir())
	assert.Error(t, err, "interval below one second")
}

func TestWizard_RunYes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	w := NewWizard(WizardOptions{ConfigPath: path, DataDir: dir, Yes: true})
	require.NoError(t, w.Run(context.Background()))

	cfg, err := config.Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Source.BaseURL, cfg.Source.BaseURL)

	// A second run refuses to overwrite without --force.
	assert.Error(t, w.Run(context.Background()))

	w = NewWizard(WizardOptions{ConfigPath: path, DataDir: dir, Yes: true, Force: true})
	require.NoError(t, w.Run(context.Background()))

	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestBackupConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	got, err := backupConfig(path)
	require.NoError(t, err)
	assert.Empty(t, got, "nothing to back up")

	require.NoError(t, os.WriteFile(path, []byte("source: {}\n"), 0o600))
	require.NoError(t, os.WriteFile(path+".bak", []byte("stale"), 0o644))

	got, err = backupConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path+".bak", got)

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "source: {}\n", string(content))

	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
