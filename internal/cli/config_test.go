package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalworkshop/cutlist/internal/model"
)

func TestLoadConfig_CreatesDefaultFile(t *testing.T) {
	dir := t.TempDir()

	v, err := loadConfig(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err, "first run writes a default config.yaml")

	settings := settingsFromConfig(v)
	assert.Equal(t, model.StrategyGreedy, settings.Strategy)
	assert.Equal(t, 3.2, settings.KerfWidth)
	assert.Equal(t, 10.0, settings.EdgeTrim)
	assert.Equal(t, 15.0, settings.WasteFactor)
}

func TestLoadConfig_ReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	content := "strategy: search\nkerf_width: 2.5\nedge_trim: 0\nhistory_keep: 25\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	v, err := loadConfig(dir)
	require.NoError(t, err)

	settings := settingsFromConfig(v)
	assert.Equal(t, model.StrategySearch, settings.Strategy)
	assert.Equal(t, 2.5, settings.KerfWidth)
	assert.Equal(t, 0.0, settings.EdgeTrim)
	// Unset keys keep their defaults
	assert.Equal(t, 15.0, settings.WasteFactor)
	assert.Equal(t, 25, v.GetInt(cfgKeyHistoryKeep))
}

func TestLoadConfig_DoesNotOverwriteExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kerf_width: 1.1\n"), 0o644))

	_, err := loadConfig(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "kerf_width: 1.1\n", string(data))
}

func TestHistoryPathFromConfig(t *testing.T) {
	dir := t.TempDir()

	v, err := loadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "history.db"), historyPathFromConfig(v, dir))

	v.Set(cfgKeyHistoryDB, "/custom/history.db")
	assert.Equal(t, "/custom/history.db", historyPathFromConfig(v, dir))
}
