package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	return fs
}

func TestLoadDefaults(t *testing.T) {
	fs := newFlagSet(t)
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(fs, "")
	require.NoError(t, err)

	assert.Equal(t, "decks", cfg.DecksDir)
	assert.Equal(t, "deckard.db", cfg.Database)
	assert.Equal(t, 30, cfg.ForecastDays)
	assert.True(t, cfg.Shuffle)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deckard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("decks_dir: /srv/decks\nforecast_days: 14\n"), 0o644))

	fs := newFlagSet(t)
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(fs, path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/decks", cfg.DecksDir)
	assert.Equal(t, 14, cfg.ForecastDays)
	assert.Equal(t, "deckard.db", cfg.Database, "settings absent from the file keep flag defaults")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deckard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forecast_days: 14\n"), 0o644))
	t.Setenv("DECKARD_FORECAST_DAYS", "7")

	fs := newFlagSet(t)
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(fs, path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.ForecastDays)
}

func TestLoadFlagsOverrideEverything(t *testing.T) {
	t.Setenv("DECKARD_FORECAST_DAYS", "7")

	fs := newFlagSet(t)
	require.NoError(t, fs.Parse([]string{"--forecast-days", "60"}))

	cfg, err := Load(fs, "")
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.ForecastDays)
}

func TestLoadMissingFileIsFine(t *testing.T) {
	fs := newFlagSet(t)
	require.NoError(t, fs.Parse(nil))

	_, err := Load(fs, filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	fs := newFlagSet(t)
	require.NoError(t, fs.Parse([]string{"--forecast-days", "0"}))

	_, err := Load(fs, "")
	assert.Error(t, err)

	fs = newFlagSet(t)
	require.NoError(t, fs.Parse([]string{"--log-level", "loud"}))

	_, err = Load(fs, "")
	assert.Error(t, err)
}
