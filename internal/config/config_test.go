package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2022, cfg.Boundary.Year)
	assert.Equal(t, "500k", cfg.Boundary.Resolution)
	assert.Equal(t, 8, cfg.Terrain.Zoom)
	assert.Equal(t, 8, cfg.Terrain.Concurrency)
	assert.False(t, cfg.PopCenter.UseMirror)
	assert.Equal(t, 120, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
boundary:
  year: 2021
  resolution: 5m
terrain:
  zoom: 12
log:
  level: debug
  format: console
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2021, cfg.Boundary.Year)
	assert.Equal(t, "5m", cfg.Boundary.Resolution)
	assert.Equal(t, 12, cfg.Terrain.Zoom)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched sections keep defaults.
	assert.Equal(t, 8, cfg.Terrain.Concurrency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ELEVATION_TERRAIN_ZOOM", "14")
	t.Setenv("ELEVATION_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.Terrain.Zoom)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
