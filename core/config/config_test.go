package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.MaxSessions)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "universities", cfg.Storage.Bucket)
	assert.Equal(t, "http", cfg.Source.Kind)
	assert.Equal(t, "page-%d.json", cfg.Source.PagePattern)
	assert.Equal(t, 0.85, cfg.List.LoadThreshold)
	assert.Equal(t, 1000, cfg.List.ScrollIntervalMillis)
	assert.Equal(t, "database", cfg.Favorites.Backend)
	assert.True(t, cfg.Favorites.AutoMigrate)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SOURCE_BASE_URL", "http://localhost:8000/pages")
	t.Setenv("LIST_LOAD_THRESHOLD", "0.5")
	t.Setenv("FAVORITES_BACKEND", "redis")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000/pages", cfg.Source.BaseURL)
	assert.Equal(t, 0.5, cfg.List.LoadThreshold)
	assert.Equal(t, "redis", cfg.Favorites.Backend)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_FORMAT=console\nDATABASE_DRIVER=postgres\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("LOG_FORMAT")
		os.Unsetenv("DATABASE_DRIVER")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("SOURCE_KIND", "ftp")
	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kind must be one of [http storage]")

	t.Setenv("SOURCE_KIND", "http")
	t.Setenv("SERVER_PORT", "http")
	_, err = LoadConfig(t.TempDir())
	assert.EqualError(t, err, `invalid server port "http"`)
}
