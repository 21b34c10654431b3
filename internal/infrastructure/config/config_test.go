package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.False(t, cfg.Storage.Compress)

	assert.Equal(t, "workspace.applications", cfg.Workspace.RegistryKey)
	assert.Equal(t, 1200.0, cfg.Workspace.ViewportHeight)
	assert.Equal(t, 1500.0, cfg.Workspace.ViewportWidth)
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("STORAGE_COMPRESS", "true")
	t.Setenv("REGISTRY_KEY", "test.registry")
	t.Setenv("VIEWPORT_HEIGHT", "900")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.True(t, cfg.Storage.Compress)
	assert.Equal(t, "test.registry", cfg.Workspace.RegistryKey)
	assert.Equal(t, 900.0, cfg.Workspace.ViewportHeight)
}
