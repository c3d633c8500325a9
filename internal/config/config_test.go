package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, time.Second, cfg.SimulationTick)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "postgres", cfg.PostgresCfg.Host)
}

func TestNewConfigDotenvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "PORT=9090\nSIMULATION_TICK=250ms\nSTORAGE_DRIVER=postgres\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ENV_PATH", path)
	t.Setenv("PORT", "7070")
	// Registered so the variables the file sets are restored afterwards.
	t.Setenv("SIMULATION_TICK", "")
	t.Setenv("STORAGE_DRIVER", "")
	require.NoError(t, os.Unsetenv("SIMULATION_TICK"))
	require.NoError(t, os.Unsetenv("STORAGE_DRIVER"))

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.HTTPPort)
	assert.Equal(t, 250*time.Millisecond, cfg.SimulationTick)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
}

func TestNewConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}
