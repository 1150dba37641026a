package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ktmobile/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "ktmobile_phones", cfg.CatalogKey)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Equal(t, 3, cfg.MirrorAttempts)
	assert.Equal(t, time.Second, cfg.MirrorBackoff)
	assert.False(t, cfg.MirrorEnabled())
	assert.True(t, cfg.SeedCatalog)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yml := "port: \"9090\"\ncatalog_key: from_file\nmirror_attempts: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ktmobile.yml"), []byte(yml), 0o600))
	t.Setenv("CATALOG_KEY", "from_env")
	t.Setenv("FIRESTORE_PROJECT", "ktmobile-prod")

	cfg, err := config.NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "from_env", cfg.CatalogKey)
	assert.Equal(t, 5, cfg.MirrorAttempts)
	assert.True(t, cfg.MirrorEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	_, err := config.NewLoader(t.TempDir()).Load()
	assert.Error(t, err, "redis backend needs REDIS_ADDR")

	t.Setenv("REDIS_ADDR", "localhost:6379")
	_, err = config.NewLoader(t.TempDir()).Load()
	assert.NoError(t, err)

	t.Setenv("LOG_LEVEL", "chatty")
	_, err = config.NewLoader(t.TempDir()).Load()
	assert.Error(t, err)
}
