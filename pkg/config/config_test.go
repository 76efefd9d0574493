package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServer_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Contains(t, cfg.DSN(), "host=db ")

	t.Setenv("DATABASE_URL", "postgres://u:p@h/db")
	cfg, err = LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h/db", cfg.DSN())
}

func TestLoadServer_Invalid(t *testing.T) {
	t.Setenv("CATALOG_PAGE_SIZE", "500")
	_, err := LoadServer()
	assert.ErrorContains(t, err, "PageSize")

	t.Setenv("CATALOG_PAGE_SIZE", "ten")
	_, err = LoadServer()
	assert.Error(t, err)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("PERMISSIONS_API_URL", "http://perms.internal/api/v1")
	t.Setenv("PERMISSIONS_API_TOKEN", "abc")
	t.Setenv("PERMISSIONS_API_TIMEOUT", "3s")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://perms.internal/api/v1", cfg.BaseURL)
	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, 3*time.Second, cfg.Timeout)

	t.Setenv("PERMISSIONS_API_URL", "not a url")
	_, err = LoadClient()
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("STAFF_PERMS_TEST_KEY=loaded\n"), 0o600))
	t.Setenv("STAFF_PERMS_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("STAFF_PERMS_TEST_KEY"))

	n, err := LoadEnv(filepath.Join(dir, "missing.env"), file)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "loaded", os.Getenv("STAFF_PERMS_TEST_KEY"))

	n, err = LoadEnv(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Zero(t, n)
}
