package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"blog/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:            "8000",
		Env:             "test",
		StorageDriver:   config.DriverFile,
		DataDir:         t.TempDir(),
		SeedDefaultUser: true,
	}
}

func TestInitRuntime_CreatesDefaultUserOnce(t *testing.T) {
	cfg := fileConfig(t)
	ctx := context.Background()

	store, r, err := InitRuntime(ctx, cfg, Options{SkipRedis: true})
	require.NoError(t, err)
	assert.Nil(t, r)

	users := store.GetAllUsers(ctx)
	require.Len(t, users, 1)
	assert.Equal(t, DefaultUserEmail, users[0].Email)
	assert.Equal(t, DefaultUserLogin, users[0].Login)
	assert.Equal(t, DefaultUserPassword, users[0].Password)
	assert.FileExists(t, filepath.Join(cfg.DataDir, "users_data.json"))

	again, _, err := InitRuntime(ctx, cfg, Options{SkipRedis: true})
	require.NoError(t, err)
	assert.Len(t, again.GetAllUsers(ctx), 1)
	assert.Equal(t, 2, again.NextUserID())
}

func TestInitRuntime_NoSeed(t *testing.T) {
	cfg := fileConfig(t)
	cfg.SeedDefaultUser = false

	store, _, err := InitRuntime(context.Background(), cfg, Options{SkipRedis: true})
	require.NoError(t, err)
	assert.Empty(t, store.GetAllUsers(context.Background()))
}

func TestInitRuntime_SQLite(t *testing.T) {
	cfg := fileConfig(t)
	cfg.StorageDriver = config.DriverSQLite
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "blog.db")

	store, _, err := InitRuntime(context.Background(), cfg, Options{SkipRedis: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	assert.Len(t, store.GetAllUsers(context.Background()), 1)
}

func TestOpenBackend_Unknown(t *testing.T) {
	cfg := fileConfig(t)
	cfg.StorageDriver = "etcd"
	_, err := OpenBackend(cfg)
	assert.Error(t, err)
}
