// Package bootstrap assembles the store and Redis client from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"blog/internal/cache"
	"blog/internal/config"
	"blog/internal/storage"

	"github.com/redis/go-redis/v9"
)

// Default account created on an empty store.
const (
	DefaultUserEmail    = "test@mail.ru"
	DefaultUserLogin    = "testuser"
	DefaultUserPassword = "123456"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipRedis leaves the Redis client nil (used by offline tools).
	SkipRedis bool
}

// OpenBackend builds the snapshot backend named by STORAGE_DRIVER.
func OpenBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.StorageDriver {
	case config.DriverFile, "":
		b, err := storage.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.DriverSQLite, config.DriverPostgres:
		b, err := storage.OpenSQLBackend(cfg.StorageDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// InitRuntime opens the backend, loads both collections, ensures the default
// user and connects to Redis. Redis is best effort and may be nil.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*storage.Store, *redis.Client, error) {
	backend, err := OpenBackend(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("storage backend failed: %w", err)
	}

	store := storage.New(backend)
	if err := store.Load(ctx); err != nil {
		_ = backend.Close()
		return nil, nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	if cfg.SeedDefaultUser {
		if err := ensureDefaultUser(ctx, store); err != nil {
			_ = backend.Close()
			return nil, nil, fmt.Errorf("failed to create default user: %w", err)
		}
	}

	var r *redis.Client
	if !opts.SkipRedis {
		cache.InitRedis(cfg.RedisURL)
		r = cache.GetClient()
	}

	return store, r, nil
}

func ensureDefaultUser(ctx context.Context, store *storage.Store) error {
	users := store.GetAllUsers(ctx)
	if len(users) > 0 {
		log.Printf("Using existing user with ID: %d", users[0].ID)
		return nil
	}

	user, err := store.CreateUser(ctx, DefaultUserEmail, DefaultUserLogin, DefaultUserPassword)
	if err != nil {
		return err
	}
	log.Printf("Created default user with ID: %d", user.ID)
	return nil
}
