// Package storage owns the in-memory user and post collections and keeps
// their durable snapshots in sync on every mutation.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Collection names. Each is persisted as its own durable record.
const (
	UsersCollection = "users"
	PostsCollection = "posts"
)

var (
	// ErrSnapshotNotFound is returned by a Backend that holds no record for a collection.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrPersistence wraps every failed durable write surfaced by the Store.
	ErrPersistence = errors.New("persistence failure")
)

// Backend stores one opaque snapshot per collection.
type Backend interface {
	Name() string
	Read(ctx context.Context, collection string) ([]byte, error)
	Write(ctx context.Context, collection string, data []byte) error
	Close() error
}

// FileBackend keeps each collection in <dir>/<collection>_data.json.
type FileBackend struct {
	dir string
}

// NewFileBackend creates dir if needed and returns a backend rooted there.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Name implements Backend.
func (b *FileBackend) Name() string { return "file" }

// Path returns the snapshot file path for a collection.
func (b *FileBackend) Path(collection string) string {
	return filepath.Join(b.dir, collection+"_data.json")
}

// Read implements Backend.
func (b *FileBackend) Read(_ context.Context, collection string) ([]byte, error) {
	data, err := os.ReadFile(b.Path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSnapshotNotFound
	}
	return data, err
}

// Write replaces the snapshot atomically: the data goes to a temp file in
// the same directory which is synced and then renamed over the old one.
func (b *FileBackend) Write(_ context.Context, collection string, data []byte) error {
	tmp, err := os.CreateTemp(b.dir, "."+collection+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, b.Path(collection))
}

// Close implements Backend.
func (b *FileBackend) Close() error { return nil }

// Ping checks that the data directory is still there.
func (b *FileBackend) Ping(_ context.Context) error {
	info, err := os.Stat(b.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", b.dir)
	}
	return nil
}
