package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"blog/internal/models"
	"blog/internal/observability"
)

// Store is the sole owner of user and post state. Each collection has its
// own lock, held across the mutation and the durable write, so writes to
// one collection are serialized and never interleave on disk.
type Store struct {
	backend Backend
	now     func() time.Time

	usersMu    sync.RWMutex
	users      map[int]*models.User
	nextUserID int

	postsMu    sync.RWMutex
	posts      map[int]*models.Post
	nextPostID int

	userLog     *observability.StoreLogger
	postLog     *observability.StoreLogger
	userMetrics *observability.StoreMetrics
	postMetrics *observability.StoreMetrics
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for createdAt/updatedAt.
// Readings are kept in UTC so responses and snapshots carry the same text.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = func() time.Time { return now().UTC() }
	}
}

// New returns an empty store in first-run state. Call Load before serving
// requests to pick up existing snapshots.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:     backend,
		now:         func() time.Time { return time.Now().UTC() },
		users:       make(map[int]*models.User),
		nextUserID:  1,
		posts:       make(map[int]*models.Post),
		nextPostID:  1,
		userLog:     observability.NewStoreLogger(UsersCollection),
		postLog:     observability.NewStoreLogger(PostsCollection),
		userMetrics: observability.NewStoreMetrics(UsersCollection),
		postMetrics: observability.NewStoreMetrics(PostsCollection),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces both collections with the backend's snapshots. A missing
// snapshot yields an empty collection with its counter at 1.
func (s *Store) Load(ctx context.Context) error {
	if err := s.loadUsers(ctx); err != nil {
		return err
	}
	return s.loadPosts(ctx)
}

func (s *Store) loadUsers(ctx context.Context) error {
	users, next, found, err := readSnapshot(ctx, s.backend, UsersCollection, decodeUsers)
	if err != nil {
		s.userLog.LogError(ctx, err, "load")
		return err
	}
	if users == nil {
		users = make(map[int]*models.User)
	}

	s.usersMu.Lock()
	s.users = users
	s.nextUserID = next
	s.usersMu.Unlock()

	s.userMetrics.SetCount(len(users))
	s.userLog.LogLoad(ctx, len(users), next, found)
	return nil
}

func (s *Store) loadPosts(ctx context.Context) error {
	posts, next, found, err := readSnapshot(ctx, s.backend, PostsCollection, decodePosts)
	if err != nil {
		s.postLog.LogError(ctx, err, "load")
		return err
	}
	if posts == nil {
		posts = make(map[int]*models.Post)
	}

	s.postsMu.Lock()
	s.posts = posts
	s.nextPostID = next
	s.postsMu.Unlock()

	s.postMetrics.SetCount(len(posts))
	s.postLog.LogLoad(ctx, len(posts), next, found)
	return nil
}

func readSnapshot[T any](
	ctx context.Context,
	backend Backend,
	collection string,
	decode func([]byte) (map[int]*T, int, error),
) (map[int]*T, int, bool, error) {
	data, err := backend.Read(ctx, collection)
	if errors.Is(err, ErrSnapshotNotFound) {
		return nil, 1, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("read %s snapshot: %w", collection, err)
	}
	items, next, err := decode(data)
	if err != nil {
		return nil, 0, false, fmt.Errorf("decode %s snapshot: %w", collection, err)
	}
	return items, next, true, nil
}

// write pushes one encoded snapshot to the backend. Callers hold the
// collection's write lock.
func (s *Store) write(ctx context.Context, collection string, data []byte, m *observability.StoreMetrics) error {
	ctx, span := observability.TracePersist(ctx, collection, s.backend.Name())
	done := m.TrackPersist()
	err := s.backend.Write(ctx, collection, data)
	done()
	observability.EndWithError(span, err)
	if err != nil {
		m.RecordFailure()
		return fmt.Errorf("%w: write %s: %w", ErrPersistence, collection, err)
	}
	return nil
}

func (s *Store) persistUsersLocked(ctx context.Context) error {
	data, err := encodeUsers(s.users, s.nextUserID)
	if err != nil {
		return fmt.Errorf("%w: encode users: %w", ErrPersistence, err)
	}
	return s.write(ctx, UsersCollection, data, s.userMetrics)
}

func (s *Store) persistPostsLocked(ctx context.Context) error {
	data, err := encodePosts(s.posts, s.nextPostID)
	if err != nil {
		return fmt.Errorf("%w: encode posts: %w", ErrPersistence, err)
	}
	return s.write(ctx, PostsCollection, data, s.postMetrics)
}

// touch returns the update time for a record, never earlier than its creation.
func (s *Store) touch(createdAt time.Time) time.Time {
	now := s.now()
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}

// NextUserID reports the id the next CreateUser will assign.
func (s *Store) NextUserID() int {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	return s.nextUserID
}

// NextPostID reports the id the next CreatePost will assign.
func (s *Store) NextPostID() int {
	s.postsMu.RLock()
	defer s.postsMu.RUnlock()
	return s.nextPostID
}

// Counts returns the number of live users and posts.
func (s *Store) Counts() (users, posts int) {
	s.usersMu.RLock()
	users = len(s.users)
	s.usersMu.RUnlock()

	s.postsMu.RLock()
	posts = len(s.posts)
	s.postsMu.RUnlock()
	return users, posts
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// sortedIDs returns map keys in ascending order. Ids are assigned
// monotonically and never reused, so this is insertion order.
func sortedIDs[T any](m map[int]*T) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Ping reports whether the backend is reachable. Backends without a health
// check are always ready.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.backend.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
