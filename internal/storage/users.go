package storage

import (
	"context"

	"blog/internal/models"
)

// CreateUser assigns the next user id and persists the users collection.
// Duplicate emails and logins are allowed.
func (s *Store) CreateUser(ctx context.Context, email, login, password string) (*models.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	now := s.now()
	user := &models.User{
		ID:        s.nextUserID,
		Email:     email,
		Login:     login,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[user.ID] = user
	s.nextUserID++

	if err := s.persistUsersLocked(ctx); err != nil {
		delete(s.users, user.ID)
		s.nextUserID--
		s.userLog.LogError(ctx, err, "create")
		return nil, err
	}

	s.userMetrics.SetCount(len(s.users))
	s.userLog.LogCreate(ctx, user.ID)
	out := *user
	return &out, nil
}

// GetAllUsers returns every live user in insertion order.
func (s *Store) GetAllUsers(_ context.Context) []models.User {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, id := range sortedIDs(s.users) {
		out = append(out, *s.users[id])
	}
	return out
}

// GetUserByID looks up a user. The bool is false when no live user has id.
func (s *Store) GetUserByID(_ context.Context, id int) (*models.User, bool) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	out := *u
	return &out, true
}

// UpdateUser replaces email, login and password. The bool is false when
// the user does not exist; the error is set only when persisting failed.
func (s *Store) UpdateUser(ctx context.Context, id int, email, login, password string) (*models.User, bool, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, false, nil
	}
	prev := *u
	u.Email = email
	u.Login = login
	u.Password = password
	u.UpdatedAt = s.touch(u.CreatedAt)

	if err := s.persistUsersLocked(ctx); err != nil {
		*u = prev
		s.userLog.LogError(ctx, err, "update")
		return nil, true, err
	}

	s.userLog.LogUpdate(ctx, id)
	out := *u
	return &out, true, nil
}

// DeleteUser removes a user. Posts written by the user are left in place
// and the id is never handed out again.
func (s *Store) DeleteUser(ctx context.Context, id int) (bool, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return false, nil
	}
	delete(s.users, id)

	if err := s.persistUsersLocked(ctx); err != nil {
		s.users[id] = u
		s.userLog.LogError(ctx, err, "delete")
		return true, err
	}

	s.userMetrics.SetCount(len(s.users))
	s.userLog.LogDelete(ctx, id)
	return true, nil
}
