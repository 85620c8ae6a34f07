package service

import (
	"context"

	"blog/internal/models"
)

type UserService struct {
	store UserStore
}

// UserInput carries the writable user fields.
type UserInput struct {
	Email    string
	Login    string
	Password string
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	if err := ValidateUser(in.Email, in.Login, in.Password); err != nil {
		return nil, err
	}
	user, err := s.store.CreateUser(ctx, in.Email, in.Login, in.Password)
	if err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) []models.User {
	return s.store.GetAllUsers(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	user, ok := s.store.GetUserByID(ctx, id)
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int, in UserInput) (*models.User, error) {
	if err := ValidateUser(in.Email, in.Login, in.Password); err != nil {
		return nil, err
	}
	user, ok, err := s.store.UpdateUser(ctx, id, in.Email, in.Login, in.Password)
	if err != nil {
		return nil, models.NewPersistenceError(err)
	}
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	return user, nil
}

// DeleteUser removes the user. Their posts stay.
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	ok, err := s.store.DeleteUser(ctx, id)
	if err != nil {
		return models.NewPersistenceError(err)
	}
	if !ok {
		return models.NewNotFoundError("User", id)
	}
	return nil
}
