package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFoundError("Post", 7), fiber.StatusNotFound},
		{"validation", NewValidationError("Title must be at least 3 characters"), fiber.StatusBadRequest},
		{"persistence", NewPersistenceError(errors.New("disk full")), fiber.StatusInternalServerError},
		{"wrapped", fmt.Errorf("create: %w", NewNotFoundError("User", 1)), fiber.StatusNotFound},
		{"plain", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	err := NewPersistenceError(errors.New("disk full"))
	assert.Equal(t, "Failed to persist changes: disk full", err.Error())
	assert.Equal(t, "User with ID 3 not found", NewNotFoundError("User", 3).Error())
}

func TestUser_PublicOmitsPassword(t *testing.T) {
	u := User{ID: 1, Email: "a@b.com", Login: "alice", Password: "secret1"}
	pub := u.Public()
	assert.Equal(t, 1, pub.ID)
	assert.Equal(t, "alice", pub.Login)
	assert.Equal(t, "a@b.com", pub.Email)
}
