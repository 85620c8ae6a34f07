// Package models contains data structures for the blog's domain models.
package models

import "time"

// User is a registered blog user. Password is stored verbatim.
type User struct {
	ID        int
	Email     string
	Login     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserResponse is the public view of a User returned by the JSON API.
type UserResponse struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Login     string    `json:"login"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public strips the password.
func (u *User) Public() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Login:     u.Login,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PublicUsers converts a slice of users into their public views.
func PublicUsers(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}
