// Package service holds the rules shared by the HTML pages and the JSON API:
// input validation and the author-existence check on posts.
package service

import (
	"context"

	"blog/internal/models"
)

// UserStore is the part of storage.Store used for users.
type UserStore interface {
	CreateUser(ctx context.Context, email, login, password string) (*models.User, error)
	GetAllUsers(ctx context.Context) []models.User
	GetUserByID(ctx context.Context, id int) (*models.User, bool)
	UpdateUser(ctx context.Context, id int, email, login, password string) (*models.User, bool, error)
	DeleteUser(ctx context.Context, id int) (bool, error)
}

// PostStore is the part of storage.Store used for posts.
type PostStore interface {
	CreatePost(ctx context.Context, authorID int, title, content string) (*models.Post, error)
	GetAllPosts(ctx context.Context) []models.Post
	GetPostByID(ctx context.Context, id int) (*models.Post, bool)
	GetPostsByAuthor(ctx context.Context, authorID int) []models.Post
	UpdatePost(ctx context.Context, id int, title, content string) (*models.Post, bool, error)
	DeletePost(ctx context.Context, id int) (bool, error)
	LikePost(ctx context.Context, id int) (*models.Post, bool, error)
	DislikePost(ctx context.Context, id int) (*models.Post, bool, error)
}

// AuthorLookup resolves post authors.
type AuthorLookup interface {
	GetUserByID(ctx context.Context, id int) (*models.User, bool)
}
