package service

import (
	"context"

	"blog/internal/models"
)

type PostService struct {
	posts   PostStore
	authors AuthorLookup
}

type CreatePostInput struct {
	AuthorID int
	Title    string
	Content  string
}

type UpdatePostInput struct {
	Title   string
	Content string
}

func NewPostService(posts PostStore, authors AuthorLookup) *PostService {
	return &PostService{posts: posts, authors: authors}
}

// CreatePost validates the input and requires the author to exist. An
// unknown author is reported as not found and nothing is written.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := ValidatePost(in.Title, in.Content); err != nil {
		return nil, err
	}
	if _, ok := s.authors.GetUserByID(ctx, in.AuthorID); !ok {
		return nil, models.NewNotFoundError("Author", in.AuthorID)
	}
	post, err := s.posts.CreatePost(ctx, in.AuthorID, in.Title, in.Content)
	if err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context) []models.Post {
	return s.posts.GetAllPosts(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	post, ok := s.posts.GetPostByID(ctx, id)
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

// ListByAuthor returns the author's posts. The author must exist.
func (s *PostService) ListByAuthor(ctx context.Context, authorID int) ([]models.Post, error) {
	if _, ok := s.authors.GetUserByID(ctx, authorID); !ok {
		return nil, models.NewNotFoundError("Author", authorID)
	}
	return s.posts.GetPostsByAuthor(ctx, authorID), nil
}

func (s *PostService) UpdatePost(ctx context.Context, id int, in UpdatePostInput) (*models.Post, error) {
	if err := ValidatePost(in.Title, in.Content); err != nil {
		return nil, err
	}
	post, ok, err := s.posts.UpdatePost(ctx, id, in.Title, in.Content)
	if err != nil {
		return nil, models.NewPersistenceError(err)
	}
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, id int) error {
	ok, err := s.posts.DeletePost(ctx, id)
	if err != nil {
		return models.NewPersistenceError(err)
	}
	if !ok {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

// LikePost adds one like and returns the post as it is now.
func (s *PostService) LikePost(ctx context.Context, id int) (*models.Post, error) {
	return s.react(ctx, id, s.posts.LikePost)
}

// DislikePost adds one dislike and returns the post as it is now.
func (s *PostService) DislikePost(ctx context.Context, id int) (*models.Post, error) {
	return s.react(ctx, id, s.posts.DislikePost)
}

func (s *PostService) react(ctx context.Context, id int, fn func(context.Context, int) (*models.Post, bool, error)) (*models.Post, error) {
	post, ok, err := fn(ctx, id)
	if err != nil {
		return nil, models.NewPersistenceError(err)
	}
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}
