package service

import (
	"context"
	"errors"
	"testing"

	"blog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostStore is a mock of the PostStore interface
type MockPostStore struct {
	mock.Mock
}

func (m *MockPostStore) CreatePost(ctx context.Context, authorID int, title, content string) (*models.Post, error) {
	args := m.Called(ctx, authorID, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostStore) GetAllPosts(ctx context.Context) []models.Post {
	args := m.Called(ctx)
	return args.Get(0).([]models.Post)
}

func (m *MockPostStore) GetPostByID(ctx context.Context, id int) (*models.Post, bool) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*models.Post), args.Bool(1)
}

func (m *MockPostStore) GetPostsByAuthor(ctx context.Context, authorID int) []models.Post {
	args := m.Called(ctx, authorID)
	return args.Get(0).([]models.Post)
}

func (m *MockPostStore) UpdatePost(ctx context.Context, id int, title, content string) (*models.Post, bool, error) {
	args := m.Called(ctx, id, title, content)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Post), args.Bool(1), args.Error(2)
}

func (m *MockPostStore) DeletePost(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostStore) LikePost(ctx context.Context, id int) (*models.Post, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Post), args.Bool(1), args.Error(2)
}

func (m *MockPostStore) DislikePost(ctx context.Context, id int) (*models.Post, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Post), args.Bool(1), args.Error(2)
}

// MockAuthorLookup is a mock of the AuthorLookup interface
type MockAuthorLookup struct {
	mock.Mock
}

func (m *MockAuthorLookup) GetUserByID(ctx context.Context, id int) (*models.User, bool) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*models.User), args.Bool(1)
}

func TestPostService_CreatePost_ChecksAuthorBeforeWriting(t *testing.T) {
	ctx := context.Background()
	posts := new(MockPostStore)
	authors := new(MockAuthorLookup)
	authors.On("GetUserByID", ctx, 999).Return(nil, false)

	svc := NewPostService(posts, authors)
	_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 999, Title: "Hello World", Content: "This is a sufficiently long body"})

	assertCode(t, err, models.CodeNotFound)
	authors.AssertExpectations(t)
	posts.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostService_CreatePost_ValidatesFirst(t *testing.T) {
	posts := new(MockPostStore)
	authors := new(MockAuthorLookup)

	svc := NewPostService(posts, authors)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: 1, Title: "no", Content: "This is a sufficiently long body"})

	assertCode(t, err, models.CodeValidation)
	authors.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	posts.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostService_CreatePost_Success(t *testing.T) {
	ctx := context.Background()
	posts := new(MockPostStore)
	authors := new(MockAuthorLookup)
	authors.On("GetUserByID", ctx, 1).Return(&models.User{ID: 1}, true)
	posts.On("CreatePost", ctx, 1, "Hello World", "This is a sufficiently long body").
		Return(&models.Post{ID: 1, AuthorID: 1, Title: "Hello World"}, nil)

	svc := NewPostService(posts, authors)
	post, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Title: "Hello World", Content: "This is a sufficiently long body"})

	require.NoError(t, err)
	assert.Equal(t, 1, post.ID)
	posts.AssertExpectations(t)
}

func TestPostService_ListByAuthor_EmptyIsNotAnError(t *testing.T) {
	ctx := context.Background()
	posts := new(MockPostStore)
	authors := new(MockAuthorLookup)
	authors.On("GetUserByID", ctx, 3).Return(&models.User{ID: 3}, true)
	posts.On("GetPostsByAuthor", ctx, 3).Return([]models.Post{})

	got, err := NewPostService(posts, authors).ListByAuthor(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostService_PersistenceFailures(t *testing.T) {
	ctx := context.Background()
	writeErr := errors.New("disk full")

	posts := new(MockPostStore)
	posts.On("UpdatePost", ctx, 1, "Edited", "Edited and still long enough").Return(nil, true, writeErr)
	posts.On("LikePost", ctx, 1).Return(nil, true, writeErr)
	posts.On("DeletePost", ctx, 1).Return(false, writeErr)

	svc := NewPostService(posts, new(MockAuthorLookup))

	_, err := svc.UpdatePost(ctx, 1, UpdatePostInput{Title: "Edited", Content: "Edited and still long enough"})
	assertCode(t, err, models.CodePersistence)
	assert.ErrorIs(t, err, writeErr)

	_, err = svc.LikePost(ctx, 1)
	assertCode(t, err, models.CodePersistence)

	err = svc.DeletePost(ctx, 1)
	assertCode(t, err, models.CodePersistence)

	posts.AssertExpectations(t)
	posts.AssertNotCalled(t, "GetPostByID", mock.Anything, mock.Anything)
}

func TestPostService_LikePost_ReturnsStoreResult(t *testing.T) {
	ctx := context.Background()
	posts := new(MockPostStore)
	posts.On("LikePost", ctx, 4).Return(&models.Post{ID: 4, Likes: 3}, true, nil)
	posts.On("DislikePost", ctx, 4).Return(&models.Post{ID: 4, Likes: 3, Dislikes: 1}, true, nil)

	svc := NewPostService(posts, new(MockAuthorLookup))

	liked, err := svc.LikePost(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, liked.Likes)

	disliked, err := svc.DislikePost(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, disliked.Dislikes)

	posts.AssertExpectations(t)
	posts.AssertNotCalled(t, "GetPostByID", mock.Anything, mock.Anything)
}
