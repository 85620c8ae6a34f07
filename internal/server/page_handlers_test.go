package server

import (
	"context"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"blog/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPages_Render(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		path string
		want string
	}{
		{"/", "No posts yet."},
		{"/users/create", `action="/users/create"`},
		{"/posts/create", `href="/users/create"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := env.do(t, http.MethodGet, tt.path, nil)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
			assert.Contains(t, readBody(t, resp), tt.want)
		})
	}
}

func TestPages_CreateUserForm(t *testing.T) {
	env := newTestEnv(t)

	resp := env.form(t, "/users/create", url.Values{
		"email":    {"a@b.com"},
		"login":    {"alice"},
		"password": {"secret1"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "created. ID: 1")

	resp = env.form(t, "/users/create", url.Values{
		"email":    {"not-an-email"},
		"login":    {"bob"},
		"password": {"secret1"},
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Failed to create user: Email must contain @")
	assert.Contains(t, body, `value="bob"`)
	assert.Len(t, env.store.GetAllUsers(context.Background()), 1)
}

func TestPages_CreatePostForm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.store.CreateUser(ctx, "a@b.com", "alice", "secret1")
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, "/posts/create", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `<option value="1"`)

	resp = env.form(t, "/posts/create", url.Values{
		"authorId": {"999"},
		"title":    {"Hello World"},
		"content":  {"This is a sufficiently long body"},
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Author with ID 999 not found")
	assert.Equal(t, 1, env.store.NextPostID())
	assert.NoFileExists(t, filepath.Join(env.dir, "posts_data.json"))

	resp = env.form(t, "/posts/create", url.Values{
		"authorId": {"x"},
		"title":    {"Hello World"},
		"content":  {"This is a sufficiently long body"},
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Invalid author ID")

	resp = env.form(t, "/posts/create", url.Values{
		"authorId": {"1"},
		"title":    {"Hello World"},
		"content":  {"This is a sufficiently long body"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `href="/posts/1"`)
	assert.Contains(t, body, "by alice")
}

func TestPages_PostActions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.store.CreateUser(ctx, "a@b.com", "alice", "secret1")
	require.NoError(t, err)
	_, err = env.store.CreatePost(ctx, 1, "Hello World", "This is a sufficiently long body")
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, "/posts/1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "This is a sufficiently long body")

	resp = env.form(t, "/posts/1/like", url.Values{})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/posts/1", resp.Header.Get("Location"))

	resp = env.form(t, "/posts/1/dislike", url.Values{})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	post, ok := env.store.GetPostByID(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, 1, post.Likes)
	assert.Equal(t, 1, post.Dislikes)

	resp = env.do(t, http.MethodGet, "/posts/1/edit", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `value="Hello World"`)

	resp = env.form(t, "/posts/1/edit", url.Values{"title": {"no"}, "content": {"This is a sufficiently long body"}})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Title must be at least 3 characters")

	resp = env.form(t, "/posts/1/edit", url.Values{"title": {"Edited"}, "content": {"Edited and still long enough"}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Post updated.")

	resp = env.form(t, "/posts/1/delete", url.Values{})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, ok = env.store.GetPostByID(ctx, 1)
	assert.False(t, ok)
}

func TestPages_NotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/posts/42", "/posts/42/edit", "/posts/abc"} {
		resp := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, path)
	}
	for _, path := range []string{"/posts/42/like", "/posts/42/dislike", "/posts/42/delete"} {
		resp := env.form(t, path, url.Values{})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, path)
	}
	resp := env.form(t, "/posts/42/edit", url.Values{"title": {"Edited"}, "content": {"Edited and still long enough"}})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPages_DeletedAuthorShown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.store.CreateUser(ctx, "a@b.com", "alice", "secret1")
	require.NoError(t, err)
	_, err = env.store.CreatePost(ctx, 1, "Hello World", "This is a sufficiently long body")
	require.NoError(t, err)
	_, err = env.store.DeleteUser(ctx, 1)
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, "/", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "deleted user #1")
}

func TestPages_ReactionShowsUpdatedTime(t *testing.T) {
	clock := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	env := newTestEnv(t, storage.WithClock(func() time.Time { return clock }))
	ctx := context.Background()
	_, err := env.store.CreateUser(ctx, "a@b.com", "alice", "secret1")
	require.NoError(t, err)
	_, err = env.store.CreatePost(ctx, 1, "Hello World", "This is a sufficiently long body")
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	resp := env.form(t, "/posts/1/like", url.Values{})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/posts/1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "on Jan 02, 2024 at 03:04, updated Jan 02, 2024 at 04:04")
	assert.NotContains(t, body, "edited")
}
