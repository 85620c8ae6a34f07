package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) setupPageRoutes(app *fiber.App) {
	app.Get("/", s.HomePage)

	app.Get("/users/create", s.CreateUserPage)
	app.Post("/users/create", middleware.RateLimit(s.redis, 5, 10*time.Minute, "create_user"), s.CreateUserForm)

	// /posts/create must be registered before /posts/:id
	app.Get("/posts/create", s.CreatePostPage)
	app.Post("/posts/create", middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.CreatePostForm)
	app.Get("/posts/:id", s.PostPage)
	app.Get("/posts/:id/edit", s.EditPostPage)
	app.Post("/posts/:id/edit", s.EditPostForm)
	app.Post("/posts/:id/delete", s.DeletePostForm)
	app.Post("/posts/:id/like", s.LikePostForm)
	app.Post("/posts/:id/dislike", s.DislikePostForm)
}

// authorNames maps user ids to logins for display.
func (s *Server) authorNames(c *fiber.Ctx) map[int]string {
	users := s.userService.ListUsers(c.UserContext())
	names := make(map[int]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Login
	}
	return names
}

func (s *Server) renderHome(c *fiber.Ctx, message string) error {
	return s.pages.render(c, fiber.StatusOK, "index.html", pageData{
		Title:   "Posts",
		Message: message,
		Posts:   s.postService.ListPosts(c.UserContext()),
		Authors: s.authorNames(c),
	})
}

func (s *Server) renderNotFound(c *fiber.Ctx) error {
	return s.pages.render(c, fiber.StatusNotFound, "error.html", pageData{
		Title: "Post not found",
	})
}

// pageID parses a numeric route parameter; anything else is a 404 page.
func (s *Server) pageID(c *fiber.Ctx) (int, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// HomePage handles GET /
func (s *Server) HomePage(c *fiber.Ctx) error {
	return s.renderHome(c, "")
}

// CreateUserPage handles GET /users/create
func (s *Server) CreateUserPage(c *fiber.Ctx) error {
	return s.pages.render(c, fiber.StatusOK, "create_user.html", pageData{Title: "New user"})
}

// CreateUserForm handles POST /users/create
func (s *Server) CreateUserForm(c *fiber.Ctx) error {
	in := service.UserInput{
		Email:    strings.TrimSpace(c.FormValue("email")),
		Login:    strings.TrimSpace(c.FormValue("login")),
		Password: c.FormValue("password"),
	}

	user, err := s.userService.CreateUser(c.UserContext(), in)
	if err != nil {
		return s.pages.render(c, models.StatusFor(err), "create_user.html", pageData{
			Title: "New user",
			Error: userMessage("create user", err),
			Form:  formValues{Email: in.Email, Login: in.Login},
		})
	}

	return s.renderHome(c, fmt.Sprintf("User '%s' created. ID: %d", user.Login, user.ID))
}

func (s *Server) renderCreatePost(c *fiber.Ctx, status int, errMsg string, form formValues) error {
	return s.pages.render(c, status, "create_post.html", pageData{
		Title: "New post",
		Error: errMsg,
		Users: s.userService.ListUsers(c.UserContext()),
		Form:  form,
	})
}

// CreatePostPage handles GET /posts/create
func (s *Server) CreatePostPage(c *fiber.Ctx) error {
	return s.renderCreatePost(c, fiber.StatusOK, "", formValues{})
}

// CreatePostForm handles POST /posts/create. The author must exist; the
// same rule applies to POST /api/posts.
func (s *Server) CreatePostForm(c *fiber.Ctx) error {
	form := formValues{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
	}

	authorID, err := strconv.Atoi(strings.TrimSpace(c.FormValue("authorId")))
	if err != nil {
		return s.renderCreatePost(c, fiber.StatusBadRequest,
			userMessage("create post", models.NewValidationError("Invalid author ID")), form)
	}
	form.AuthorID = authorID

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: authorID,
		Title:    form.Title,
		Content:  form.Content,
	})
	if err != nil {
		return s.renderCreatePost(c, models.StatusFor(err), userMessage("create post", err), form)
	}

	return s.renderHome(c, fmt.Sprintf("Post '%s' created.", post.Title))
}

// PostPage handles GET /posts/:id
func (s *Server) PostPage(c *fiber.Ctx) error {
	id, ok := s.pageID(c)
	if !ok {
		return s.renderNotFound(c)
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return s.renderNotFound(c)
	}

	return s.pages.render(c, fiber.StatusOK, "post.html", pageData{
		Title:   post.Title,
		Post:    post,
		Authors: s.authorNames(c),
	})
}

// EditPostPage handles GET /posts/:id/edit
func (s *Server) EditPostPage(c *fiber.Ctx) error {
	id, ok := s.pageID(c)
	if !ok {
		return s.renderNotFound(c)
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return s.renderNotFound(c)
	}

	return s.pages.render(c, fiber.StatusOK, "edit_post.html", pageData{
		Title: "Edit post",
		Post:  post,
		Form:  formValues{Title: post.Title, Content: post.Content},
	})
}

// EditPostForm handles POST /posts/:id/edit
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	id, ok := s.pageID(c)
	if !ok {
		return s.renderNotFound(c)
	}

	in := service.UpdatePostInput{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
	}
	_, err := s.postService.UpdatePost(c.UserContext(), id, in)
	if err == nil {
		return s.renderHome(c, "Post updated.")
	}

	status := models.StatusFor(err)
	if status == fiber.StatusNotFound {
		return s.renderNotFound(c)
	}

	post, getErr := s.postService.GetPost(c.UserContext(), id)
	if getErr != nil {
		return s.renderNotFound(c)
	}
	return s.pages.render(c, status, "edit_post.html", pageData{
		Title: "Edit post",
		Error: userMessage("update post", err),
		Post:  post,
		Form:  formValues{Title: in.Title, Content: in.Content},
	})
}

// DeletePostForm handles POST /posts/:id/delete
func (s *Server) DeletePostForm(c *fiber.Ctx) error {
	id, ok := s.pageID(c)
	if !ok {
		return s.renderNotFound(c)
	}

	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return s.pageFailure(c, err)
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

// LikePostForm handles POST /posts/:id/like
func (s *Server) LikePostForm(c *fiber.Ctx) error {
	return s.reactForm(c, s.postService.LikePost)
}

// DislikePostForm handles POST /posts/:id/dislike
func (s *Server) DislikePostForm(c *fiber.Ctx) error {
	return s.reactForm(c, s.postService.DislikePost)
}

func (s *Server) reactForm(c *fiber.Ctx, react func(ctx context.Context, id int) (*models.Post, error)) error {
	id, ok := s.pageID(c)
	if !ok {
		return s.renderNotFound(c)
	}

	if _, err := react(c.UserContext(), id); err != nil {
		return s.pageFailure(c, err)
	}

	return c.Redirect(fmt.Sprintf("/posts/%d", id), fiber.StatusSeeOther)
}

// pageFailure renders the 404 page for unknown posts and a generic error
// page for everything else.
func (s *Server) pageFailure(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status == fiber.StatusNotFound {
		return s.renderNotFound(c)
	}
	return s.pages.render(c, status, "error.html", pageData{
		Title: "Something went wrong",
		Error: userMessage("save changes", err),
	})
}
