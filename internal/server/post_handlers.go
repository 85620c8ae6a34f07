package server

import (
	"blog/internal/models"
	"blog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	AuthorID int    `json:"authorId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

type updatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param post body createPostRequest true "Post"
// @Success 201 {object} models.PostResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: req.AuthorID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post.Public())
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Tags posts
// @Produce json
// @Success 200 {array} models.PostResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	return c.JSON(models.PublicPosts(s.postService.ListPosts(c.UserContext())))
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post.Public())
}

// GetPostsByAuthor handles GET /api/posts/author/:authorId
// @Summary List an author's posts
// @Tags posts
// @Produce json
// @Param authorId path int true "Author ID"
// @Success 200 {array} models.PostResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/author/{authorId} [get]
func (s *Server) GetPostsByAuthor(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "authorId")
	if err != nil {
		return nil
	}

	posts, err := s.postService.ListByAuthor(c.UserContext(), authorID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(models.PublicPosts(posts))
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Replace a post's title and content
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param post body updatePostRequest true "Post"
// @Success 200 {object} models.PostResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), id, service.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post.Public())
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// LikePost handles POST /api/posts/:id/like
// @Summary Like a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/like [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.LikePost(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post.Public())
}

// DislikePost handles POST /api/posts/:id/dislike
// @Summary Dislike a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/dislike [post]
func (s *Server) DislikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.DislikePost(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post.Public())
}
