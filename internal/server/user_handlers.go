package server

import (
	"blog/internal/models"
	"blog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type userRequest struct {
	Email    string `json:"email"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (r userRequest) input() service.UserInput {
	return service.UserInput{Email: r.Email, Login: r.Login, Password: r.Password}
}

// CreateUser handles POST /api/users
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body userRequest true "User"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.CreateUser(c.UserContext(), req.input())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user.Public())
}

// GetAllUsers handles GET /api/users
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.UserResponse
// @Router /users [get]
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	return c.JSON(models.PublicUsers(s.userService.ListUsers(c.UserContext())))
}

// GetUser handles GET /api/users/:id
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user.Public())
}

// UpdateUser handles PUT /api/users/:id
// @Summary Replace a user's email, login and password
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body userRequest true "User"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateUser(c.UserContext(), id, req.input())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user.Public())
}

// DeleteUser handles DELETE /api/users/:id. Posts by the user are kept.
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.userService.DeleteUser(c.UserContext(), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
