package server

import (
	"errors"
	"strings"
	"unicode"

	"blog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as an int. Only a value that
// is not an integer is rejected; zero and negative ids are looked up and
// answer 404 like any other unknown id. On failure it writes a 400 JSON
// response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (int, error) {
	id, err := c.ParamsInt(param)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return id, nil
}

// humanizeParam converts a route param name into a human-readable label:
// "id" -> "ID", "authorId" -> "author ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// respondServiceError writes err with the status its AppError code maps to.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}
