package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"blog/internal/middleware"
	"blog/internal/models"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"index.html",
	"create_user.html",
	"create_post.html",
	"post.html",
	"edit_post.html",
	"error.html",
}

// formValues echoes submitted form fields back into a re-rendered form.
// The password is never echoed.
type formValues struct {
	Email    string
	Login    string
	AuthorID int
	Title    string
	Content  string
}

// pageData holds data passed to HTML templates.
type pageData struct {
	Title   string
	Message string
	Error   string
	Posts   []models.Post
	Post    *models.Post
	Users   []models.User
	Authors map[int]string
	Form    formValues
}

// pageRenderer holds one parsed template set per page, each combined
// with the shared layout.
type pageRenderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("Jan 02, 2006 at 15:04")
	},
	"authorName": func(authors map[int]string, id int) string {
		if name, ok := authors[id]; ok {
			return name
		}
		return fmt.Sprintf("deleted user #%d", id)
	},
}

func newPageRenderer() (*pageRenderer, error) {
	r := &pageRenderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (r *pageRenderer) render(c *fiber.Ctx, status int, name string, data pageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "template render failed",
			"template", name,
			"error", err.Error(),
		)
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

// userMessage turns a service error into text for a form. Persistence and
// other internal failures get a generic message.
func userMessage(action string, err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) && (appErr.Code == models.CodeValidation || appErr.Code == models.CodeNotFound) {
		return fmt.Sprintf("Failed to %s: %s", action, appErr.Message)
	}
	return fmt.Sprintf("Failed to %s: something went wrong, please try again", action)
}
