package service

import (
	"strings"
	"unicode/utf8"

	"blog/internal/models"
)

const (
	minLoginLen    = 3
	minPasswordLen = 6
	minTitleLen    = 3
	maxTitleLen    = 100
	minContentLen  = 10
)

// ValidateUser checks the user fields accepted on create and update.
func ValidateUser(email, login, password string) error {
	if !strings.Contains(email, "@") {
		return models.NewValidationError("Email must contain @")
	}
	if utf8.RuneCountInString(login) < minLoginLen {
		return models.NewValidationError("Login must be at least 3 characters")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return models.NewValidationError("Password must be at least 6 characters")
	}
	return nil
}

// ValidatePost checks title and content. Lengths count characters, not bytes.
func ValidatePost(title, content string) error {
	n := utf8.RuneCountInString(title)
	if n < minTitleLen {
		return models.NewValidationError("Title must be at least 3 characters")
	}
	if n > maxTitleLen {
		return models.NewValidationError("Title must be at most 100 characters")
	}
	if utf8.RuneCountInString(content) < minContentLen {
		return models.NewValidationError("Content must be at least 10 characters")
	}
	return nil
}
