package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrInvalidColor  = errors.New("color must be a hex value like #8b5cf6")
	ErrInvalidHandle = errors.New("username may only contain letters, digits, '.', '_' and '-'")
)

var (
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,32}$`)
)

// Name trims a user-entered name and rejects blank input.
func Name(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyName
	}
	return trimmed, nil
}

// Color validates a hex color string.
func Color(color string) error {
	if !hexColorPattern.MatchString(color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	return nil
}

// Username validates a login handle before it is turned into an identifier.
func Username(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w (3-32 characters): %q", ErrInvalidHandle, username)
	}
	return nil
}
