package util

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// ErrInvalidEmail is returned when an email address cannot be parsed.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidDate indicates the value could not be parsed as a date.
	ErrInvalidDate = errors.New("invalid date")
)

// NormalizeCode canonicalizes a mail code: surrounding whitespace is
// stripped and the result uppercased. Codes are compared in this form
// everywhere (directory, registry, data sources).
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeEmail validates and normalizes an email address. The returned
// value is lowercased and stripped of surrounding whitespace.
func NormalizeEmail(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: value is empty", ErrInvalidEmail)
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEmail, err)
	}

	// Disallow display names so catalog entries stay deterministic.
	if addr.Name != "" || addr.Address == "" {
		return "", fmt.Errorf("%w: must not include display name", ErrInvalidEmail)
	}

	return strings.ToLower(addr.Address), nil
}

// ParseDate accepts the wire formats the shell supports: calendar dates
// (2006-01-02) and full RFC3339 timestamps. The time component of a
// timestamp is preserved; the renderer only uses the calendar part.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: value is empty", ErrInvalidDate)
	}

	if ts, err := time.Parse("2006-01-02", trimmed); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return ts, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, trimmed)
}

// EnsureMaxRunes ensures a string is not longer than the provided rune count.
func EnsureMaxRunes(field, value string, max int) error {
	if max <= 0 {
		return nil
	}
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s exceeds maximum length of %d characters", field, max)
	}
	return nil
}
