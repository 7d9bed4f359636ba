package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ValidationError describes a rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateUsername checks length (3-20) and the allowed alphabet.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < 3 || n > 20 {
		return invalid("username", "Username must be between 3 and 20 characters long")
	}
	if !usernamePattern.MatchString(username) {
		return invalid("username", "Username may contain only letters, digits and underscores")
	}
	return nil
}

// ValidatePassword requires at least 6 characters and at most 72 bytes, the
// longest input bcrypt accepts.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 6 {
		return invalid("password", "Password must be at least 6 characters long")
	}
	if len(password) > 72 {
		return invalid("password", "Password must be at most 72 bytes long")
	}
	return nil
}

// ValidateLength checks that value has between min and max characters. A max of 0
// means unbounded.
func ValidateLength(field, label, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if max > 0 && (n < min || n > max) {
		return invalid(field, "%s must be between %d and %d characters long", label, min, max)
	}
	if n < min {
		return invalid(field, "%s must be at least %d characters long", label, min)
	}
	return nil
}

// ParseWholeNumber converts a JSON value (number or numeric string) to an int.
// Fractional numbers are truncated toward zero; booleans, nulls and other types
// are rejected.
func ParseWholeNumber(field string, v interface{}) (int, error) {
	switch val := v.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, invalid(field, "%s must be a whole number", field)
		}
		return n, nil
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return int(n), nil
		}
		f, err := val.Float64()
		if err != nil {
			return 0, invalid(field, "%s must be a whole number", field)
		}
		return truncate(field, f)
	default:
		f, ok := ToFloat64(v)
		if !ok {
			return 0, invalid(field, "%s must be a whole number", field)
		}
		return truncate(field, f)
	}
}

func truncate(field string, f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, invalid(field, "%s must be a whole number", field)
	}
	return int(math.Trunc(f)), nil
}

// ParseNonNegative parses a whole number that must be >= 0.
func ParseNonNegative(field string, v interface{}) (int, error) {
	n, err := ParseWholeNumber(field, v)
	if err != nil {
		return 0, invalid(field, "%s must be a non-negative whole number", field)
	}
	if n < 0 {
		return 0, invalid(field, "%s must be a non-negative whole number", field)
	}
	return n, nil
}

// ParsePositive parses a whole number that must be >= 1.
func ParsePositive(field string, v interface{}) (int, error) {
	n, err := ParseWholeNumber(field, v)
	if err != nil || n <= 0 {
		return 0, invalid(field, "%s must be a positive whole number", field)
	}
	return n, nil
}
