package model

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when an article id does not resolve.
	ErrNotFound = errors.New("news not found")
	// ErrUnauthorized is returned when the caller is neither the author nor an admin.
	ErrUnauthorized = errors.New("not authorized")
)

// FieldError is one failed field of a request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}

	return "validation failed: " + strings.Join(msgs, "; ")
}
