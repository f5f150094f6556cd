package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEntryNotFound = errors.New("usage entry not found")
	ErrUserNotFound  = errors.New("user not found")
)

// ConflictError is returned when a user already has an entry for the week.
type ConflictError struct {
	Existing UsageEntry
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("usage data already exists for week %s", e.Existing.WeekStartDate)
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a field failure.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Err returns nil when no field failed.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
