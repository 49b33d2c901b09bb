package service

import (
	"errors"
	"strings"
)

// Common service errors
var (
	// ErrNotFound is returned when a quote id is absent from the store
	ErrNotFound = errors.New("quote not found")

	// ErrInvalidStatus is returned when a status value is outside the enum
	ErrInvalidStatus = errors.New("invalid status")
)

// ValidationError collects every violated submission rule, in form order
type ValidationError struct {
	Messages []string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, " ")
}
