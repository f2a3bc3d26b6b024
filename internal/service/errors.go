package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrForbidden is returned when an authenticated actor is not allowed
	// to perform the requested action.
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrAlreadyAuthenticated is returned when an authenticated actor hits
	// an anonymous-only endpoint such as register or login.
	ErrAlreadyAuthenticated = errors.New("you are already authenticated")
	// ErrInvalidCredentials deliberately does not distinguish an unknown
	// username from a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUserNotFound     = errors.New("user not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment not found")
)

// ValidationError carries per-field messages for malformed or conflicting
// input. Handlers render it as a 400 with a field→message map.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(pairs ...string) *ValidationError {
	fields := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fields[pairs[i]] = pairs[i+1]
	}
	return &ValidationError{Fields: fields}
}

// AsValidationError unwraps err into a ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
