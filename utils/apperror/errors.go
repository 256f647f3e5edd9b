// Package apperror holds the request-scoped error taxonomy shared by services
// and handlers. Handlers turn these into HTTP responses with response.FromError.
package apperror

import (
	"fmt"
	"sort"
	"strings"
)

// Auth failure reasons
const (
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonDeactivated        = "deactivated"
	ReasonInvalidToken       = "invalid_token"
	ReasonNotAuthenticated   = "not_authenticated"
)

// Conflict reasons
const (
	ReasonAlreadyApplied = "already_applied"
	ReasonDuplicate      = "duplicate"
)

// ValidationError reports one or more invalid input fields
type ValidationError struct {
	Fields map[string]string
}

// NewValidation builds a ValidationError for a single field
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AuthError is returned when credentials or a session token are rejected.
// Its message never says which credential was wrong.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Reason
}

// Message is the client facing text for the failure
func (e *AuthError) Message() string {
	switch e.Reason {
	case ReasonInvalidCredentials:
		return "Invalid email or password"
	case ReasonDeactivated:
		return "Your account has been deactivated. Please contact support."
	case ReasonNotAuthenticated:
		return "Authentication credentials were not provided."
	default:
		return "Invalid token."
	}
}

// PermissionError is returned when an authenticated actor may not perform an action
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	if e.Message == "" {
		return "permission denied"
	}
	return e.Message
}

// NotFoundError is returned when a resource does not exist or is not visible to the caller
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ConflictError is returned when a write collides with a uniqueness rule
type ConflictError struct {
	Field   string
	Reason  string
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Field != "" {
		return fmt.Sprintf("conflict on %s: %s", e.Field, e.Reason)
	}
	return "conflict: " + e.Reason
}
