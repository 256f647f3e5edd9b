package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"username": "This username is already taken",
		"email":    "An account with this email already exists",
	}}

	want := "validation failed: email: An account with this email already exists; username: This username is already taken"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAuthErrorMessagesAreGeneric(t *testing.T) {
	invalid := &AuthError{Reason: ReasonInvalidCredentials}
	if invalid.Message() != "Invalid email or password" {
		t.Errorf("unexpected message %q", invalid.Message())
	}

	deactivated := &AuthError{Reason: ReasonDeactivated}
	if deactivated.Message() == invalid.Message() {
		t.Error("deactivated message should differ from invalid credentials")
	}
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("apply: %w", &ConflictError{Reason: ReasonAlreadyApplied})

	var conflict *ConflictError
	if !errors.As(wrapped, &conflict) {
		t.Fatal("errors.As should find the ConflictError")
	}
	if conflict.Reason != ReasonAlreadyApplied {
		t.Errorf("Reason = %q", conflict.Reason)
	}

	var notFound *NotFoundError
	if errors.As(wrapped, &notFound) {
		t.Error("errors.As should not match NotFoundError")
	}
}
