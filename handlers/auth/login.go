package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/admissions-api/handlers/serializer"
	"github.com/sahilchouksey/admissions-api/utils/apperror"
	"github.com/sahilchouksey/admissions-api/utils/middleware"
	"github.com/sahilchouksey/admissions-api/utils/response"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return response.FromError(c, err)
	}

	ip := c.IP()

	user, token, err := h.identity.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		var authErr *apperror.AuthError
		if errors.As(err, &authErr) {
			if recordErr := h.bruteForceProtection.RecordFailedAttempt(c, ip); recordErr != nil {
				log.Warnf("failed to record login attempt for %s: %v", ip, recordErr)
			}
		}
		return response.FromError(c, err)
	}

	// Clear failed attempts on successful login
	if err := h.bruteForceProtection.RecordSuccessfulAttempt(c, ip); err != nil {
		log.Warnf("failed to clear login attempts for %s: %v", ip, err)
	}

	return response.SuccessWithMessage(c, "Login successful", SessionResponse{
		User:    serializer.User(user),
		Token:   token.Key,
		Message: "Login successful",
	})
}

// Logout deletes the caller's session token
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	key, ok := middleware.GetSessionKey(c)
	if !ok {
		return response.BadRequest(c, "No active session")
	}

	if err := h.identity.Logout(c.UserContext(), key); err != nil {
		log.Errorf("logout failed: %v", err)
		return response.BadRequest(c, "Logout failed")
	}

	return response.SuccessWithMessage(c, "Logout successful", fiber.Map{
		"message": "Logout successful",
	})
}
