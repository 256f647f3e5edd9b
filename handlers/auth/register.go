package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/admissions-api/handlers/serializer"
	"github.com/sahilchouksey/admissions-api/services"
	"github.com/sahilchouksey/admissions-api/utils/middleware"
	"github.com/sahilchouksey/admissions-api/utils/response"
	"github.com/sahilchouksey/admissions-api/utils/validation"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	identity             *services.IdentityService
	validator            *validation.Validator
	bruteForceProtection *middleware.BruteForceProtection
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity *services.IdentityService, bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		identity:             identity,
		validator:            validation.NewValidator(),
		bruteForceProtection: bruteForceProtection,
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,max=150,username"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
}

// SessionResponse is returned by register and login
type SessionResponse struct {
	User    serializer.UserResponse `json:"user"`
	Token   string                  `json:"token"`
	Message string                  `json:"message"`
}

// Register handles user registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return response.FromError(c, err)
	}

	user, token, err := h.identity.Register(c.UserContext(), services.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.CreatedWithMessage(c, "User registered successfully", SessionResponse{
		User:    serializer.User(user),
		Token:   token.Key,
		Message: "User registered successfully",
	})
}
