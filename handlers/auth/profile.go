package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/admissions-api/handlers/serializer"
	"github.com/sahilchouksey/admissions-api/services"
	"github.com/sahilchouksey/admissions-api/utils/middleware"
	"github.com/sahilchouksey/admissions-api/utils/response"
)

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// GetProfile returns the current user
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, serializer.User(user))
}

// UpdateProfile changes the current user's name
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return response.FromError(c, err)
	}

	updated, err := h.identity.UpdateProfile(c.UserContext(), user, services.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Profile updated successfully", serializer.User(updated))
}

// ChangePassword replaces the password and rotates the session token. The
// token used for this request stops working.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return response.FromError(c, err)
	}

	token, err := h.identity.ChangePassword(c.UserContext(), user, req.OldPassword, req.NewPassword)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Password changed successfully", fiber.Map{
		"token":   token.Key,
		"message": "Password changed successfully",
	})
}
