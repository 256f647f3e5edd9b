package application

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/admissions-api/handlers"
	"github.com/sahilchouksey/admissions-api/handlers/serializer"
	"github.com/sahilchouksey/admissions-api/services"
	"github.com/sahilchouksey/admissions-api/utils/middleware"
	"github.com/sahilchouksey/admissions-api/utils/response"
	"github.com/sahilchouksey/admissions-api/utils/validation"
)

// ApplicationHandler serves the caller's own applications. Every lookup is
// scoped to the caller; someone else's application answers 404.
type ApplicationHandler struct {
	applications *services.ApplicationService
	validator    *validation.Validator
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applications *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		validator:    validation.NewValidator(),
	}
}

// ApplyRequest is the body of POST /api/universities/apply
type ApplyRequest struct {
	UniversityID *uint `json:"university_id"`
}

// Apply handles POST /api/universities/apply
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	application, err := h.applications.Apply(c.UserContext(), userID, req.UniversityID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.CreatedWithMessage(c, "Application submitted successfully", serializer.Application(application))
}

// ListMine handles GET /api/universities/my-applications and GET /api/universities/applications
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	applications, err := h.applications.ListMine(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, serializer.Applications(applications))
}

// GetMine handles GET /api/universities/applications/:id
func (h *ApplicationHandler) GetMine(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	id, err := handlers.ParamID(c, "id", "application")
	if err != nil {
		return response.FromError(c, err)
	}

	application, err := h.applications.GetMine(c.UserContext(), userID, id)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, serializer.Application(application))
}

// UpdateMine handles PATCH /api/universities/applications/:id
func (h *ApplicationHandler) UpdateMine(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	id, err := handlers.ParamID(c, "id", "application")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.ApplicationUpdate
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return response.FromError(c, err)
	}

	application, err := h.applications.UpdateMine(c.UserContext(), userID, id, req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Application updated successfully", serializer.Application(application))
}

// Withdraw handles DELETE /api/universities/applications/:id/withdraw and
// DELETE /api/universities/applications/:id
func (h *ApplicationHandler) Withdraw(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}
	id, err := handlers.ParamID(c, "id", "application")
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.applications.Withdraw(c.UserContext(), userID, id); err != nil {
		return response.FromError(c, err)
	}

	return response.NoContent(c)
}

// DashboardStats handles GET /api/universities/dashboard-stats
func (h *ApplicationHandler) DashboardStats(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	stats, err := h.applications.DashboardStats(c.UserContext(), user)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, serializer.Dashboard(stats))
}
