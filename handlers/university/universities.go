package university

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/admissions-api/handlers"
	"github.com/sahilchouksey/admissions-api/handlers/serializer"
	"github.com/sahilchouksey/admissions-api/services"
	"github.com/sahilchouksey/admissions-api/utils/middleware"
	"github.com/sahilchouksey/admissions-api/utils/query"
	"github.com/sahilchouksey/admissions-api/utils/response"
	"github.com/sahilchouksey/admissions-api/utils/validation"
)

// UniversityHandler handles university-related requests
type UniversityHandler struct {
	catalog   *services.CatalogService
	validator *validation.Validator
}

// NewUniversityHandler creates a new university handler
func NewUniversityHandler(catalog *services.CatalogService) *UniversityHandler {
	return &UniversityHandler{
		catalog:   catalog,
		validator: validation.NewValidator(),
	}
}

// ListUniversities handles GET /api/universities
func (h *UniversityHandler) ListUniversities(c *fiber.Ctx) error {
	filter := query.ParseUniversityFilter(c.Queries())

	universities, err := h.catalog.ListUniversities(c.UserContext(), filter)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, serializer.UniversityList(universities))
}

// GetUniversity handles GET /api/universities/:id
func (h *UniversityHandler) GetUniversity(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id", "university")
	if err != nil {
		return response.FromError(c, err)
	}

	university, err := h.catalog.GetUniversity(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, serializer.University(university))
}

// CreateUniversity handles POST /api/universities
func (h *UniversityHandler) CreateUniversity(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req services.UniversityInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return response.FromError(c, err)
	}

	university, err := h.catalog.CreateUniversity(c.UserContext(), userID, req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.CreatedWithMessage(c, "University created successfully", serializer.University(university))
}

// UpdateUniversity handles PUT and PATCH /api/universities/:id. PATCH leaves
// omitted fields alone; PUT requires the mandatory ones.
func (h *UniversityHandler) UpdateUniversity(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id", "university")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.UniversityInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return response.FromError(c, err)
	}

	partial := c.Method() == fiber.MethodPatch
	university, err := h.catalog.UpdateUniversity(c.UserContext(), id, req, partial)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "University updated successfully", serializer.University(university))
}

// DeleteUniversity handles DELETE /api/universities/:id
func (h *UniversityHandler) DeleteUniversity(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id", "university")
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.catalog.DeleteUniversity(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}

	return response.NoContent(c)
}

// MyUniversities handles GET /api/universities/my, the staff view of the
// universities they created, inactive ones included.
func (h *UniversityHandler) MyUniversities(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	universities, err := h.catalog.MyUniversities(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, serializer.UniversityList(universities))
}
