package program

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/admissions-api/handlers"
	"github.com/sahilchouksey/admissions-api/handlers/serializer"
	"github.com/sahilchouksey/admissions-api/services"
	"github.com/sahilchouksey/admissions-api/utils/apperror"
	"github.com/sahilchouksey/admissions-api/utils/query"
	"github.com/sahilchouksey/admissions-api/utils/response"
	"github.com/sahilchouksey/admissions-api/utils/validation"
)

// ProgramHandler handles program-related requests
type ProgramHandler struct {
	catalog   *services.CatalogService
	validator *validation.Validator
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(catalog *services.CatalogService) *ProgramHandler {
	return &ProgramHandler{
		catalog:   catalog,
		validator: validation.NewValidator(),
	}
}

// ListPrograms handles GET /api/programs
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	filter, ok := query.ParseProgramFilter(c.Queries())
	if !ok {
		return response.FromError(c, apperror.NewValidation("university", "Enter a whole number."))
	}

	programs, err := h.catalog.ListPrograms(c.UserContext(), filter)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, serializer.Programs(programs))
}

// GetProgram handles GET /api/programs/:id
func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id", "program")
	if err != nil {
		return response.FromError(c, err)
	}

	program, err := h.catalog.GetProgram(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, serializer.Program(program))
}

// CreateProgram handles POST /api/programs
func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	var req services.ProgramInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return response.FromError(c, err)
	}

	program, err := h.catalog.CreateProgram(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.CreatedWithMessage(c, "Program created successfully", serializer.Program(program))
}

// UpdateProgram handles PUT and PATCH /api/programs/:id
func (h *ProgramHandler) UpdateProgram(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id", "program")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.ProgramInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.Validate(req); err != nil {
		return response.FromError(c, err)
	}

	program, err := h.catalog.UpdateProgram(c.UserContext(), id, req, c.Method() == fiber.MethodPatch)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Program updated successfully", serializer.Program(program))
}

// DeleteProgram handles DELETE /api/programs/:id
func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id", "program")
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.catalog.DeleteProgram(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}

	return response.NoContent(c)
}
