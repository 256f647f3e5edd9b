package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/admissions-api/utils/apperror"
)

// ParamID reads a positive integer route parameter. Anything else is
// reported as a missing resource.
func ParamID(c *fiber.Ctx, name, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &apperror.NotFoundError{Resource: resource}
	}
	return uint(id), nil
}
