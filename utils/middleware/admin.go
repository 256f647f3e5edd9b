package middleware

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/admissions-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminAuditLog records successful staff writes to the catalog. The request
// body is stored as the payload when it is valid JSON.
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		if !ok || !user.IsStaff {
			return c.Next()
		}

		// Parse resource ID from params if available
		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, err := strconv.ParseUint(id, 10, 32); err == nil {
				resourceID = uint(parsedID)
			}
		}

		var payload datatypes.JSON
		if body := c.Body(); len(body) > 0 && json.Valid(body) {
			payload = datatypes.JSON(append([]byte(nil), body...))
		}

		// Execute the actual handler
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil || status >= fiber.StatusBadRequest {
			return err
		}

		entry := model.AdminAuditLog{
			StaffID:    user.ID,
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			Payload:    payload,
			Status:     status,
			IPAddress:  c.IP(),
			UserAgent:  c.Get(fiber.HeaderUserAgent),
		}
		if createErr := db.WithContext(c.UserContext()).Create(&entry).Error; createErr != nil {
			log.Warnf("failed to write audit log for %s %s: %v", action, c.Path(), createErr)
		}

		return nil
	}
}
