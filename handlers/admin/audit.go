package admin

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/admissions-api/database"
	"github.com/sahilchouksey/admissions-api/handlers"
	"github.com/sahilchouksey/admissions-api/model"
	"github.com/sahilchouksey/admissions-api/utils/apperror"
	"github.com/sahilchouksey/admissions-api/utils/response"
)

// pagination reads page and limit, clamping limit to 100
func pagination(c *fiber.Ctx) (page, limit int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func paginationMeta(page, limit int, total int64) fiber.Map {
	return fiber.Map{
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
	}
}

// ListAuditLogs retrieves staff audit logs with pagination
// GET /api/admin/audit-logs
func ListAuditLogs(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB().WithContext(c.UserContext())
	page, limit := pagination(c)

	query := db.Model(&model.AdminAuditLog{})
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if staffID, err := strconv.ParseUint(c.Query("staff_id"), 10, 64); err == nil {
		query = query.Where("staff_id = ?", staffID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var logs []model.AdminAuditLog
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Order("id DESC").Find(&logs).Error; err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Audit logs retrieved successfully", fiber.Map{
		"logs":       logs,
		"pagination": paginationMeta(page, limit, total),
	})
}

// GetAuditLog retrieves a specific audit log entry
// GET /api/admin/audit-logs/:id
func GetAuditLog(c *fiber.Ctx, store database.Storage) error {
	id, err := handlers.ParamID(c, "id", "audit log")
	if err != nil {
		return err
	}

	var entry model.AdminAuditLog
	result := store.GetDB().WithContext(c.UserContext()).Limit(1).Find(&entry, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &apperror.NotFoundError{Resource: "audit log"}
	}

	return response.Success(c, entry)
}
