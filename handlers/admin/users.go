package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/admissions-api/database"
	"github.com/sahilchouksey/admissions-api/handlers"
	"github.com/sahilchouksey/admissions-api/handlers/serializer"
	"github.com/sahilchouksey/admissions-api/model"
	"github.com/sahilchouksey/admissions-api/utils/apperror"
	"github.com/sahilchouksey/admissions-api/utils/middleware"
	"github.com/sahilchouksey/admissions-api/utils/query"
	"github.com/sahilchouksey/admissions-api/utils/response"
	"gorm.io/gorm"
)

// AccountResponse is a user as staff see it
type AccountResponse struct {
	serializer.UserResponse
	IsActive bool `json:"is_active"`
}

// UpdateAccountRequest toggles account flags. Nil leaves the flag alone.
type UpdateAccountRequest struct {
	IsActive *bool `json:"is_active"`
	IsStaff  *bool `json:"is_staff"`
}

func account(u *model.User) AccountResponse {
	return AccountResponse{UserResponse: serializer.User(u), IsActive: u.IsActive}
}

// ListUsers retrieves accounts with pagination, optionally filtered by a
// search over username and email
// GET /api/admin/users
func ListUsers(c *fiber.Ctx, store database.Storage) error {
	db := store.GetDB().WithContext(c.UserContext())
	page, limit := pagination(c)

	q := db.Model(&model.User{})
	if search := c.Query("search"); search != "" {
		q = q.Scopes(query.ContainsAny(search, "username", "email"))
	}
	switch c.Query("is_staff") {
	case "true":
		q = q.Where("is_staff = ?", true)
	case "false":
		q = q.Where("is_staff = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}

	var users []model.User
	offset := (page - 1) * limit
	if err := q.Offset(offset).Limit(limit).Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return err
	}

	accounts := make([]AccountResponse, 0, len(users))
	for i := range users {
		accounts = append(accounts, account(&users[i]))
	}

	return response.SuccessWithMessage(c, "Users retrieved successfully", fiber.Map{
		"users":      accounts,
		"pagination": paginationMeta(page, limit, total),
	})
}

// UpdateUser activates, deactivates, promotes or demotes an account.
// Deactivating also drops the account's session token.
// PATCH /api/admin/users/:id
func UpdateUser(c *fiber.Ctx, store database.Storage) error {
	id, err := handlers.ParamID(c, "id", "user")
	if err != nil {
		return err
	}
	if callerID, _ := middleware.GetUserID(c); callerID == id {
		return apperror.NewValidation("id", "You cannot change your own account here.")
	}

	var req UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsStaff != nil {
		updates["is_staff"] = *req.IsStaff
	}

	var user model.User
	err = store.GetDB().WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		result := tx.Limit(1).Find(&user, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &apperror.NotFoundError{Resource: "user"}
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&model.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if req.IsActive != nil && !*req.IsActive {
			if err := tx.Where("user_id = ?", id).Delete(&model.SessionToken{}).Error; err != nil {
				return err
			}
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "User updated successfully", account(&user))
}
