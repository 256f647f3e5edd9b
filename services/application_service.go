package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilchouksey/admissions-api/database"
	"github.com/sahilchouksey/admissions-api/model"
	"github.com/sahilchouksey/admissions-api/utils/apperror"
	"github.com/sahilchouksey/admissions-api/utils/query"
	"github.com/sahilchouksey/admissions-api/utils/validation"
	"gorm.io/gorm"
)

const msgAlreadyApplied = "You have already applied to this university"

// recentApplicationsLimit is how many applications the dashboard shows
const recentApplicationsLimit = 5

// ApplicationService handles a user's applications. Every query is scoped to
// the owner, so another user's application looks exactly like a missing one.
type ApplicationService struct {
	db *gorm.DB
}

// NewApplicationService creates a new application service
func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

// ApplicationUpdate carries the fields an owner may change
type ApplicationUpdate struct {
	Status *string `json:"status" validate:"omitempty,oneof=pending accepted rejected waitlisted"`
	Notes  *string `json:"notes"`
}

// DashboardStats summarises a user's activity
type DashboardStats struct {
	AppliedCount       int64
	AddedCount         int64
	RecentApplications []model.Application
}

func (s *ApplicationService) owned(ctx context.Context, userID uint) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("University").
		Where("user_id = ?", userID)
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("applied_at DESC").Order("id DESC")
}

// Apply creates a pending application of user to an active university
func (s *ApplicationService) Apply(ctx context.Context, userID uint, universityID *uint) (*model.Application, error) {
	if universityID == nil || *universityID == 0 {
		return nil, apperror.NewValidation("university_id", "University ID is required")
	}

	var university model.University
	err := s.db.WithContext(ctx).Scopes(query.Active).First(&university, *universityID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Resource: "university"}
		}
		return nil, fmt.Errorf("failed to load university: %w", err)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Application{}).
		Where("user_id = ? AND university_id = ?", userID, university.ID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if count > 0 {
		return nil, alreadyApplied()
	}

	application := &model.Application{
		UserID:       userID,
		UniversityID: university.ID,
		Status:       model.ApplicationPending,
	}
	if err := s.db.WithContext(ctx).Create(application).Error; err != nil {
		// A concurrent request won the race for the unique index
		if _, ok := database.UniqueViolation(err); ok {
			return nil, alreadyApplied()
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	application.University = &university
	return application, nil
}

func alreadyApplied() *apperror.ConflictError {
	return &apperror.ConflictError{Reason: apperror.ReasonAlreadyApplied, Message: msgAlreadyApplied}
}

// Withdraw deletes the user's application
func (s *ApplicationService) Withdraw(ctx context.Context, userID, applicationID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", applicationID, userID).
		Delete(&model.Application{})
	if result.Error != nil {
		return fmt.Errorf("failed to withdraw application: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperror.NotFoundError{Resource: "application"}
	}
	return nil
}

// ListMine returns the user's applications, newest first
func (s *ApplicationService) ListMine(ctx context.Context, userID uint) ([]model.Application, error) {
	var applications []model.Application
	if err := s.owned(ctx, userID).Scopes(newestFirst).Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}

// GetMine returns one of the user's applications
func (s *ApplicationService) GetMine(ctx context.Context, userID, applicationID uint) (*model.Application, error) {
	var application model.Application
	if err := s.owned(ctx, userID).First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Resource: "application"}
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	return &application, nil
}

// UpdateMine changes status or notes. Any status may follow any other.
func (s *ApplicationService) UpdateMine(ctx context.Context, userID, applicationID uint, in ApplicationUpdate) (*model.Application, error) {
	application, err := s.GetMine(ctx, userID, applicationID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Status != nil {
		status := model.ApplicationStatus(*in.Status)
		if !status.Valid() {
			return nil, apperror.NewValidation("status", fmt.Sprintf("%q is not a valid choice.", *in.Status))
		}
		updates["status"] = status
		application.Status = status
	}
	if in.Notes != nil {
		notes := validation.SanitizeText(*in.Notes)
		updates["notes"] = notes
		application.Notes = notes
	}
	if len(updates) == 0 {
		return application, nil
	}

	if err := s.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ? AND user_id = ?", application.ID, userID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return s.GetMine(ctx, userID, applicationID)
}

// DashboardStats counts the user's applications and, for staff, the
// universities they created.
func (s *ApplicationService) DashboardStats(ctx context.Context, user *model.User) (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.WithContext(ctx).Model(&model.Application{}).
		Where("user_id = ?", user.ID).
		Count(&stats.AppliedCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	if user.IsStaff {
		if err := s.db.WithContext(ctx).Model(&model.University{}).
			Scopes(query.CreatedBy(user.ID)).
			Count(&stats.AddedCount).Error; err != nil {
			return nil, fmt.Errorf("failed to count universities: %w", err)
		}
	}

	if err := s.owned(ctx, user.ID).
		Scopes(newestFirst).
		Limit(recentApplicationsLimit).
		Find(&stats.RecentApplications).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent applications: %w", err)
	}

	return stats, nil
}
