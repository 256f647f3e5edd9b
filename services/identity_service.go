package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilchouksey/admissions-api/database"
	"github.com/sahilchouksey/admissions-api/model"
	"github.com/sahilchouksey/admissions-api/utils/apperror"
	"github.com/sahilchouksey/admissions-api/utils/auth"
	"github.com/sahilchouksey/admissions-api/utils/validation"
	"gorm.io/gorm"
)

// Field messages shared by the pre-check and the unique index fallback
const (
	msgEmailTaken      = "An account with this email already exists"
	msgUsernameTaken   = "This username is already taken"
	msgAccountExists   = "An account with this information already exists"
	msgPasswordsDiffer = "Passwords do not match"
	msgWrongPassword   = "Current password is incorrect"
)

// IdentityService handles accounts and their session tokens
type IdentityService struct {
	db       *gorm.DB
	sessions *auth.SessionStore
}

// NewIdentityService creates a new identity service
func NewIdentityService(db *gorm.DB, tokens *auth.TokenManager) *IdentityService {
	return &IdentityService{
		db:       db,
		sessions: auth.NewSessionStore(db, tokens),
	}
}

// RegisterInput is the data needed to open an account
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
}

// ProfileInput holds the profile fields a user may change. Nil means keep.
type ProfileInput struct {
	FirstName *string
	LastName  *string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account and its first session token in one
// transaction. Duplicates found before the insert are reported as
// ValidationError; ones caught by the unique index as ConflictError.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*model.User, *model.SessionToken, error) {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if in.Password != in.PasswordConfirm {
		return nil, nil, apperror.NewValidation("password", msgPasswordsDiffer)
	}
	if err := auth.CheckPasswordStrength(in.Password); err != nil {
		return nil, nil, apperror.NewValidation("password", err.Error())
	}

	// Soft deleted accounts still hold their email and username
	var count int64
	if err := s.db.WithContext(ctx).Unscoped().Model(&model.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, nil, apperror.NewValidation("email", msgEmailTaken)
	}
	if err := s.db.WithContext(ctx).Unscoped().Model(&model.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, nil, apperror.NewValidation("username", msgUsernameTaken)
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    validation.SanitizeText(in.FirstName),
		LastName:     validation.SanitizeText(in.LastName),
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	var token *model.SessionToken
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		var err error
		token, err = s.sessions.WithTx(tx).Issue(ctx, user.ID)
		return err
	})
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok {
			return nil, nil, credentialConflict(constraint)
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, token, nil
}

func credentialConflict(constraint string) *apperror.ConflictError {
	switch database.ViolatedField(constraint, "email", "username") {
	case "email":
		return &apperror.ConflictError{Field: "email", Reason: apperror.ReasonDuplicate, Message: msgEmailTaken}
	case "username":
		return &apperror.ConflictError{Field: "username", Reason: apperror.ReasonDuplicate, Message: msgUsernameTaken}
	default:
		return &apperror.ConflictError{Field: "error", Reason: apperror.ReasonDuplicate, Message: msgAccountExists}
	}
}

// Login checks the credentials and returns the user's live token, creating
// it if needed. Unknown email and wrong password fail identically.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*model.User, *model.SessionToken, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			auth.BurnCompare(password)
			return nil, nil, &apperror.AuthError{Reason: apperror.ReasonInvalidCredentials}
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, nil, &apperror.AuthError{Reason: apperror.ReasonInvalidCredentials}
		}
		return nil, nil, fmt.Errorf("failed to verify password: %w", err)
	}

	if !user.IsActive {
		return nil, nil, &apperror.AuthError{Reason: apperror.ReasonDeactivated}
	}

	token, err := s.sessions.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session token: %w", err)
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).UpdateColumn("last_login", now).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = &now

	return &user, token, nil
}

// Logout destroys the session token. An unknown key is not an error.
func (s *IdentityService) Logout(ctx context.Context, key string) error {
	if err := s.sessions.Revoke(ctx, key); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// ChangePassword replaces the credential and the session token together.
// The old token stops working as soon as this returns.
func (s *IdentityService) ChangePassword(ctx context.Context, user *model.User, oldPassword, newPassword string) (*model.SessionToken, error) {
	if err := auth.VerifyPassword(user.PasswordHash, oldPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperror.NewValidation("old_password", msgWrongPassword)
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if err := auth.CheckPasswordStrength(newPassword); err != nil {
		return nil, apperror.NewValidation("new_password", err.Error())
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var token *model.SessionToken
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("id = ?", user.ID).Update("password_hash", passwordHash).Error; err != nil {
			return err
		}
		var err error
		token, err = s.sessions.WithTx(tx).Rotate(ctx, user.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to change password: %w", err)
	}

	user.PasswordHash = passwordHash
	return token, nil
}

// Authenticate resolves a session key to an active user
func (s *IdentityService) Authenticate(ctx context.Context, key string) (*model.User, error) {
	token, err := s.sessions.Lookup(ctx, key)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrInvalidClaims) || errors.Is(err, auth.ErrSessionNotFound) {
			return nil, &apperror.AuthError{Reason: apperror.ReasonInvalidToken}
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if !token.User.IsActive {
		return nil, &apperror.AuthError{Reason: apperror.ReasonDeactivated}
	}
	return token.User, nil
}

// UpdateProfile changes the user's names
func (s *IdentityService) UpdateProfile(ctx context.Context, user *model.User, in ProfileInput) (*model.User, error) {
	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = validation.SanitizeText(*in.FirstName)
	}
	if in.LastName != nil {
		updates["last_name"] = validation.SanitizeText(*in.LastName)
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if v, ok := updates["first_name"]; ok {
		user.FirstName = v.(string)
	}
	if v, ok := updates["last_name"]; ok {
		user.LastName = v.(string)
	}
	return user, nil
}
