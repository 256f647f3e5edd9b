package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sahilchouksey/admissions-api/internal/testutil"
	"github.com/sahilchouksey/admissions-api/model"
	"github.com/sahilchouksey/admissions-api/utils/apperror"
	"gorm.io/gorm"
)

func newIdentity(t *testing.T) (*IdentityService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewIdentityService(db, testutil.NewTokenManager(t)), db
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Username:        "alice",
		Email:           "Alice@Example.com",
		Password:        "password123",
		PasswordConfirm: "password123",
		FirstName:       "Alice",
		LastName:        "Liddell",
	}
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, db := newIdentity(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want normalized", user.Email)
	}
	if user.IsStaff || !user.IsActive {
		t.Errorf("flags: staff=%v active=%v", user.IsStaff, user.IsActive)
	}
	if token == nil || token.UserID != user.ID {
		t.Fatalf("token = %+v", token)
	}

	var count int64
	db.Model(&model.SessionToken{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("token rows = %d, want 1", count)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newIdentity(t)
	ctx := context.Background()
	if _, _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("seed Register() error = %v", err)
	}

	tests := []struct {
		name  string
		edit  func(*RegisterInput)
		field string
	}{
		{"password mismatch", func(in *RegisterInput) { in.Username = "x1"; in.Email = "x1@example.com"; in.PasswordConfirm = "different1" }, "password"},
		{"weak password", func(in *RegisterInput) { in.Username = "x2"; in.Email = "x2@example.com"; in.Password = "short"; in.PasswordConfirm = "short" }, "password"},
		{"duplicate email", func(in *RegisterInput) { in.Username = "x3" }, "email"},
		{"duplicate email other case", func(in *RegisterInput) { in.Username = "x4"; in.Email = "ALICE@example.com" }, "email"},
		{"duplicate username", func(in *RegisterInput) { in.Email = "x5@example.com" }, "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			tt.edit(&in)

			_, _, err := svc.Register(ctx, in)
			var verr *apperror.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Register() error = %v, want ValidationError", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("fields = %v, want %q", verr.Fields, tt.field)
			}
		})
	}
}

func TestCredentialConflictField(t *testing.T) {
	tests := []struct {
		constraint string
		field      string
	}{
		{"idx_users_email", "email"},
		{"users.username", "username"},
		{"", "error"},
	}
	for _, tt := range tests {
		if got := credentialConflict(tt.constraint); got.Field != tt.field {
			t.Errorf("credentialConflict(%q).Field = %q, want %q", tt.constraint, got.Field, tt.field)
		}
	}
}

func TestLoginReturnsSameToken(t *testing.T) {
	svc, _ := newIdentity(t)
	ctx := context.Background()
	_, registered, _ := svc.Register(ctx, validRegistration())

	user, first, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	_, second, err := svc.Login(ctx, "ALICE@example.com", "password123")
	if err != nil {
		t.Fatalf("second Login() error = %v", err)
	}

	if first.Key != registered.Key || second.Key != first.Key {
		t.Error("login should reuse the live token")
	}
	if user.LastLogin == nil {
		t.Error("LastLogin should be set")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newIdentity(t)
	ctx := context.Background()
	_, _, _ = svc.Register(ctx, validRegistration())

	_, _, unknown := svc.Login(ctx, "nobody@example.com", "password123")
	_, _, wrong := svc.Login(ctx, "alice@example.com", "wrongpass1")

	var a, b *apperror.AuthError
	if !errors.As(unknown, &a) || !errors.As(wrong, &b) {
		t.Fatalf("errors = %v / %v, want AuthError", unknown, wrong)
	}
	if a.Reason != apperror.ReasonInvalidCredentials || a.Message() != b.Message() || a.Reason != b.Reason {
		t.Errorf("unknown email %+v and wrong password %+v should match", a, b)
	}
}

func TestLoginDeactivatedAfterPasswordCheck(t *testing.T) {
	svc, db := newIdentity(t)
	ctx := context.Background()
	user, _, _ := svc.Register(ctx, validRegistration())
	db.Model(&model.User{}).Where("id = ?", user.ID).Update("is_active", false)

	_, _, err := svc.Login(ctx, "alice@example.com", "password123")
	var authErr *apperror.AuthError
	if !errors.As(err, &authErr) || authErr.Reason != apperror.ReasonDeactivated {
		t.Errorf("right password on inactive account = %v, want deactivated", err)
	}

	_, _, err = svc.Login(ctx, "alice@example.com", "wrongpass1")
	if !errors.As(err, &authErr) || authErr.Reason != apperror.ReasonInvalidCredentials {
		t.Errorf("wrong password on inactive account = %v, want invalid credentials", err)
	}
}

func TestChangePasswordRotatesToken(t *testing.T) {
	svc, db := newIdentity(t)
	ctx := context.Background()
	user, oldToken, _ := svc.Register(ctx, validRegistration())

	newToken, err := svc.ChangePassword(ctx, user, "password123", "newpassword456")
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if newToken.Key == oldToken.Key {
		t.Fatal("token should change")
	}

	if _, err := svc.Authenticate(ctx, oldToken.Key); err == nil {
		t.Error("old token must be rejected")
	}
	if got, err := svc.Authenticate(ctx, newToken.Key); err != nil || got.ID != user.ID {
		t.Errorf("Authenticate(new) = %v, %v", got, err)
	}

	var count int64
	db.Model(&model.SessionToken{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("token rows = %d, want 1", count)
	}

	if _, _, err := svc.Login(ctx, "alice@example.com", "password123"); err == nil {
		t.Error("old password must stop working")
	}
	if _, tok, err := svc.Login(ctx, "alice@example.com", "newpassword456"); err != nil || tok.Key != newToken.Key {
		t.Errorf("login with new password = %v", err)
	}
}

func TestChangePasswordValidation(t *testing.T) {
	svc, _ := newIdentity(t)
	ctx := context.Background()
	user, token, _ := svc.Register(ctx, validRegistration())

	tests := []struct {
		name  string
		old   string
		new   string
		field string
	}{
		{"wrong old password", "nope12345", "newpassword456", "old_password"},
		{"weak new password", "password123", "abc", "new_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ChangePassword(ctx, user, tt.old, tt.new)
			var verr *apperror.ValidationError
			if !errors.As(err, &verr) || verr.Fields[tt.field] == "" {
				t.Errorf("ChangePassword() = %v, want field %q", err, tt.field)
			}
		})
	}

	if _, err := svc.Authenticate(ctx, token.Key); err != nil {
		t.Errorf("failed change must keep the old token: %v", err)
	}
}

func TestLogout(t *testing.T) {
	svc, _ := newIdentity(t)
	ctx := context.Background()
	_, token, _ := svc.Register(ctx, validRegistration())

	if err := svc.Logout(ctx, token.Key); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if err := svc.Logout(ctx, token.Key); err != nil {
		t.Fatalf("Logout() on missing token should be a no-op: %v", err)
	}

	_, err := svc.Authenticate(ctx, token.Key)
	var authErr *apperror.AuthError
	if !errors.As(err, &authErr) || authErr.Reason != apperror.ReasonInvalidToken {
		t.Errorf("Authenticate() after logout = %v", err)
	}

	_, fresh, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil || fresh.Key == token.Key {
		t.Errorf("login after logout should issue a new token: %v", err)
	}
}

func TestAuthenticateRejectsInactiveUser(t *testing.T) {
	svc, db := newIdentity(t)
	ctx := context.Background()
	user, token, _ := svc.Register(ctx, validRegistration())
	db.Model(&model.User{}).Where("id = ?", user.ID).Update("is_active", false)

	if _, err := svc.Authenticate(ctx, token.Key); err == nil {
		t.Error("inactive user must not authenticate")
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, db := newIdentity(t)
	ctx := context.Background()
	user, _, _ := svc.Register(ctx, validRegistration())

	first := "  <b>Alicia</b> "
	if _, err := svc.UpdateProfile(ctx, user, ProfileInput{FirstName: &first}); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	var reloaded model.User
	db.First(&reloaded, user.ID)
	if reloaded.FirstName != "Alicia" || reloaded.LastName != "Liddell" {
		t.Errorf("names = %q %q", reloaded.FirstName, reloaded.LastName)
	}
}
