package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	Cost = bcrypt.MinCost

	hash, err := HashPassword("correct horse 1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse 1" {
		t.Fatal("hash must not equal the plain password")
	}

	if err := VerifyPassword(hash, "correct horse 1"); err != nil {
		t.Errorf("VerifyPassword() with right password = %v", err)
	}
	if err := VerifyPassword(hash, "wrong horse 1"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("VerifyPassword() with wrong password = %v, want ErrPasswordMismatch", err)
	}
}

func TestHashPasswordRejectsShort(t *testing.T) {
	if _, err := HashPassword("abc1"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("HashPassword() error = %v, want ErrPasswordTooShort", err)
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     error
	}{
		{"valid", "password123", nil},
		{"too short", "pass1", ErrPasswordTooShort},
		{"digits only", "12345678", ErrPasswordNoLetter},
		{"letters only", "password", ErrPasswordNoDigit},
		{"unicode letters", "пароль1234", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPasswordStrength(tt.password); !errors.Is(got, tt.want) {
				t.Errorf("CheckPasswordStrength(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}
