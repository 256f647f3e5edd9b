package auth

import (
	"errors"
	"testing"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	tm, err := NewTokenManager("secret", "admissions-test")
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}

	key, err := tm.Generate(42)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := tm.Parse(key)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.ID == "" {
		t.Error("jti should be set")
	}
}

func TestTokenManagerKeysAreUnique(t *testing.T) {
	tm, _ := NewTokenManager("secret", "admissions-test")

	first, _ := tm.Generate(1)
	second, _ := tm.Generate(1)
	if first == second {
		t.Error("two keys for the same user should differ")
	}
}

func TestTokenManagerRejectsForeignKeys(t *testing.T) {
	tm, _ := NewTokenManager("secret", "admissions-test")
	other, _ := NewTokenManager("other-secret", "admissions-test")
	otherIssuer, _ := NewTokenManager("secret", "someone-else")

	forged, _ := other.Generate(1)
	wrongIssuer, _ := otherIssuer.Generate(1)

	tests := []struct {
		name string
		key  string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong secret", forged},
		{"wrong issuer", wrongIssuer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tm.Parse(tt.key); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", "issuer"); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("NewTokenManager() error = %v, want ErrMissingSecret", err)
	}
}
