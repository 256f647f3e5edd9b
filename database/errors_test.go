package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/sahilchouksey/admissions-api/internal/testutil"
	"github.com/sahilchouksey/admissions-api/model"
)

func TestUniqueViolationDriverErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantOK    bool
		wantField string
	}{
		{"nil", nil, false, ""},
		{"pgx", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}, true, "email"},
		{"pgx wrapped", fmt.Errorf("register: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"}), true, "username"},
		{"pgx other code", &pgconn.PgError{Code: "23503"}, false, ""},
		{"lib/pq", &pq.Error{Code: "23505", Constraint: "idx_users_email"}, true, "email"},
		{"sqlite message", errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"), true, "username"},
		{"unrelated", errors.New("connection refused"), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			constraint, ok := UniqueViolation(tt.err)
			if ok != tt.wantOK {
				t.Fatalf("UniqueViolation() ok = %v, want %v", ok, tt.wantOK)
			}
			if got := ViolatedField(constraint, "email", "username"); got != tt.wantField {
				t.Errorf("ViolatedField(%q) = %q, want %q", constraint, got, tt.wantField)
			}
		})
	}
}

func TestUniqueViolationFromSQLite(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateUser(t, db, "dup", "dup@example.com", "password123", false)

	err := db.Create(&model.User{Username: "other", Email: "dup@example.com", PasswordHash: "x", IsActive: true}).Error
	constraint, ok := UniqueViolation(err)
	if !ok {
		t.Fatalf("UniqueViolation(%v) = false", err)
	}
	if ViolatedField(constraint, "email", "username") != "email" {
		t.Errorf("constraint %q should name email", constraint)
	}
}
