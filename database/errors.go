package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// UniqueViolation reports whether err comes from a unique index and, when it
// can tell, which constraint fired. The constraint text is the Postgres
// constraint name, or the "table.column" list SQLite puts in its message.
func UniqueViolation(err error) (constraint string, ok bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return pqErr.Constraint, true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}

	msg := err.Error()
	if idx := strings.Index(msg, "UNIQUE constraint failed"); idx >= 0 {
		return strings.TrimSpace(strings.TrimPrefix(msg[idx:], "UNIQUE constraint failed:")), true
	}

	return "", false
}

// ViolatedField maps a unique violation to one of the candidate field names
// by looking for it in the constraint text. It returns "" when none match.
func ViolatedField(constraint string, candidates ...string) string {
	constraint = strings.ToLower(constraint)
	for _, field := range candidates {
		if strings.Contains(constraint, field) {
			return field
		}
	}
	return ""
}
