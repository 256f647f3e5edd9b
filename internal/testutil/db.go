// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sahilchouksey/admissions-api/model"
	"github.com/sahilchouksey/admissions-api/utils/auth"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// TokenSecret is the signing secret used by NewTokenManager
const TokenSecret = "test-secret"

// NewTestDB opens a private in-memory SQLite database with every model
// migrated. The database is closed when the test ends.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	auth.Cost = bcrypt.MinCost

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// One connection: the in-memory database lives as long as it does.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// NewTokenManager returns a token manager signed with TokenSecret
func NewTokenManager(t testing.TB) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(TokenSecret, "admissions-test")
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return tm
}

// CreateUser inserts an active user with the given password
func CreateUser(t testing.TB, db *gorm.DB, username, email, password string, staff bool) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsStaff:      staff,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// CreateUniversity inserts an active university owned by creatorID (0 for none)
func CreateUniversity(t testing.TB, db *gorm.DB, name, country, city string, creatorID uint) *model.University {
	t.Helper()
	u := &model.University{
		Name:           name,
		Country:        country,
		City:           city,
		UniversityType: model.UniversityTypePrivate,
		IsActive:       true,
	}
	if creatorID != 0 {
		u.CreatedByID = &creatorID
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create university %s: %v", name, err)
	}
	return u
}

// CreateProgram inserts an active program under universityID
func CreateProgram(t testing.TB, db *gorm.DB, universityID uint, name string, degree model.DegreeType) *model.Program {
	t.Helper()
	p := &model.Program{
		UniversityID: universityID,
		Name:         name,
		DegreeType:   degree,
		IsActive:     true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create program %s: %v", name, err)
	}
	return p
}
