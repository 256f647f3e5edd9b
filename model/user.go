package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Staff users may manage the catalog.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	FirstName    string         `gorm:"type:varchar(150)" json:"first_name"`
	LastName     string         `gorm:"type:varchar(150)" json:"last_name"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	IsStaff      bool           `gorm:"not null" json:"is_staff"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	LastLogin    *time.Time     `json:"last_login,omitempty"`

	// Relationships
	Applications []Application `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
