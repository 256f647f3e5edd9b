package model

import (
	"time"
)

// SessionToken is the single live credential of a user. The unique index on
// user_id is what keeps a user at one token.
type SessionToken struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Key       string    `gorm:"type:varchar(512);uniqueIndex;not null" json:"key"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for SessionToken
func (SessionToken) TableName() string {
	return "session_tokens"
}
