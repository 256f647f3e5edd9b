package model

import (
	"time"

	"gorm.io/datatypes"
)

// AdminAuditLog is the trail of catalog writes made by staff
type AdminAuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	StaffID    uint           `gorm:"not null;index" json:"staff_id"`
	Action     string         `gorm:"type:varchar(100);not null" json:"action"` // e.g. "university_update"
	Resource   string         `gorm:"type:varchar(100);index" json:"resource"`  // e.g. "universities"
	ResourceID uint           `json:"resource_id"`
	Payload    datatypes.JSON `json:"payload"`
	Status     int            `json:"status"`
	IPAddress  string         `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent  string         `gorm:"type:text" json:"user_agent"`
	CreatedAt  time.Time      `json:"created_at"`

	// Relationships
	Staff *User `gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for AdminAuditLog
func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}
