package model

import (
	"time"
)

// ApplicationStatus tracks where an application stands. Any status may be set
// to any other; there is no enforced transition graph.
type ApplicationStatus string

const (
	ApplicationPending    ApplicationStatus = "pending"
	ApplicationAccepted   ApplicationStatus = "accepted"
	ApplicationRejected   ApplicationStatus = "rejected"
	ApplicationWaitlisted ApplicationStatus = "waitlisted"
)

var applicationStatusLabels = map[ApplicationStatus]string{
	ApplicationPending:    "Pending",
	ApplicationAccepted:   "Accepted",
	ApplicationRejected:   "Rejected",
	ApplicationWaitlisted: "Waitlisted",
}

// Valid reports whether s is a known status
func (s ApplicationStatus) Valid() bool {
	_, ok := applicationStatusLabels[s]
	return ok
}

// Display returns the human readable label
func (s ApplicationStatus) Display() string {
	if label, ok := applicationStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Application links a user to a university. A user applies at most once per
// university; the composite unique index enforces it in the store.
type Application struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	UserID       uint              `gorm:"not null;uniqueIndex:idx_applications_user_university" json:"user_id"`
	UniversityID uint              `gorm:"not null;uniqueIndex:idx_applications_user_university;index" json:"university_id"`
	Status       ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Notes        string            `gorm:"type:text" json:"notes"`
	AppliedAt    time.Time         `gorm:"autoCreateTime;index" json:"applied_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	// Relationships
	User       *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	University *University `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"university,omitempty"`
}
