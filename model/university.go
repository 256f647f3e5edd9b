package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// UniversityType classifies how an institution is funded
type UniversityType string

const (
	UniversityTypePublic     UniversityType = "public"
	UniversityTypePrivate    UniversityType = "private"
	UniversityTypeGovernment UniversityType = "government"
)

var universityTypeLabels = map[UniversityType]string{
	UniversityTypePublic:     "Public",
	UniversityTypePrivate:    "Private",
	UniversityTypeGovernment: "Government",
}

// Valid reports whether t is one of the known university types
func (t UniversityType) Valid() bool {
	_, ok := universityTypeLabels[t]
	return ok
}

// Display returns the human readable label
func (t UniversityType) Display() string {
	if label, ok := universityTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// University represents an institution accepting applications
type University struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Website     string `gorm:"type:varchar(255)" json:"website"`

	// Location
	Country string `gorm:"type:varchar(100);not null;index" json:"country"`
	City    string `gorm:"type:varchar(100);not null" json:"city"`
	Address string `gorm:"type:text" json:"address"`

	// Admission details
	Deadline       *datatypes.Date `json:"deadline"`
	ApplicationFee *float64        `json:"application_fee"`
	TuitionFee     *float64        `json:"tuition_fee"`
	AdmissionRate  *float64        `json:"admission_rate"` // percentage

	// Academic information
	FoundedYear    *int           `json:"founded_year"`
	UniversityType UniversityType `gorm:"type:varchar(50);not null;default:'private'" json:"university_type"`
	Ranking        *int           `json:"ranking"` // world ranking

	// Requirements
	IELTSScore *float64 `gorm:"column:ielts_score" json:"ielts_score"`
	TOEFLScore *int     `gorm:"column:toefl_score" json:"toefl_score"`
	GREScore   *int     `gorm:"column:gre_score" json:"gre_score"`
	GMATScore  *int     `gorm:"column:gmat_score" json:"gmat_score"`

	ScholarshipsAvailable   bool   `gorm:"not null;index" json:"scholarships_available"`
	ScholarshipsDescription string `gorm:"type:text" json:"scholarships_description"`

	// Contact
	Email string `gorm:"type:varchar(254)" json:"email"`
	Phone string `gorm:"type:varchar(20)" json:"phone"`

	IsActive    bool      `gorm:"not null;index" json:"is_active"`
	CreatedByID *uint     `gorm:"index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	CreatedBy    *User         `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
	Programs     []Program     `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"programs,omitempty"`
	Applications []Application `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"-"`
}

// AdmissionRateDisplay renders the admission rate as a percentage, nil when unset
func (u *University) AdmissionRateDisplay() *string {
	if u.AdmissionRate == nil || *u.AdmissionRate == 0 {
		return nil
	}
	s := fmt.Sprintf("%.2f%%", *u.AdmissionRate)
	return &s
}

// DegreeType is the award a program leads to
type DegreeType string

const (
	DegreeBachelors   DegreeType = "bachelors"
	DegreeMasters     DegreeType = "masters"
	DegreePhD         DegreeType = "phd"
	DegreeDiploma     DegreeType = "diploma"
	DegreeCertificate DegreeType = "certificate"
)

var degreeTypeLabels = map[DegreeType]string{
	DegreeBachelors:   "Bachelor's",
	DegreeMasters:     "Master's",
	DegreePhD:         "PhD",
	DegreeDiploma:     "Diploma",
	DegreeCertificate: "Certificate",
}

// Valid reports whether d is one of the known degree types
func (d DegreeType) Valid() bool {
	_, ok := degreeTypeLabels[d]
	return ok
}

// Display returns the human readable label
func (d DegreeType) Display() string {
	if label, ok := degreeTypeLabels[d]; ok {
		return label
	}
	return string(d)
}

// Program is a degree course offered by a university
type Program struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UniversityID  uint       `gorm:"not null;index" json:"university_id"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	DegreeType    DegreeType `gorm:"type:varchar(20);not null;index" json:"degree_type"`
	DurationYears *float64   `json:"duration_years"`
	TuitionFee    *float64   `json:"tuition_fee"`
	IntakeMonths  string     `gorm:"type:varchar(100)" json:"intake_months"` // e.g. "January, September"
	Description   string     `gorm:"type:text" json:"description"`
	Requirements  string     `gorm:"type:text" json:"requirements"`
	IsActive      bool       `gorm:"not null;index" json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relationships
	University *University `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"-"`
}
