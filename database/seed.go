package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/admissions-api/model"
	"github.com/sahilchouksey/admissions-api/utils/auth"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll creates the staff account (when credentials are given) and the
// sample catalog.
func (s *Seeder) SeedAll(email, username, password string) error {
	log.Info("Starting database seeding...")

	var creatorID *uint
	if email != "" && password != "" {
		staff, err := s.SeedStaffUser(email, username, password)
		if err != nil {
			return fmt.Errorf("failed to seed staff user: %w", err)
		}
		creatorID = &staff.ID
	} else {
		log.Warn("ADMIN_EMAIL and ADMIN_PASSWORD not set, skipping staff user creation")
	}

	if err := s.SeedUniversities(creatorID); err != nil {
		return fmt.Errorf("failed to seed universities: %w", err)
	}

	log.Info("Database seeding completed successfully!")
	return nil
}

// SeedStaffUser creates an active staff account, or promotes the existing
// account with that email. The password is only set on creation.
func (s *Seeder) SeedStaffUser(email, username, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing model.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if err := s.db.Model(&existing).Updates(map[string]interface{}{
			"is_staff":  true,
			"is_active": true,
		}).Error; err != nil {
			return nil, err
		}
		log.Infof("Promoted existing user %s to staff", existing.Email)
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := auth.CheckPasswordStrength(password); err != nil {
		return nil, err
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	staff := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    "System",
		LastName:     "Administrator",
		IsStaff:      true,
		IsActive:     true,
	}
	if err := s.db.Create(staff).Error; err != nil {
		return nil, err
	}

	log.Infof("Created staff user: %s", staff.Email)
	return staff, nil
}

func float(v float64) *float64 { return &v }
func integer(v int) *int       { return &v }

func date(year int, month time.Month, day int) *datatypes.Date {
	d := datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
	return &d
}

// SeedUniversities creates sample universities with their programs
func (s *Seeder) SeedUniversities(creatorID *uint) error {
	// Check if universities already exist
	var count int64
	if err := s.db.Model(&model.University{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Info("Universities already exist, skipping...")
		return nil
	}

	universities := []model.University{
		{
			Name:                    "University of Toronto",
			Description:             "Research university in downtown Toronto.",
			Website:                 "https://www.utoronto.ca",
			Country:                 "Canada",
			City:                    "Toronto",
			Deadline:                date(2027, time.January, 15),
			ApplicationFee:          float(180),
			TuitionFee:              float(61720),
			AdmissionRate:           float(43),
			FoundedYear:             integer(1827),
			UniversityType:          model.UniversityTypePublic,
			Ranking:                 integer(21),
			IELTSScore:              float(6.5),
			TOEFLScore:              integer(100),
			ScholarshipsAvailable:   true,
			ScholarshipsDescription: "Lester B. Pearson International Scholarship.",
			IsActive:                true,
			CreatedByID:             creatorID,
			Programs: []model.Program{
				{Name: "Computer Science", DegreeType: model.DegreeBachelors, DurationYears: float(4), IntakeMonths: "September", IsActive: true},
				{Name: "Applied Computing", DegreeType: model.DegreeMasters, DurationYears: float(1.5), IntakeMonths: "September", IsActive: true},
			},
		},
		{
			Name:                  "Technical University of Munich",
			Website:               "https://www.tum.de",
			Country:               "Germany",
			City:                  "Munich",
			Deadline:              date(2027, time.May, 31),
			ApplicationFee:        float(0),
			TuitionFee:            float(6000),
			FoundedYear:           integer(1868),
			UniversityType:        model.UniversityTypePublic,
			Ranking:               integer(28),
			IELTSScore:            float(6.5),
			TOEFLScore:            integer(88),
			GREScore:              integer(310),
			ScholarshipsAvailable: false,
			IsActive:              true,
			CreatedByID:           creatorID,
			Programs: []model.Program{
				{Name: "Informatics", DegreeType: model.DegreeMasters, DurationYears: float(2), IntakeMonths: "April, October", IsActive: true},
				{Name: "Mechanical Engineering", DegreeType: model.DegreePhD, DurationYears: float(4), IsActive: true},
			},
		},
		{
			Name:                    "University of Melbourne",
			Website:                 "https://www.unimelb.edu.au",
			Country:                 "Australia",
			City:                    "Melbourne",
			Deadline:                date(2026, time.November, 30),
			ApplicationFee:          float(100),
			TuitionFee:              float(47000),
			AdmissionRate:           float(70),
			FoundedYear:             integer(1853),
			UniversityType:          model.UniversityTypePublic,
			Ranking:                 integer(13),
			IELTSScore:              float(6.5),
			GMATScore:               integer(600),
			ScholarshipsAvailable:   true,
			ScholarshipsDescription: "Melbourne International Undergraduate Scholarship.",
			IsActive:                true,
			CreatedByID:             creatorID,
			Programs: []model.Program{
				{Name: "Business Administration", DegreeType: model.DegreeMasters, DurationYears: float(2), IntakeMonths: "February, July", IsActive: true},
				{Name: "Graduate Diploma in Education", DegreeType: model.DegreeDiploma, DurationYears: float(1), IsActive: true},
			},
		},
		{
			Name:           "Ashoka University",
			Website:        "https://www.ashoka.edu.in",
			Country:        "India",
			City:           "Sonipat",
			ApplicationFee: float(3500),
			TuitionFee:     float(1100000),
			FoundedYear:    integer(2014),
			UniversityType: model.UniversityTypePrivate,
			IsActive:       true,
			CreatedByID:    creatorID,
			Programs: []model.Program{
				{Name: "Liberal Studies", DegreeType: model.DegreeCertificate, DurationYears: float(1), IsActive: true},
			},
		},
	}

	if err := s.db.Create(&universities).Error; err != nil {
		return err
	}

	log.Infof("Created %d universities", len(universities))
	return nil
}
