package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilchouksey/admissions-api/model"
	"github.com/sahilchouksey/admissions-api/utils/apperror"
	"github.com/sahilchouksey/admissions-api/utils/query"
	"github.com/sahilchouksey/admissions-api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// CatalogService handles universities and their programs
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// UniversityInput carries the writable university fields. Nil fields are
// left unchanged on update.
type UniversityInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Website     *string `json:"website" validate:"omitempty,url,max=255"`

	Country *string `json:"country" validate:"omitempty,min=1,max=100"`
	City    *string `json:"city" validate:"omitempty,min=1,max=100"`
	Address *string `json:"address"`

	Deadline       *string  `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	ApplicationFee *float64 `json:"application_fee" validate:"omitempty,gte=0"`
	TuitionFee     *float64 `json:"tuition_fee" validate:"omitempty,gte=0"`
	AdmissionRate  *float64 `json:"admission_rate" validate:"omitempty,gte=0,lte=100"`

	FoundedYear    *int    `json:"founded_year" validate:"omitempty,gte=1000,lte=3000"`
	UniversityType *string `json:"university_type" validate:"omitempty,oneof=public private government"`
	Ranking        *int    `json:"ranking" validate:"omitempty,gte=1"`

	IELTSScore *float64 `json:"ielts_score" validate:"omitempty,gte=0,lte=9"`
	TOEFLScore *int     `json:"toefl_score" validate:"omitempty,gte=0,lte=120"`
	GREScore   *int     `json:"gre_score" validate:"omitempty,gte=260,lte=340"`
	GMATScore  *int     `json:"gmat_score" validate:"omitempty,gte=200,lte=800"`

	ScholarshipsAvailable   *bool   `json:"scholarships_available"`
	ScholarshipsDescription *string `json:"scholarships_description"`

	Email *string `json:"email" validate:"omitempty,email,max=254"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`

	IsActive *bool `json:"is_active"`
}

// ProgramInput carries the writable program fields
type ProgramInput struct {
	UniversityID  *uint    `json:"university" validate:"omitempty,gte=1"`
	Name          *string  `json:"name" validate:"omitempty,min=1,max=255"`
	DegreeType    *string  `json:"degree_type" validate:"omitempty,oneof=bachelors masters phd diploma certificate"`
	DurationYears *float64 `json:"duration_years" validate:"omitempty,gt=0,lte=99"`
	TuitionFee    *float64 `json:"tuition_fee" validate:"omitempty,gte=0"`
	IntakeMonths  *string  `json:"intake_months" validate:"omitempty,max=100"`
	Description   *string  `json:"description"`
	Requirements  *string  `json:"requirements"`
	IsActive      *bool    `json:"is_active"`
}

// UniversitySummary is a university together with its active program count
type UniversitySummary struct {
	model.University
	ProgramCount int64
}

func missingFields(pairs ...interface{}) *apperror.ValidationError {
	fields := map[string]string{}
	for i := 0; i+1 < len(pairs); i += 2 {
		name := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case *string:
			if v == nil || strings.TrimSpace(*v) == "" {
				fields[name] = "This field is required."
			}
		case *uint:
			if v == nil {
				fields[name] = "This field is required."
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &apperror.ValidationError{Fields: fields}
}

// requiredUniversityFields re-checks the mandatory fields after sanitizing
func requiredUniversityFields(u *model.University) *apperror.ValidationError {
	return missingFields("name", &u.Name, "country", &u.Country, "city", &u.City)
}

func text(s *string) string { return validation.SanitizeText(*s) }

func (in UniversityInput) apply(u *model.University) error {
	if in.Name != nil {
		u.Name = text(in.Name)
	}
	if in.Description != nil {
		u.Description = text(in.Description)
	}
	if in.Website != nil {
		u.Website = strings.TrimSpace(*in.Website)
	}
	if in.Country != nil {
		u.Country = text(in.Country)
	}
	if in.City != nil {
		u.City = text(in.City)
	}
	if in.Address != nil {
		u.Address = text(in.Address)
	}
	if in.Deadline != nil {
		if *in.Deadline == "" {
			u.Deadline = nil
		} else {
			t, err := time.Parse(DateLayout, *in.Deadline)
			if err != nil {
				return apperror.NewValidation("deadline", "Date has wrong format. Use YYYY-MM-DD.")
			}
			d := datatypes.Date(t)
			u.Deadline = &d
		}
	}
	if in.ApplicationFee != nil {
		u.ApplicationFee = in.ApplicationFee
	}
	if in.TuitionFee != nil {
		u.TuitionFee = in.TuitionFee
	}
	if in.AdmissionRate != nil {
		u.AdmissionRate = in.AdmissionRate
	}
	if in.FoundedYear != nil {
		u.FoundedYear = in.FoundedYear
	}
	if in.UniversityType != nil {
		t := model.UniversityType(*in.UniversityType)
		if !t.Valid() {
			return apperror.NewValidation("university_type", fmt.Sprintf("%q is not a valid choice.", *in.UniversityType))
		}
		u.UniversityType = t
	}
	if in.Ranking != nil {
		u.Ranking = in.Ranking
	}
	if in.IELTSScore != nil {
		u.IELTSScore = in.IELTSScore
	}
	if in.TOEFLScore != nil {
		u.TOEFLScore = in.TOEFLScore
	}
	if in.GREScore != nil {
		u.GREScore = in.GREScore
	}
	if in.GMATScore != nil {
		u.GMATScore = in.GMATScore
	}
	if in.ScholarshipsAvailable != nil {
		u.ScholarshipsAvailable = *in.ScholarshipsAvailable
	}
	if in.ScholarshipsDescription != nil {
		u.ScholarshipsDescription = text(in.ScholarshipsDescription)
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		u.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	return nil
}

func (in ProgramInput) apply(p *model.Program) error {
	if in.UniversityID != nil {
		p.UniversityID = *in.UniversityID
	}
	if in.Name != nil {
		p.Name = text(in.Name)
	}
	if in.DegreeType != nil {
		d := model.DegreeType(*in.DegreeType)
		if !d.Valid() {
			return apperror.NewValidation("degree_type", fmt.Sprintf("%q is not a valid choice.", *in.DegreeType))
		}
		p.DegreeType = d
	}
	if in.DurationYears != nil {
		p.DurationYears = in.DurationYears
	}
	if in.TuitionFee != nil {
		p.TuitionFee = in.TuitionFee
	}
	if in.IntakeMonths != nil {
		p.IntakeMonths = text(in.IntakeMonths)
	}
	if in.Description != nil {
		p.Description = text(in.Description)
	}
	if in.Requirements != nil {
		p.Requirements = text(in.Requirements)
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return nil
}

// ListUniversities returns the active universities matching filter
func (s *CatalogService) ListUniversities(ctx context.Context, filter query.UniversityFilter) ([]UniversitySummary, error) {
	var universities []model.University
	err := s.db.WithContext(ctx).
		Scopes(query.Active).
		Scopes(filter.Scopes()...).
		Find(&universities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}
	return s.withProgramCounts(ctx, universities)
}

// MyUniversities returns every university created by userID, active or not
func (s *CatalogService) MyUniversities(ctx context.Context, userID uint) ([]UniversitySummary, error) {
	var universities []model.University
	err := s.db.WithContext(ctx).
		Scopes(query.CreatedBy(userID), query.OrderUniversities(query.DefaultOrdering)).
		Find(&universities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}
	return s.withProgramCounts(ctx, universities)
}

func (s *CatalogService) withProgramCounts(ctx context.Context, universities []model.University) ([]UniversitySummary, error) {
	summaries := make([]UniversitySummary, len(universities))
	if len(universities) == 0 {
		return summaries, nil
	}

	ids := make([]uint, len(universities))
	for i, u := range universities {
		ids[i] = u.ID
	}

	var rows []struct {
		UniversityID uint
		Count        int64
	}
	err := s.db.WithContext(ctx).
		Model(&model.Program{}).
		Select("university_id, COUNT(*) AS count").
		Where("university_id IN ? AND is_active = ?", ids, true).
		Group("university_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count programs: %w", err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.UniversityID] = r.Count
	}
	for i, u := range universities {
		summaries[i] = UniversitySummary{University: u, ProgramCount: counts[u.ID]}
	}
	return summaries, nil
}

func (s *CatalogService) findUniversity(ctx context.Context, db *gorm.DB, id uint, activeOnly bool) (*model.University, error) {
	tx := db.WithContext(ctx)
	if activeOnly {
		tx = tx.Scopes(query.Active)
	}

	var university model.University
	if err := tx.First(&university, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Resource: "university"}
		}
		return nil, fmt.Errorf("failed to load university: %w", err)
	}
	return &university, nil
}

// GetUniversity returns an active university with its active programs
func (s *CatalogService) GetUniversity(ctx context.Context, id uint) (*model.University, error) {
	university, err := s.findUniversity(ctx, s.db, id, true)
	if err != nil {
		return nil, err
	}
	if err := s.loadPrograms(ctx, university); err != nil {
		return nil, err
	}
	return university, nil
}

func (s *CatalogService) loadPrograms(ctx context.Context, university *model.University) error {
	university.Programs = nil
	err := s.db.WithContext(ctx).
		Scopes(query.Active).
		Where("university_id = ?", university.ID).
		Order("name ASC").Order("id ASC").
		Find(&university.Programs).Error
	if err != nil {
		return fmt.Errorf("failed to load programs: %w", err)
	}
	return nil
}

// CreateUniversity stores a new university owned by creatorID
func (s *CatalogService) CreateUniversity(ctx context.Context, creatorID uint, in UniversityInput) (*model.University, error) {
	if verr := missingFields("name", in.Name, "country", in.Country, "city", in.City); verr != nil {
		return nil, verr
	}

	university := &model.University{
		UniversityType: model.UniversityTypePrivate,
		IsActive:       true,
		CreatedByID:    &creatorID,
	}
	if err := in.apply(university); err != nil {
		return nil, err
	}
	if verr := requiredUniversityFields(university); verr != nil {
		return nil, verr
	}

	if err := s.db.WithContext(ctx).Create(university).Error; err != nil {
		return nil, fmt.Errorf("failed to create university: %w", err)
	}
	university.Programs = []model.Program{}
	return university, nil
}

// UpdateUniversity changes a university. Staff may reach inactive rows so
// they can reactivate them. A full update requires the mandatory fields.
func (s *CatalogService) UpdateUniversity(ctx context.Context, id uint, in UniversityInput, partial bool) (*model.University, error) {
	if !partial {
		if verr := missingFields("name", in.Name, "country", in.Country, "city", in.City); verr != nil {
			return nil, verr
		}
	}

	university, err := s.findUniversity(ctx, s.db, id, false)
	if err != nil {
		return nil, err
	}
	if err := in.apply(university); err != nil {
		return nil, err
	}
	if verr := requiredUniversityFields(university); verr != nil {
		return nil, verr
	}

	if err := s.db.WithContext(ctx).Save(university).Error; err != nil {
		return nil, fmt.Errorf("failed to update university: %w", err)
	}
	if err := s.loadPrograms(ctx, university); err != nil {
		return nil, err
	}
	return university, nil
}

// DeleteUniversity removes a university with its applications and programs.
// Programs of other universities are untouched.
func (s *CatalogService) DeleteUniversity(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findUniversity(ctx, tx, id, false); err != nil {
			return err
		}

		if err := tx.Where("university_id = ?", id).Delete(&model.Application{}).Error; err != nil {
			return fmt.Errorf("failed to delete applications: %w", err)
		}
		if err := tx.Where("university_id = ?", id).Delete(&model.Program{}).Error; err != nil {
			return fmt.Errorf("failed to delete programs: %w", err)
		}
		if err := tx.Delete(&model.University{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete university: %w", err)
		}
		return nil
	})
}

// ListPrograms returns the active programs matching filter
func (s *CatalogService) ListPrograms(ctx context.Context, filter query.ProgramFilter) ([]model.Program, error) {
	var programs []model.Program
	err := s.db.WithContext(ctx).
		Scopes(query.Active).
		Scopes(filter.Scopes()...).
		Find(&programs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, nil
}

func (s *CatalogService) findProgram(ctx context.Context, id uint, activeOnly bool) (*model.Program, error) {
	tx := s.db.WithContext(ctx)
	if activeOnly {
		tx = tx.Scopes(query.Active)
	}

	var program model.Program
	if err := tx.First(&program, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Resource: "program"}
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}
	return &program, nil
}

// GetProgram returns an active program
func (s *CatalogService) GetProgram(ctx context.Context, id uint) (*model.Program, error) {
	return s.findProgram(ctx, id, true)
}

// CreateProgram stores a new program under an existing university
func (s *CatalogService) CreateProgram(ctx context.Context, in ProgramInput) (*model.Program, error) {
	if verr := missingFields("university", in.UniversityID, "name", in.Name, "degree_type", in.DegreeType); verr != nil {
		return nil, verr
	}
	if _, err := s.findUniversity(ctx, s.db, *in.UniversityID, false); err != nil {
		return nil, apperror.NewValidation("university", "Invalid university.")
	}

	program := &model.Program{IsActive: true}
	if err := in.apply(program); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(program).Error; err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	return program, nil
}

// UpdateProgram changes a program; moving it requires the target university to exist
func (s *CatalogService) UpdateProgram(ctx context.Context, id uint, in ProgramInput, partial bool) (*model.Program, error) {
	if !partial {
		if verr := missingFields("university", in.UniversityID, "name", in.Name, "degree_type", in.DegreeType); verr != nil {
			return nil, verr
		}
	}

	program, err := s.findProgram(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if in.UniversityID != nil && *in.UniversityID != program.UniversityID {
		if _, err := s.findUniversity(ctx, s.db, *in.UniversityID, false); err != nil {
			return nil, apperror.NewValidation("university", "Invalid university.")
		}
	}
	if err := in.apply(program); err != nil {
		return nil, err
	}
	if strings.TrimSpace(program.Name) == "" {
		return nil, apperror.NewValidation("name", "This field may not be blank.")
	}

	if err := s.db.WithContext(ctx).Save(program).Error; err != nil {
		return nil, fmt.Errorf("failed to update program: %w", err)
	}
	return program, nil
}

// DeleteProgram removes a program
func (s *CatalogService) DeleteProgram(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Program{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete program: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperror.NotFoundError{Resource: "program"}
	}
	return nil
}
