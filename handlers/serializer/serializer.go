// Package serializer shapes models into the JSON bodies returned by the API.
package serializer

import (
	"time"

	"github.com/sahilchouksey/admissions-api/model"
	"github.com/sahilchouksey/admissions-api/services"
	"gorm.io/datatypes"
)

// UserResponse is the public view of an account
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}

// User serializes an account
func User(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
		CreatedAt: u.CreatedAt,
	}
}

func date(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := time.Time(*d).Format(services.DateLayout)
	return &s
}

// UniversityListItem is the compact form used in list views
type UniversityListItem struct {
	ID                    uint      `json:"id"`
	Name                  string    `json:"name"`
	Country               string    `json:"country"`
	City                  string    `json:"city"`
	Deadline              *string   `json:"deadline"`
	TuitionFee            *float64  `json:"tuition_fee"`
	AdmissionRate         *float64  `json:"admission_rate"`
	AdmissionRateDisplay  *string   `json:"admission_rate_display"`
	Ranking               *int      `json:"ranking"`
	UniversityType        string    `json:"university_type"`
	UniversityTypeDisplay string    `json:"university_type_display"`
	ScholarshipsAvailable bool      `json:"scholarships_available"`
	IsActive              bool      `json:"is_active"`
	ProgramCount          int64     `json:"program_count"`
	CreatedAt             time.Time `json:"created_at"`
}

// UniversityList serializes list results
func UniversityList(items []services.UniversitySummary) []UniversityListItem {
	out := make([]UniversityListItem, 0, len(items))
	for i := range items {
		u := &items[i].University
		out = append(out, UniversityListItem{
			ID:                    u.ID,
			Name:                  u.Name,
			Country:               u.Country,
			City:                  u.City,
			Deadline:              date(u.Deadline),
			TuitionFee:            u.TuitionFee,
			AdmissionRate:         u.AdmissionRate,
			AdmissionRateDisplay:  u.AdmissionRateDisplay(),
			Ranking:               u.Ranking,
			UniversityType:        string(u.UniversityType),
			UniversityTypeDisplay: u.UniversityType.Display(),
			ScholarshipsAvailable: u.ScholarshipsAvailable,
			IsActive:              u.IsActive,
			ProgramCount:          items[i].ProgramCount,
			CreatedAt:             u.CreatedAt,
		})
	}
	return out
}

// UniversityResponse is the full record, with embedded programs
type UniversityResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`

	Country string `json:"country"`
	City    string `json:"city"`
	Address string `json:"address"`

	Deadline             *string  `json:"deadline"`
	ApplicationFee       *float64 `json:"application_fee"`
	TuitionFee           *float64 `json:"tuition_fee"`
	AdmissionRate        *float64 `json:"admission_rate"`
	AdmissionRateDisplay *string  `json:"admission_rate_display"`

	FoundedYear           *int   `json:"founded_year"`
	UniversityType        string `json:"university_type"`
	UniversityTypeDisplay string `json:"university_type_display"`
	Ranking               *int   `json:"ranking"`

	IELTSScore *float64 `json:"ielts_score"`
	TOEFLScore *int     `json:"toefl_score"`
	GREScore   *int     `json:"gre_score"`
	GMATScore  *int     `json:"gmat_score"`

	ScholarshipsAvailable   bool   `json:"scholarships_available"`
	ScholarshipsDescription string `json:"scholarships_description"`

	Email string `json:"email"`
	Phone string `json:"phone"`

	IsActive  bool      `json:"is_active"`
	CreatedBy *uint     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Programs []ProgramResponse `json:"programs"`
}

// University serializes a single university
func University(u *model.University) UniversityResponse {
	return UniversityResponse{
		ID:                      u.ID,
		Name:                    u.Name,
		Description:             u.Description,
		Website:                 u.Website,
		Country:                 u.Country,
		City:                    u.City,
		Address:                 u.Address,
		Deadline:                date(u.Deadline),
		ApplicationFee:          u.ApplicationFee,
		TuitionFee:              u.TuitionFee,
		AdmissionRate:           u.AdmissionRate,
		AdmissionRateDisplay:    u.AdmissionRateDisplay(),
		FoundedYear:             u.FoundedYear,
		UniversityType:          string(u.UniversityType),
		UniversityTypeDisplay:   u.UniversityType.Display(),
		Ranking:                 u.Ranking,
		IELTSScore:              u.IELTSScore,
		TOEFLScore:              u.TOEFLScore,
		GREScore:                u.GREScore,
		GMATScore:               u.GMATScore,
		ScholarshipsAvailable:   u.ScholarshipsAvailable,
		ScholarshipsDescription: u.ScholarshipsDescription,
		Email:                   u.Email,
		Phone:                   u.Phone,
		IsActive:                u.IsActive,
		CreatedBy:               u.CreatedByID,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
		Programs:                Programs(u.Programs),
	}
}

// ProgramResponse is the public view of a program
type ProgramResponse struct {
	ID                uint      `json:"id"`
	University        uint      `json:"university"`
	Name              string    `json:"name"`
	DegreeType        string    `json:"degree_type"`
	DegreeTypeDisplay string    `json:"degree_type_display"`
	DurationYears     *float64  `json:"duration_years"`
	TuitionFee        *float64  `json:"tuition_fee"`
	IntakeMonths      string    `json:"intake_months"`
	Description       string    `json:"description"`
	Requirements      string    `json:"requirements"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

// Program serializes a single program
func Program(p *model.Program) ProgramResponse {
	return ProgramResponse{
		ID:                p.ID,
		University:        p.UniversityID,
		Name:              p.Name,
		DegreeType:        string(p.DegreeType),
		DegreeTypeDisplay: p.DegreeType.Display(),
		DurationYears:     p.DurationYears,
		TuitionFee:        p.TuitionFee,
		IntakeMonths:      p.IntakeMonths,
		Description:       p.Description,
		Requirements:      p.Requirements,
		IsActive:          p.IsActive,
		CreatedAt:         p.CreatedAt,
	}
}

// Programs serializes a slice of programs, never returning nil
func Programs(programs []model.Program) []ProgramResponse {
	out := make([]ProgramResponse, 0, len(programs))
	for i := range programs {
		out = append(out, Program(&programs[i]))
	}
	return out
}

// ApplicationResponse flattens the university into the application
type ApplicationResponse struct {
	ID                uint      `json:"id"`
	University        uint      `json:"university"`
	UniversityName    string    `json:"university_name"`
	UniversityCountry string    `json:"university_country"`
	UniversityCity    string    `json:"university_city"`
	Status            string    `json:"status"`
	StatusDisplay     string    `json:"status_display"`
	Notes             string    `json:"notes"`
	AppliedAt         time.Time `json:"applied_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Application serializes a single application
func Application(a *model.Application) ApplicationResponse {
	res := ApplicationResponse{
		ID:            a.ID,
		University:    a.UniversityID,
		Status:        string(a.Status),
		StatusDisplay: a.Status.Display(),
		Notes:         a.Notes,
		AppliedAt:     a.AppliedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.University != nil {
		res.UniversityName = a.University.Name
		res.UniversityCountry = a.University.Country
		res.UniversityCity = a.University.City
	}
	return res
}

// Applications serializes a slice of applications, never returning nil
func Applications(applications []model.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(applications))
	for i := range applications {
		out = append(out, Application(&applications[i]))
	}
	return out
}

// DashboardResponse is the body of the dashboard stats endpoint
type DashboardResponse struct {
	AppliedCount       int64                 `json:"applied_count"`
	AddedCount         int64                 `json:"added_count"`
	RecentApplications []ApplicationResponse `json:"recent_applications"`
}

// Dashboard serializes dashboard stats
func Dashboard(s *services.DashboardStats) DashboardResponse {
	return DashboardResponse{
		AppliedCount:       s.AppliedCount,
		AddedCount:         s.AddedCount,
		RecentApplications: Applications(s.RecentApplications),
	}
}
