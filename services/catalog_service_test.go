package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sahilchouksey/admissions-api/internal/testutil"
	"github.com/sahilchouksey/admissions-api/model"
	"github.com/sahilchouksey/admissions-api/utils/apperror"
	"github.com/sahilchouksey/admissions-api/utils/query"
)

func strPtr(s string) *string     { return &s }
func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }
func uintPtr(u uint) *uint        { return &u }

func TestCreateUniversity(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	staff := testutil.CreateUser(t, db, "staff", "staff@example.com", "password123", true)

	u, err := svc.CreateUniversity(context.Background(), staff.ID, UniversityInput{
		Name:          strPtr(" Oxford "),
		Country:       strPtr("United Kingdom"),
		City:          strPtr("Oxford"),
		Deadline:      strPtr("2027-01-15"),
		AdmissionRate: floatPtr(17.5),
	})
	if err != nil {
		t.Fatalf("CreateUniversity() error = %v", err)
	}

	if u.Name != "Oxford" || !u.IsActive || u.UniversityType != model.UniversityTypePrivate {
		t.Errorf("university = %+v", u)
	}
	if u.CreatedByID == nil || *u.CreatedByID != staff.ID {
		t.Errorf("created_by = %v", u.CreatedByID)
	}
	if got := u.AdmissionRateDisplay(); got == nil || *got != "17.50%" {
		t.Errorf("AdmissionRateDisplay() = %v", got)
	}
}

func TestCreateUniversityValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)

	tests := []struct {
		name  string
		in    UniversityInput
		field string
	}{
		{"missing name", UniversityInput{Country: strPtr("X"), City: strPtr("Y")}, "name"},
		{"markup only name", UniversityInput{Name: strPtr("<b></b>"), Country: strPtr("X"), City: strPtr("Y")}, "name"},
		{"bad deadline", UniversityInput{Name: strPtr("N"), Country: strPtr("X"), City: strPtr("Y"), Deadline: strPtr("15/01/2027")}, "deadline"},
		{"bad type", UniversityInput{Name: strPtr("N"), Country: strPtr("X"), City: strPtr("Y"), UniversityType: strPtr("secret")}, "university_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUniversity(context.Background(), 0, tt.in)
			var verr *apperror.ValidationError
			if !errors.As(err, &verr) || verr.Fields[tt.field] == "" {
				t.Errorf("CreateUniversity() = %v, want field %q", err, tt.field)
			}
		})
	}
}

func TestListUniversitiesHidesInactiveAndCountsPrograms(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	open := testutil.CreateUniversity(t, db, "Open", "Canada", "Toronto", 0)
	closed := testutil.CreateUniversity(t, db, "Closed", "Canada", "Toronto", 0)
	db.Model(closed).Update("is_active", false)

	testutil.CreateProgram(t, db, open.ID, "A", model.DegreeBachelors)
	testutil.CreateProgram(t, db, open.ID, "B", model.DegreeMasters)
	retired := testutil.CreateProgram(t, db, open.ID, "C", model.DegreePhD)
	db.Model(retired).Update("is_active", false)

	list, err := svc.ListUniversities(ctx, query.UniversityFilter{})
	if err != nil {
		t.Fatalf("ListUniversities() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != open.ID {
		t.Fatalf("list = %+v", list)
	}
	if list[0].ProgramCount != 2 {
		t.Errorf("ProgramCount = %d, want 2", list[0].ProgramCount)
	}

	if _, err := svc.GetUniversity(ctx, closed.ID); !isNotFound(err) {
		t.Errorf("GetUniversity(inactive) = %v, want NotFound", err)
	}

	got, err := svc.GetUniversity(ctx, open.ID)
	if err != nil {
		t.Fatalf("GetUniversity() error = %v", err)
	}
	if len(got.Programs) != 2 {
		t.Errorf("embedded programs = %d, want 2 active", len(got.Programs))
	}
}

func isNotFound(err error) bool {
	var nf *apperror.NotFoundError
	return errors.As(err, &nf)
}

func TestMyUniversitiesIncludesInactive(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	staff := testutil.CreateUser(t, db, "staff", "staff@example.com", "password123", true)
	other := testutil.CreateUser(t, db, "other", "other@example.com", "password123", true)

	testutil.CreateUniversity(t, db, "Mine", "X", "Y", staff.ID)
	hidden := testutil.CreateUniversity(t, db, "Mine Hidden", "X", "Y", staff.ID)
	db.Model(hidden).Update("is_active", false)
	testutil.CreateUniversity(t, db, "Theirs", "X", "Y", other.ID)

	mine, err := svc.MyUniversities(context.Background(), staff.ID)
	if err != nil {
		t.Fatalf("MyUniversities() error = %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("got %d universities, want 2", len(mine))
	}
}

func TestUpdateUniversity(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()
	u := testutil.CreateUniversity(t, db, "Old", "X", "Y", 0)

	updated, err := svc.UpdateUniversity(ctx, u.ID, UniversityInput{Name: strPtr("New"), IsActive: boolPtr(false)}, true)
	if err != nil {
		t.Fatalf("partial UpdateUniversity() error = %v", err)
	}
	if updated.Name != "New" || updated.Country != "X" || updated.IsActive {
		t.Errorf("updated = %+v", updated)
	}

	// Inactive rows stay reachable for staff writes
	if _, err := svc.UpdateUniversity(ctx, u.ID, UniversityInput{IsActive: boolPtr(true)}, true); err != nil {
		t.Errorf("reactivate error = %v", err)
	}

	_, err = svc.UpdateUniversity(ctx, u.ID, UniversityInput{Name: strPtr("Only name")}, false)
	var verr *apperror.ValidationError
	if !errors.As(err, &verr) || verr.Fields["country"] == "" {
		t.Errorf("full update without country = %v", err)
	}

	if _, err := svc.UpdateUniversity(ctx, 9999, UniversityInput{Name: strPtr("x")}, true); !isNotFound(err) {
		t.Errorf("update missing = %v, want NotFound", err)
	}
}

func TestDeleteUniversityCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()
	student := testutil.CreateUser(t, db, "s", "s@example.com", "password123", false)

	doomed := testutil.CreateUniversity(t, db, "Doomed", "X", "Y", 0)
	kept := testutil.CreateUniversity(t, db, "Kept", "X", "Y", 0)
	testutil.CreateProgram(t, db, doomed.ID, "P1", model.DegreeBachelors)
	testutil.CreateProgram(t, db, doomed.ID, "P2", model.DegreeMasters)
	keptProgram := testutil.CreateProgram(t, db, kept.ID, "P3", model.DegreeBachelors)
	db.Create(&model.Application{UserID: student.ID, UniversityID: doomed.ID, Status: model.ApplicationPending})
	db.Create(&model.Application{UserID: student.ID, UniversityID: kept.ID, Status: model.ApplicationPending})

	if err := svc.DeleteUniversity(ctx, doomed.ID); err != nil {
		t.Fatalf("DeleteUniversity() error = %v", err)
	}

	var programs []model.Program
	db.Find(&programs)
	if len(programs) != 1 || programs[0].ID != keptProgram.ID {
		t.Errorf("remaining programs = %+v", programs)
	}

	var applications int64
	db.Model(&model.Application{}).Count(&applications)
	if applications != 1 {
		t.Errorf("remaining applications = %d, want 1", applications)
	}

	if err := svc.DeleteUniversity(ctx, doomed.ID); !isNotFound(err) {
		t.Errorf("second delete = %v, want NotFound", err)
	}
}

func TestProgramCRUD(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()
	a := testutil.CreateUniversity(t, db, "A", "X", "Y", 0)
	b := testutil.CreateUniversity(t, db, "B", "X", "Y", 0)

	p, err := svc.CreateProgram(ctx, ProgramInput{UniversityID: uintPtr(a.ID), Name: strPtr("Physics"), DegreeType: strPtr("bachelors")})
	if err != nil {
		t.Fatalf("CreateProgram() error = %v", err)
	}

	_, err = svc.CreateProgram(ctx, ProgramInput{UniversityID: uintPtr(9999), Name: strPtr("Ghost"), DegreeType: strPtr("phd")})
	var verr *apperror.ValidationError
	if !errors.As(err, &verr) || verr.Fields["university"] == "" {
		t.Errorf("CreateProgram(unknown university) = %v", err)
	}

	moved, err := svc.UpdateProgram(ctx, p.ID, ProgramInput{UniversityID: uintPtr(b.ID)}, true)
	if err != nil || moved.UniversityID != b.ID {
		t.Fatalf("UpdateProgram() = %+v, %v", moved, err)
	}

	list, _ := svc.ListPrograms(ctx, query.ProgramFilter{UniversityID: b.ID})
	if len(list) != 1 {
		t.Errorf("programs at B = %d, want 1", len(list))
	}

	if err := svc.DeleteProgram(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProgram() error = %v", err)
	}
	if _, err := svc.GetProgram(ctx, p.ID); !isNotFound(err) {
		t.Errorf("GetProgram after delete = %v", err)
	}
	if err := svc.DeleteProgram(ctx, p.ID); !isNotFound(err) {
		t.Errorf("DeleteProgram twice = %v", err)
	}
}
