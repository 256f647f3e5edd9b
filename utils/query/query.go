// Package query turns optional request parameters into GORM scopes for the
// catalog listings.
package query

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope is a reusable GORM query modifier
type Scope = func(*gorm.DB) *gorm.DB

// DefaultOrdering is used when ordering is absent or not whitelisted
const DefaultOrdering = "name"

// universityOrderColumns whitelists the sort keys accepted from clients
var universityOrderColumns = map[string]string{
	"name":            "name",
	"country":         "country",
	"city":            "city",
	"ranking":         "ranking",
	"deadline":        "deadline",
	"tuition_fee":     "tuition_fee",
	"application_fee": "application_fee",
	"admission_rate":  "admission_rate",
	"founded_year":    "founded_year",
	"created_at":      "created_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains matches column against value case-insensitively, as a substring.
// LIKE wildcards inside value match literally.
func Contains(column, value string) Scope {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", pattern)
	}
}

// ContainsAny is Contains over several columns, joined with OR
func ContainsAny(value string, columns ...string) Scope {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
	conds := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, column := range columns {
		conds[i] = "LOWER(" + column + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// Active restricts a listing to rows with is_active = true
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// CreatedBy restricts universities to those created by userID
func CreatedBy(userID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_by_id = ?", userID)
	}
}

// UniversityFilter holds the recognised university list parameters
type UniversityFilter struct {
	Country      string
	City         string
	Type         string
	Scholarships bool
	Search       string
	Ordering     string
}

// ParseUniversityFilter reads the filter from raw query parameters. Unknown
// keys are ignored; scholarships only filters when it is exactly "true".
func ParseUniversityFilter(params map[string]string) UniversityFilter {
	return UniversityFilter{
		Country:      strings.TrimSpace(params["country"]),
		City:         strings.TrimSpace(params["city"]),
		Type:         strings.TrimSpace(params["type"]),
		Scholarships: params["scholarships"] == "true",
		Search:       strings.TrimSpace(params["search"]),
		Ordering:     strings.TrimSpace(params["ordering"]),
	}
}

// Scopes returns the filters in application order, ordering last
func (f UniversityFilter) Scopes() []Scope {
	var scopes []Scope
	if f.Country != "" {
		scopes = append(scopes, Contains("country", f.Country))
	}
	if f.City != "" {
		scopes = append(scopes, Contains("city", f.City))
	}
	if f.Type != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("university_type = ?", f.Type)
		})
	}
	if f.Scholarships {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("scholarships_available = ?", true)
		})
	}
	if f.Search != "" {
		scopes = append(scopes, Contains("name", f.Search))
	}
	return append(scopes, OrderUniversities(f.Ordering))
}

// ResolveOrdering maps a client ordering such as "-ranking" to a column and
// direction. ok is false when the key is not whitelisted; the default
// ordering is returned in that case.
func ResolveOrdering(ordering string) (column string, desc bool, ok bool) {
	key := ordering
	if strings.HasPrefix(key, "-") {
		desc = true
		key = key[1:]
	}

	column, ok = universityOrderColumns[key]
	if !ok {
		return universityOrderColumns[DefaultOrdering], false, false
	}
	return column, desc, true
}

// OrderUniversities sorts by the resolved ordering with id as a tiebreaker
func OrderUniversities(ordering string) Scope {
	column, desc, _ := ResolveOrdering(ordering)
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: column}, Desc: desc},
			{Column: clause.Column{Name: "id"}},
		}})
	}
}

// ProgramFilter holds the recognised program list parameters
type ProgramFilter struct {
	UniversityID uint
	DegreeType   string
}

// ParseProgramFilter reads the filter from raw query parameters. A university
// value that is not a positive integer is reported through ok=false.
func ParseProgramFilter(params map[string]string) (f ProgramFilter, ok bool) {
	f.DegreeType = strings.TrimSpace(params["degree_type"])

	if raw := strings.TrimSpace(params["university"]); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return f, false
		}
		f.UniversityID = uint(id)
	}
	return f, true
}

// Scopes returns the program filters, ordered by name then id
func (f ProgramFilter) Scopes() []Scope {
	var scopes []Scope
	if f.UniversityID != 0 {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("university_id = ?", f.UniversityID)
		})
	}
	if f.DegreeType != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("degree_type = ?", f.DegreeType)
		})
	}
	return append(scopes, func(db *gorm.DB) *gorm.DB {
		return db.Order("name ASC").Order("id ASC")
	})
}
