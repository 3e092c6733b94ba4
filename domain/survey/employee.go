package survey

import (
	"strings"
	"time"
)

// Hierarchy is the chain of organisational levels an employee belongs to,
// from company (level 0) down to area (level 4).
type Hierarchy struct {
	Company      string
	Directorate  string
	Management   string
	Coordination string
	Area         string
}

// Profile carries every employee attribute other than the email identity
// and the department reference. A sync overwrites the whole profile.
type Profile struct {
	Name           string
	CorporateEmail string
	Phone          string
	Role           string
	Function       string
	Location       string
	Tenure         string
	Gender         string
	Generation     string
	Hierarchy      Hierarchy
}

// Employee is a survey respondent, identified by email.
type Employee struct {
	id           int64
	email        string
	departmentID int64
	profile      Profile
	tenureRank   int
	createdAt    time.Time
	updatedAt    time.Time
}

// NewEmployee creates an employee that has not been persisted yet.
func NewEmployee(email string, departmentID int64, profile Profile) Employee {
	now := time.Now()
	return Employee{
		email:        email,
		departmentID: departmentID,
		profile:      profile,
		tenureRank:   TenureRank(profile.Tenure),
		createdAt:    now,
		updatedAt:    now,
	}
}

// ReconstructEmployee recreates an employee from persistence.
func ReconstructEmployee(
	id int64,
	email string,
	departmentID int64,
	profile Profile,
	tenureRank int,
	createdAt, updatedAt time.Time,
) Employee {
	return Employee{
		id:           id,
		email:        email,
		departmentID: departmentID,
		profile:      profile,
		tenureRank:   tenureRank,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the employee ID.
func (e Employee) ID() int64 { return e.id }

// Email returns the identity email.
func (e Employee) Email() string { return e.email }

// DepartmentID returns the referenced department.
func (e Employee) DepartmentID() int64 { return e.departmentID }

// Profile returns the non-identity attributes.
func (e Employee) Profile() Profile { return e.profile }

// TenureRank returns the ordinal derived from the tenure text.
func (e Employee) TenureRank() int { return e.tenureRank }

// CreatedAt returns the creation timestamp.
func (e Employee) CreatedAt() time.Time { return e.createdAt }

// UpdatedAt returns the last update timestamp.
func (e Employee) UpdatedAt() time.Time { return e.updatedAt }

// WithProfile returns a copy with every non-identity field replaced and the
// tenure rank recomputed.
func (e Employee) WithProfile(departmentID int64, profile Profile) Employee {
	e.departmentID = departmentID
	e.profile = profile
	e.tenureRank = TenureRank(profile.Tenure)
	e.updatedAt = time.Now()
	return e
}

type tenureBand struct {
	rank     int
	patterns []string
}

// Bands are checked longest-tenure first so "mais de 5" never matches an
// earlier band by accident.
var tenureBands = []tenureBand{
	{rank: 4, patterns: []string{"mais de 5", "more than 5"}},
	{rank: 3, patterns: []string{"entre 2 e 5", "2 to 5"}},
	{rank: 2, patterns: []string{"entre 1 e 2", "1 to 2"}},
	{rank: 1, patterns: []string{"menos de 1", "less than 1"}},
}

// TenureRank maps a free-text tenure category onto a sortable ordinal:
// under one year is 1, one to two years 2, two to five years 3, and more
// than five years 4. Unrecognised or empty text ranks 0.
func TenureRank(tenure string) int {
	text := strings.ToLower(strings.TrimSpace(tenure))
	if text == "" {
		return 0
	}
	for _, band := range tenureBands {
		for _, p := range band.patterns {
			if strings.Contains(text, p) {
				return band.rank
			}
		}
	}
	return 0
}
