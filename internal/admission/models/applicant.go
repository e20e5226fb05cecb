package models

import (
	"time"

	id "admissio/pkg/domain"
	dErrors "admissio/pkg/domain-errors"
)

// Gender is the applicant's declared gender.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

// Degree is the applicant's highest study degree.
type Degree string

const (
	DegreeHighSchool Degree = "HIGHSCHOOL"
	DegreeBachelor   Degree = "BACHELOR"
	DegreeMaster     Degree = "MASTER"
	DegreePhD        Degree = "PHD"
)

func (d Degree) Valid() bool {
	switch d {
	case DegreeHighSchool, DegreeBachelor, DegreeMaster, DegreePhD:
		return true
	}
	return false
}

// BaccalaureateSeries is the type of baccalaureate the applicant holds.
type BaccalaureateSeries string

const (
	BacSeriesC BaccalaureateSeries = "C"
	BacSeriesD BaccalaureateSeries = "D"
	BacSeriesE BaccalaureateSeries = "E"
	BacSeriesF BaccalaureateSeries = "F"
)

func (b BaccalaureateSeries) Valid() bool {
	switch b {
	case BacSeriesC, BacSeriesD, BacSeriesE, BacSeriesF:
		return true
	}
	return false
}

// ApplicantProfile is the aggregate holding an applicant's personal and
// academic data.
//
// Invariants:
//   - (LastName, DateOfBirth) is unique system-wide
//   - Email and Phone are each globally unique
//   - Names, email and phone are stored normalized (see normalize.go)
//   - BaccalaureateAverage lies in [0, 20]
//
// Profiles are created standalone or as a side effect of application
// creation, and are never deleted by the lifecycle logic.
type ApplicantProfile struct {
	ID        id.ApplicantID `json:"applicant_id"`
	UserID    *id.AccountID  `json:"user_id,omitempty"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Gender    Gender         `json:"gender"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`

	DateOfBirth time.Time `json:"date_of_birth"`

	Degree               Degree              `json:"degree"`
	BaccalaureateSeries  BaccalaureateSeries `json:"baccalaureate_series"`
	BaccalaureateAverage float64             `json:"baccalaureate_average"`
	BaccalaureateSession time.Time           `json:"baccalaureate_session"`

	UniversityID           *id.UniversityID `json:"university_id,omitempty"`
	UniversityFieldOfStudy string           `json:"university_field_of_study,omitempty"`
	UniversityAverage      *float64         `json:"university_average,omitempty"`

	DateRegistered time.Time `json:"date_registered"`
	DateUpdated    time.Time `json:"date_updated"`
}

// Normalize canonicalizes the free-text identity fields. Runs before every
// persistence.
func (p *ApplicantProfile) Normalize() {
	p.LastName = NormalizeLastName(p.LastName)
	p.FirstName = NormalizeFirstName(p.FirstName)
	p.Email = NormalizeEmail(p.Email)
	p.Phone = NormalizePhone(p.Phone)
}

// Validate enforces enum membership and value ranges after normalization.
func (p *ApplicantProfile) Validate() error {
	if !p.Gender.Valid() {
		return dErrors.NewField(dErrors.CodeValidation, "gender", "must be M or F")
	}
	if !p.Degree.Valid() {
		return dErrors.NewField(dErrors.CodeValidation, "degree", "unknown degree")
	}
	if !p.BaccalaureateSeries.Valid() {
		return dErrors.NewField(dErrors.CodeValidation, "baccalaureate_series", "unknown baccalaureate series")
	}
	if p.BaccalaureateAverage < 0 || p.BaccalaureateAverage > 20 {
		return dErrors.NewField(dErrors.CodeValidation, "baccalaureate_average", "must be between 0 and 20")
	}
	if p.UniversityAverage != nil && (*p.UniversityAverage < 0 || *p.UniversityAverage > 20) {
		return dErrors.NewField(dErrors.CodeValidation, "university_average", "must be between 0 and 20")
	}
	return nil
}
