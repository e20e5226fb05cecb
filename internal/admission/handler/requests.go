package handler

import (
	"time"

	"admissio/internal/admission/models"
	"admissio/internal/admission/service"
	id "admissio/pkg/domain"
	dErrors "admissio/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// applicantRequest is the nested applicant payload. Dates travel as
// YYYY-MM-DD strings.
type applicantRequest struct {
	FirstName            string   `json:"first_name"`
	LastName             string   `json:"last_name"`
	Gender               string   `json:"gender"`
	Email                string   `json:"email"`
	Phone                string   `json:"phone"`
	DateOfBirth          string   `json:"date_of_birth"`
	Degree               string   `json:"degree"`
	BaccalaureateSeries  string   `json:"baccalaureate_series"`
	BaccalaureateAverage *float64 `json:"baccalaureate_average"`
	BaccalaureateSession string   `json:"baccalaureate_session"`

	UniversityName         string   `json:"university_name,omitempty"`
	UniversityFieldOfStudy string   `json:"university_field_of_study,omitempty"`
	UniversityAverage      *float64 `json:"university_average,omitempty"`
}

func parseDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, dErrors.NewField(dErrors.CodeBadRequest, field, "expected a YYYY-MM-DD date")
	}
	return &t, nil
}

func (r *applicantRequest) toInput() (*service.NewApplicantInput, error) {
	dob, err := parseDate("date_of_birth", r.DateOfBirth)
	if err != nil {
		return nil, err
	}
	session, err := parseDate("baccalaureate_session", r.BaccalaureateSession)
	if err != nil {
		return nil, err
	}
	return &service.NewApplicantInput{
		FirstName:              r.FirstName,
		LastName:               r.LastName,
		Gender:                 r.Gender,
		Email:                  r.Email,
		Phone:                  r.Phone,
		DateOfBirth:            dob,
		Degree:                 r.Degree,
		BaccalaureateSeries:    r.BaccalaureateSeries,
		BaccalaureateAverage:   r.BaccalaureateAverage,
		BaccalaureateSession:   session,
		UniversityName:         r.UniversityName,
		UniversityFieldOfStudy: r.UniversityFieldOfStudy,
		UniversityAverage:      r.UniversityAverage,
	}, nil
}

type submitRequest struct {
	ApplicantID string            `json:"applicant_id,omitempty"`
	Applicant   *applicantRequest `json:"applicant,omitempty"`

	CentreID       string `json:"centre_id,omitempty"`
	CentreName     string `json:"centre_name,omitempty"`
	CentreLocation string `json:"centre_location,omitempty"`
}

func (r *submitRequest) toInput() (service.SubmitInput, error) {
	in := service.SubmitInput{
		CentreName:     r.CentreName,
		CentreLocation: r.CentreLocation,
	}
	if r.ApplicantID != "" {
		applicantID, err := id.ParseApplicantID(r.ApplicantID)
		if err != nil {
			return in, dErrors.NewField(dErrors.CodeBadRequest, "applicant_id", "invalid applicant ID")
		}
		in.ApplicantID = &applicantID
	}
	if r.Applicant != nil {
		nested, err := r.Applicant.toInput()
		if err != nil {
			return in, err
		}
		in.Applicant = nested
	}
	if r.CentreID != "" {
		centreID, err := id.ParseCentreID(r.CentreID)
		if err != nil {
			return in, dErrors.NewField(dErrors.CodeBadRequest, "centre_id", "invalid centre ID")
		}
		in.CentreID = &centreID
	}
	return in, nil
}

type applicantPatchRequest struct {
	FirstName              *string  `json:"first_name,omitempty"`
	LastName               *string  `json:"last_name,omitempty"`
	Email                  *string  `json:"email,omitempty"`
	Phone                  *string  `json:"phone,omitempty"`
	Degree                 *string  `json:"degree,omitempty"`
	UniversityFieldOfStudy *string  `json:"university_field_of_study,omitempty"`
	UniversityAverage      *float64 `json:"university_average,omitempty"`
}

func (r *applicantPatchRequest) toPatch() service.ApplicantPatch {
	return service.ApplicantPatch{
		FirstName:              r.FirstName,
		LastName:               r.LastName,
		Email:                  r.Email,
		Phone:                  r.Phone,
		Degree:                 r.Degree,
		UniversityFieldOfStudy: r.UniversityFieldOfStudy,
		UniversityAverage:      r.UniversityAverage,
	}
}

type updateApplicationRequest struct {
	Status    *string                `json:"status,omitempty"`
	Note      string                 `json:"note,omitempty"`
	Applicant *applicantPatchRequest `json:"applicant,omitempty"`
}

func (r *updateApplicationRequest) toInput() service.UpdateInput {
	in := service.UpdateInput{Status: r.Status, Note: r.Note}
	if r.Applicant != nil {
		patch := r.Applicant.toPatch()
		in.Applicant = &patch
	}
	return in
}

type centreRequest struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

type promoteRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type reviewRequest struct {
	Comments string `json:"comments"`
}

// trackResponse is the public tracking payload; internal identifiers stay
// out of it.
type trackResponse struct {
	TrackingID    string                   `json:"tracking_id"`
	Status        models.ApplicationStatus `json:"status"`
	DateSubmitted time.Time                `json:"date_submitted"`
	DateUpdated   time.Time                `json:"date_updated"`
}
