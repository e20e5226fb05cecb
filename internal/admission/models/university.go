package models

import (
	id "admissio/pkg/domain"
	dErrors "admissio/pkg/domain-errors"
)

// University is a simple reference entity applicants may link to.
// Resolved get-or-create by name.
type University struct {
	ID   id.UniversityID `json:"id"`
	Name string          `json:"name"`
}

// NewUniversity builds a university with a normalized name.
func NewUniversity(name string) (*University, error) {
	name = TitleCaseName(name)
	if name == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "university", "a university name is required")
	}
	return &University{ID: id.NewUniversityID(), Name: name}, nil
}
