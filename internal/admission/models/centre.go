package models

import (
	id "admissio/pkg/domain"
	dErrors "admissio/pkg/domain-errors"
)

// CompositionCentre is the physical location an application is associated
// with. Name is unique and stored normalized. A centre still referenced by
// an application cannot be deleted.
type CompositionCentre struct {
	ID       id.CentreID `json:"id"`
	Name     string      `json:"name"`
	Location string      `json:"location,omitempty"`
}

// NewCompositionCentre builds a centre with a normalized name.
func NewCompositionCentre(name, location string) (*CompositionCentre, error) {
	name = TitleCaseName(name)
	if name == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "name", "a composition centre name is required")
	}
	return &CompositionCentre{
		ID:       id.NewCentreID(),
		Name:     name,
		Location: location,
	}, nil
}
