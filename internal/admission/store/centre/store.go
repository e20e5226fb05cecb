// Package centre persists composition centres.
package centre

import (
	"context"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
)

// Store abstracts composition centre persistence.
//
// GetOrCreate resolves a centre by normalized name, creating it when absent;
// concurrent creators of the same name converge on one row. Delete returns
// sentinel.ErrReferenced while any application points at the centre.
type Store interface {
	GetOrCreate(ctx context.Context, centre *models.CompositionCentre) (*models.CompositionCentre, error)
	FindByID(ctx context.Context, centreID id.CentreID) (*models.CompositionCentre, error)
	FindByName(ctx context.Context, name string) (*models.CompositionCentre, error)
	List(ctx context.Context) ([]*models.CompositionCentre, error)
	Delete(ctx context.Context, centreID id.CentreID) error
}
