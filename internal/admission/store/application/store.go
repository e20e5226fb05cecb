// Package application persists applications.
package application

import (
	"context"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
)

// Store abstracts application persistence.
//
// Create surfaces uniqueness violations as *store.Conflict with the field
// set to "tracking_id" (candidate collision, retried by the submission
// protocol) or "applicant" (the one-application-per-applicant rule).
// Reads materialize the load-time status baseline via MarkLoaded.
type Store interface {
	Create(ctx context.Context, app *models.Application) error
	Update(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error)
	FindByTrackingID(ctx context.Context, trackingID string) (*models.Application, error)
	TrackingIDExists(ctx context.Context, trackingID string) (bool, error)
	ExistsByCentre(ctx context.Context, centreID id.CentreID) (bool, error)
	List(ctx context.Context) ([]*models.Application, error)
}
