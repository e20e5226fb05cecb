// Package applicant persists applicant profiles.
package applicant

import (
	"context"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
)

// Store abstracts applicant profile persistence.
//
// Create and Update surface uniqueness violations as *store.Conflict with
// the field set to "email", "phone" or "last_name" (the name+birthdate
// pair). FindByID returns sentinel.ErrNotFound for unknown IDs.
type Store interface {
	Create(ctx context.Context, profile *models.ApplicantProfile) error
	Update(ctx context.Context, profile *models.ApplicantProfile) error
	FindByID(ctx context.Context, applicantID id.ApplicantID) (*models.ApplicantProfile, error)
	List(ctx context.Context) ([]*models.ApplicantProfile, error)
}
