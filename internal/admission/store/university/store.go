// Package university persists the university reference entities.
package university

import (
	"context"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
)

// Store abstracts university persistence. GetOrCreate resolves by
// normalized name, creating when absent.
type Store interface {
	GetOrCreate(ctx context.Context, u *models.University) (*models.University, error)
	FindByID(ctx context.Context, universityID id.UniversityID) (*models.University, error)
	List(ctx context.Context) ([]*models.University, error)
}
