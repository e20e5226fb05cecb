// Package review persists application reviews.
package review

import (
	"context"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
)

// Store abstracts review persistence. ListByApplication returns reviews
// newest first.
type Store interface {
	Create(ctx context.Context, r *models.Review) error
	ListByApplication(ctx context.Context, applicationID id.ApplicationID) ([]*models.Review, error)
}
