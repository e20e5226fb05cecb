package models

import (
	"time"

	id "admissio/pkg/domain"
	dErrors "admissio/pkg/domain-errors"
)

// Review is an HR manager's written assessment of an application.
type Review struct {
	ID            id.ReviewID      `json:"id"`
	ApplicationID id.ApplicationID `json:"application_id"`
	AuthorID      id.AccountID     `json:"author_id"`
	Comments      string           `json:"comments"`
	DateReviewed  time.Time        `json:"date_reviewed"`
	DateUpdated   time.Time        `json:"date_updated"`
}

// NewReview builds a review for an application.
func NewReview(applicationID id.ApplicationID, authorID id.AccountID, comments string, now time.Time) (*Review, error) {
	if comments == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "comments", "review comments are required")
	}
	if authorID.IsNil() {
		return nil, dErrors.NewField(dErrors.CodeValidation, "author", "a review author is required")
	}
	return &Review{
		ID:            id.NewReviewID(),
		ApplicationID: applicationID,
		AuthorID:      authorID,
		Comments:      comments,
		DateReviewed:  now,
		DateUpdated:   now,
	}, nil
}
