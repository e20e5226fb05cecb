package service

import (
	"context"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
	dErrors "admissio/pkg/domain-errors"
	"admissio/pkg/platform/tx"
	"admissio/pkg/requestcontext"
)

// ReviewService manages staff reviews of applications.
type ReviewService struct {
	deps
}

func NewReviewService(stores Stores, runner tx.Runner, opts ...Option) *ReviewService {
	return &ReviewService{deps: newDeps(stores, runner, opts)}
}

// Add records a review authored by the acting staff account.
func (s *ReviewService) Add(ctx context.Context, applicationID id.ApplicationID, comments string) (*models.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.Add")
	defer span.End()

	author, ok := requestcontext.Actor(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "a review requires an authenticated author")
	}

	if _, err := s.stores.Applications.FindByID(ctx, applicationID); err != nil {
		return nil, translate(err, "application not found")
	}

	rev, err := models.NewReview(applicationID, author, comments, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.stores.Reviews.Create(ctx, rev); err != nil {
		return nil, internalErr("create review", err)
	}
	return rev, nil
}

// ListByApplication returns an application's reviews, newest first.
func (s *ReviewService) ListByApplication(ctx context.Context, applicationID id.ApplicationID) ([]*models.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.ListByApplication")
	defer span.End()

	if _, err := s.stores.Applications.FindByID(ctx, applicationID); err != nil {
		return nil, translate(err, "application not found")
	}
	reviews, err := s.stores.Reviews.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, internalErr("list reviews", err)
	}
	return reviews, nil
}
