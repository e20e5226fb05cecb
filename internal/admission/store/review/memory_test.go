package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
)

type ReviewStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestReviewStoreSuite(t *testing.T) {
	suite.Run(t, new(ReviewStoreSuite))
}

func (s *ReviewStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *ReviewStoreSuite) addReview(appID id.ApplicationID, comments string, at time.Time) *models.Review {
	r, err := models.NewReview(appID, id.NewAccountID(), comments, at)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, r))
	return r
}

func (s *ReviewStoreSuite) TestListNewestFirstPerApplication() {
	appID := id.NewApplicationID()
	otherID := id.NewApplicationID()
	base := time.Now().UTC()

	s.addReview(appID, "solid transcript", base)
	s.addReview(appID, "strong interview", base.Add(time.Hour))
	s.addReview(otherID, "unrelated", base.Add(2*time.Hour))

	reviews, err := s.store.ListByApplication(s.ctx, appID)
	s.Require().NoError(err)
	s.Require().Len(reviews, 2)
	s.Equal("strong interview", reviews[0].Comments)
	s.Equal("solid transcript", reviews[1].Comments)
}

func (s *ReviewStoreSuite) TestListUnknownApplicationIsEmpty() {
	reviews, err := s.store.ListByApplication(s.ctx, id.NewApplicationID())
	s.Require().NoError(err)
	s.Empty(reviews)
}

func (s *ReviewStoreSuite) TestCreateCopiesInput() {
	appID := id.NewApplicationID()
	r := s.addReview(appID, "original", time.Now().UTC())

	r.Comments = "mutated after store"

	reviews, err := s.store.ListByApplication(s.ctx, appID)
	s.Require().NoError(err)
	s.Require().Len(reviews, 1)
	s.Equal("original", reviews[0].Comments)
}
