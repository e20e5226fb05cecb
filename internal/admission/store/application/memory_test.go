package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"admissio/internal/admission/models"
	"admissio/internal/admission/store"
	id "admissio/pkg/domain"
	"admissio/pkg/platform/sentinel"
)

type ApplicationStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestApplicationStoreSuite(t *testing.T) {
	suite.Run(t, new(ApplicationStoreSuite))
}

func (s *ApplicationStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *ApplicationStoreSuite) newApp(trackingID string) *models.Application {
	app := models.NewApplication(id.NewApplicantID(), id.NewCentreID(), time.Now())
	app.TrackingID = trackingID
	return app
}

func (s *ApplicationStoreSuite) TestCreateAndFind() {
	app := s.newApp("KO-140298-123")
	s.Require().NoError(s.store.Create(s.ctx, app))

	found, err := s.store.FindByID(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, found.Status)
	s.Equal(models.StatusPending, found.LoadedStatus, "reads must stamp the loaded baseline")

	byTracking, err := s.store.FindByTrackingID(s.ctx, "KO-140298-123")
	s.Require().NoError(err)
	s.Equal(app.ID, byTracking.ID)

	_, err = s.store.FindByID(s.ctx, id.NewApplicationID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ApplicationStoreSuite) TestTrackingIDUniqueness() {
	s.Require().NoError(s.store.Create(s.ctx, s.newApp("KO-140298-123")))

	dup := s.newApp("KO-140298-123")
	err := s.store.Create(s.ctx, dup)
	s.Require().Error(err)
	s.Equal("tracking_id", store.ConflictField(err))

	exists, err := s.store.TrackingIDExists(s.ctx, "KO-140298-123")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.store.TrackingIDExists(s.ctx, "XX-010101-999")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ApplicationStoreSuite) TestOneApplicationPerApplicant() {
	first := s.newApp("AA-010190-100")
	s.Require().NoError(s.store.Create(s.ctx, first))

	second := s.newApp("BB-010190-200")
	second.ApplicantID = first.ApplicantID
	err := s.store.Create(s.ctx, second)
	s.Require().Error(err)
	s.Equal("applicant", store.ConflictField(err))
}

func (s *ApplicationStoreSuite) TestUpdatePersistsStatus() {
	app := s.newApp("KO-140298-123")
	s.Require().NoError(s.store.Create(s.ctx, app))

	loaded, err := s.store.FindByID(s.ctx, app.ID)
	s.Require().NoError(err)
	loaded.Status = models.StatusAccepted
	s.Require().NoError(s.store.Update(s.ctx, loaded))

	again, err := s.store.FindByID(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusAccepted, again.Status)
	s.Equal(models.StatusAccepted, again.LoadedStatus)
}

func (s *ApplicationStoreSuite) TestExistsByCentre() {
	app := s.newApp("KO-140298-123")
	s.Require().NoError(s.store.Create(s.ctx, app))

	exists, err := s.store.ExistsByCentre(s.ctx, app.CentreID)
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.store.ExistsByCentre(s.ctx, id.NewCentreID())
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ApplicationStoreSuite) TestWriteHintsAreNotPersisted() {
	app := s.newApp("KO-140298-123")
	actor := id.NewAccountID()
	app.AttachActor(actor)
	app.AttachNote("internal note")
	s.Require().NoError(s.store.Create(s.ctx, app))

	found, err := s.store.FindByID(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Nil(found.ChangedBy)
	s.Empty(found.ChangeNote)
}
