package applicant

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

type ApplicantStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestApplicantStoreSuite(t *testing.T) {
	suite.Run(t, new(ApplicantStoreSuite))
}

func (s *ApplicantStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *ApplicantStoreSuite) newProfile(lastName, email, phone string) *models.ApplicantProfile {
	now := time.Now()
	return &models.ApplicantProfile{
		ID:                   id.NewApplicantID(),
		FirstName:            "Ade",
		LastName:             lastName,
		Gender:               models.GenderFemale,
		Email:                email,
		Phone:                phone,
		DateOfBirth:          time.Date(1998, 2, 14, 0, 0, 0, 0, time.UTC),
		Degree:               models.DegreeBachelor,
		BaccalaureateSeries:  models.BacSeriesD,
		BaccalaureateAverage: 13.2,
		BaccalaureateSession: time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC),
		DateRegistered:       now,
		DateUpdated:          now,
	}
}

func (s *ApplicantStoreSuite) TestCreateAndFind() {
	p := s.newProfile("KONE", "ade@example.com", "+22990000001")
	s.Require().NoError(s.store.Create(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("KONE", found.LastName)

	_, err = s.store.FindByID(s.ctx, id.NewApplicantID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ApplicantStoreSuite) TestUniqueness() {
	base := s.newProfile("KONE", "ade@example.com", "+22990000001")
	s.Require().NoError(s.store.Create(s.ctx, base))

	s.Run("rejects duplicate email", func() {
		dup := s.newProfile("DIALLO", "ADE@example.com", "+22990000002")
		err := s.store.Create(s.ctx, dup)
		s.Require().Error(err)
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
		s.Equal("email", store.ConflictField(err))
	})

	s.Run("rejects duplicate phone", func() {
		dup := s.newProfile("DIALLO", "other@example.com", "+22990000001")
		err := s.store.Create(s.ctx, dup)
		s.Equal("phone", store.ConflictField(err))
	})

	s.Run("rejects the same phone in a different spelling", func() {
		dup := s.newProfile("DIALLO", "other@example.com", "+229 90-00-00-01")
		dup.Normalize()
		err := s.store.Create(s.ctx, dup)
		s.Require().Error(err)
		s.Equal("phone", store.ConflictField(err))
	})

	s.Run("rejects duplicate last name and birth date", func() {
		dup := s.newProfile("KONE", "third@example.com", "+22990000003")
		err := s.store.Create(s.ctx, dup)
		s.Equal("last_name", store.ConflictField(err))
	})

	s.Run("allows same last name with a different birth date", func() {
		ok := s.newProfile("KONE", "fourth@example.com", "+22990000004")
		ok.DateOfBirth = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
		s.NoError(s.store.Create(s.ctx, ok))
	})
}

func (s *ApplicantStoreSuite) TestUpdate() {
	p := s.newProfile("KONE", "ade@example.com", "+22990000001")
	s.Require().NoError(s.store.Create(s.ctx, p))

	p.UniversityFieldOfStudy = "Mathematics"
	s.Require().NoError(s.store.Update(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Mathematics", found.UniversityFieldOfStudy)

	missing := s.newProfile("ABSENT", "absent@example.com", "+22990000009")
	s.ErrorIs(s.store.Update(s.ctx, missing), sentinel.ErrNotFound)
}

func (s *ApplicantStoreSuite) TestListNewestFirst() {
	older := s.newProfile("AAA", "a@example.com", "+22990000001")
	older.DateRegistered = time.Now().Add(-time.Hour)
	newer := s.newProfile("BBB", "b@example.com", "+22990000002")
	newer.DateOfBirth = time.Date(1999, 3, 3, 0, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.Create(s.ctx, older))
	s.Require().NoError(s.store.Create(s.ctx, newer))

	profiles, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(profiles, 2)
	s.Equal("BBB", profiles[0].LastName)
}

func (s *ApplicantStoreSuite) TestReadsReturnCopies() {
	p := s.newProfile("KONE", "ade@example.com", "+22990000001")
	s.Require().NoError(s.store.Create(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	found.LastName = "MUTATED"

	again, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("KONE", again.LastName)
}
