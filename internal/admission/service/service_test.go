package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"admissio/internal/admission/models"
	"admissio/internal/admission/recorder"
	"admissio/internal/admission/store/applicant"
	"admissio/internal/admission/store/application"
	"admissio/internal/admission/store/centre"
	"admissio/internal/admission/store/history"
	"admissio/internal/admission/store/review"
	"admissio/internal/admission/store/university"
	"admissio/internal/admission/tracking"
	id "admissio/pkg/domain"
	dErrors "admissio/pkg/domain-errors"
	"admissio/pkg/platform/tx"
	"admissio/pkg/requestcontext"
)

var trackingPattern = regexp.MustCompile(`^[A-Z]{2}-\d{6}-\d{3}$`)

type ServiceSuite struct {
	suite.Suite

	applicants   *applicant.InMemory
	applications *application.InMemory
	ledger       *history.InMemory
	centres      *centre.InMemory
	universities *university.InMemory
	reviews      *review.InMemory

	apps       *ApplicationService
	applicantS *ApplicantService
	centreS    *CentreService
	reviewS    *ReviewService

	ctx context.Context
	now time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.applicants = applicant.NewInMemory()
	s.applications = application.NewInMemory()
	s.ledger = history.NewInMemory()
	s.centres = centre.NewInMemory()
	s.universities = university.NewInMemory()
	s.reviews = review.NewInMemory()

	stores := Stores{
		Applicants:   s.applicants,
		Applications: s.applications,
		History:      s.ledger,
		Centres:      s.centres,
		Universities: s.universities,
		Reviews:      s.reviews,
	}
	runner := tx.Passthrough{}
	rec := recorder.NewStatusRecorder(s.ledger, nil)

	s.apps = NewApplicationService(stores, runner, WithObserver(rec))
	s.applicantS = NewApplicantService(stores, runner, nil)
	s.centreS = NewCentreService(stores, runner)
	s.reviewS = NewReviewService(stores, runner)

	s.now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func validApplicant() *NewApplicantInput {
	dob := time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC)
	session := time.Date(2008, 7, 1, 0, 0, 0, 0, time.UTC)
	avg := 14.5
	return &NewApplicantInput{
		FirstName:            " jane ",
		LastName:             " smith ",
		Gender:               "F",
		Email:                " Jane.Smith@Example.COM ",
		Phone:                "97000001",
		DateOfBirth:          &dob,
		Degree:               "BACHELOR",
		BaccalaureateSeries:  "C",
		BaccalaureateAverage: &avg,
		BaccalaureateSession: &session,
	}
}

func (s *ServiceSuite) submitValid() *models.Application {
	app, err := s.apps.Submit(s.ctx, SubmitInput{
		Applicant:  validApplicant(),
		CentreName: "cotonou centre",
	})
	s.Require().NoError(err)
	return app
}

func (s *ServiceSuite) TestSubmitCreatesProfileAndApplicationTogether() {
	app := s.submitValid()

	s.Equal(models.StatusPending, app.Status)
	s.Equal(s.now, app.DateSubmitted)
	s.Regexp(trackingPattern, app.TrackingID)
	s.Equal("SM", app.TrackingID[:2])
	s.Contains(app.TrackingID, "-120590-")

	s.Equal(1, s.applicants.Count())
	profile, err := s.applicants.FindByID(s.ctx, app.ApplicantID)
	s.Require().NoError(err)
	s.Equal("SMITH", profile.LastName)
	s.Equal("Jane", profile.FirstName)
	s.Equal("jane.smith@example.com", profile.Email)
	s.Equal("+22997000001", profile.Phone)

	centreRow, err := s.centres.FindByID(s.ctx, app.CentreID)
	s.Require().NoError(err)
	s.Equal("Cotonou Centre", centreRow.Name)
}

func (s *ServiceSuite) TestSubmitWritesInitialHistoryEntry() {
	app := s.submitValid()

	entries, err := s.ledger.ListByApplication(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Nil(entries[0].OldStatus)
	s.Equal(models.StatusPending, entries[0].NewStatus)
	s.Nil(entries[0].ChangedBy)
	s.Equal(models.SubmissionNote, entries[0].Note)
}

func (s *ServiceSuite) TestSubmitMissingFieldIsNamed() {
	in := validApplicant()
	in.Email = ""

	_, err := s.apps.Submit(s.ctx, SubmitInput{Applicant: in, CentreName: "Cotonou"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal("email", dErrors.FieldOf(err))
}

func (s *ServiceSuite) TestSubmitWithoutApplicantRejected() {
	_, err := s.apps.Submit(s.ctx, SubmitInput{CentreName: "Cotonou"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal("applicant", dErrors.FieldOf(err))
}

func (s *ServiceSuite) TestSubmitWithBothApplicantFormsRejected() {
	profile, err := s.applicantS.Create(s.ctx, *validApplicant())
	s.Require().NoError(err)

	other := validApplicant()
	other.LastName = "johnson"
	other.Email = "other@example.com"
	other.Phone = "97000002"

	_, err = s.apps.Submit(s.ctx, SubmitInput{
		ApplicantID: &profile.ID,
		Applicant:   other,
		CentreName:  "Cotonou",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal("applicant", dErrors.FieldOf(err))

	// The ambiguous request must not create a second profile.
	s.Equal(1, s.applicants.Count())
}

func (s *ServiceSuite) TestSubmitDuplicateEmailLeavesNoPartialState() {
	s.submitValid()

	dup := validApplicant()
	dup.LastName = "johnson"
	dup.Phone = "97000002"

	_, err := s.apps.Submit(s.ctx, SubmitInput{Applicant: dup, CentreName: "Cotonou Centre"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal("email", dErrors.FieldOf(err))

	s.Equal(1, s.applicants.Count())
	apps, listErr := s.applications.List(s.ctx)
	s.Require().NoError(listErr)
	s.Len(apps, 1)
	s.Equal(1, s.ledger.CountAll())
}

func (s *ServiceSuite) TestSubmitForExistingApplicant() {
	profile, err := s.applicantS.Create(s.ctx, *validApplicant())
	s.Require().NoError(err)

	app, err := s.apps.Submit(s.ctx, SubmitInput{
		ApplicantID: &profile.ID,
		CentreName:  "Porto-Novo",
	})
	s.Require().NoError(err)
	s.Equal(profile.ID, app.ApplicantID)
	s.Regexp(trackingPattern, app.TrackingID)
}

func (s *ServiceSuite) TestSubmitSecondApplicationForSameApplicantConflicts() {
	app := s.submitValid()

	_, err := s.apps.Submit(s.ctx, SubmitInput{
		ApplicantID: &app.ApplicantID,
		CentreName:  "Parakou",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal("applicant", dErrors.FieldOf(err))
}

func (s *ServiceSuite) TestSubmitRetriesOnTrackingCollision() {
	// Occupy the first candidate the pinned generator will draw, so the
	// submission must fall through to the second.
	dob := time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC)
	taken := tracking.NewWithRand(func(int) int { return 0 }).Candidate("SMITH", dob)
	blocker := models.NewApplication(id.NewApplicantID(), id.NewCentreID(), s.now)
	blocker.TrackingID = taken
	s.Require().NoError(s.applications.Create(s.ctx, blocker))

	draws := 0
	gen := tracking.NewWithRand(func(int) int {
		draws++
		return draws - 1 // 0 on the first draw, 1 on the second
	})
	stores := s.apps.stores
	svc := NewApplicationService(stores, tx.Passthrough{}, WithGenerator(gen),
		WithObserver(recorder.NewStatusRecorder(s.ledger, nil)))

	app, err := svc.Submit(s.ctx, SubmitInput{Applicant: validApplicant(), CentreName: "Cotonou"})
	s.Require().NoError(err)
	s.Equal(2, draws)
	s.NotEqual(taken, app.TrackingID)
	s.Regexp(trackingPattern, app.TrackingID)
}

func (s *ServiceSuite) TestSubmitExhaustsTrackingAttempts() {
	dob := time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC)
	gen := tracking.NewWithRand(func(int) int { return 0 })
	taken := gen.Candidate("SMITH", dob)
	blocker := models.NewApplication(id.NewApplicantID(), id.NewCentreID(), s.now)
	blocker.TrackingID = taken
	s.Require().NoError(s.applications.Create(s.ctx, blocker))

	svc := NewApplicationService(s.apps.stores, tx.Passthrough{}, WithGenerator(gen))

	_, err := svc.Submit(s.ctx, SubmitInput{Applicant: validApplicant(), CentreName: "Cotonou"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeExhausted))

	// Exhaustion happens before any write: no profile was created.
	s.Equal(0, s.applicants.Count())
}

func (s *ServiceSuite) TestDistinctTrackingIDsAcrossSubmissions() {
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		in := validApplicant()
		in.LastName = fmt.Sprintf("smith%d", i)
		in.Email = fmt.Sprintf("jane%d@example.com", i)
		in.Phone = fmt.Sprintf("9700010%d", i)

		app, err := s.apps.Submit(s.ctx, SubmitInput{Applicant: in, CentreName: "Cotonou"})
		s.Require().NoError(err)
		s.False(seen[app.TrackingID], "tracking ID %s issued twice", app.TrackingID)
		seen[app.TrackingID] = true
	}
}

func (s *ServiceSuite) TestUpdateStatusAppendsExactlyOneEntry() {
	app := s.submitValid()

	actor := id.NewAccountID()
	ctx := requestcontext.WithActor(s.ctx, actor)
	ctx = requestcontext.WithTime(ctx, s.now.Add(time.Hour))

	accepted := string(models.StatusAccepted)
	updated, err := s.apps.Update(ctx, app.ID, UpdateInput{
		Status: &accepted,
		Note:   "baccalaureate verified",
	})
	s.Require().NoError(err)
	s.Equal(models.StatusAccepted, updated.Status)

	entries, err := s.ledger.ListByApplication(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	s.Require().NotNil(entries[0].OldStatus)
	s.Equal(models.StatusPending, *entries[0].OldStatus)
	s.Equal(models.StatusAccepted, entries[0].NewStatus)
	s.Require().NotNil(entries[0].ChangedBy)
	s.Equal(actor, *entries[0].ChangedBy)
	s.Equal("baccalaureate verified", entries[0].Note)
}

func (s *ServiceSuite) TestUpdateWithSameStatusAppendsNothing() {
	app := s.submitValid()

	pending := string(models.StatusPending)
	_, err := s.apps.Update(s.ctx, app.ID, UpdateInput{Status: &pending})
	s.Require().NoError(err)

	entries, err := s.ledger.ListByApplication(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Len(entries, 1, "idempotent re-save must not grow the ledger")
}

func (s *ServiceSuite) TestUpdateUnknownStatusRejected() {
	app := s.submitValid()

	bogus := "Archived"
	_, err := s.apps.Update(s.ctx, app.ID, UpdateInput{Status: &bogus})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	s.Equal("status", dErrors.FieldOf(err))
}

func (s *ServiceSuite) TestUpdatePatchesApplicantInSameOperation() {
	app := s.submitValid()

	phone := "97999999"
	incomplete := string(models.StatusIncomplete)
	_, err := s.apps.Update(s.ctx, app.ID, UpdateInput{
		Status:    &incomplete,
		Applicant: &ApplicantPatch{Phone: &phone},
	})
	s.Require().NoError(err)

	profile, err := s.applicants.FindByID(s.ctx, app.ApplicantID)
	s.Require().NoError(err)
	s.Equal("+22997999999", profile.Phone)

	entries, err := s.ledger.ListByApplication(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Len(entries, 2)
}

func (s *ServiceSuite) TestHistoryNewestFirst() {
	app := s.submitValid()

	incomplete := string(models.StatusIncomplete)
	ctx := requestcontext.WithTime(s.ctx, s.now.Add(time.Hour))
	_, err := s.apps.Update(ctx, app.ID, UpdateInput{Status: &incomplete})
	s.Require().NoError(err)

	accepted := string(models.StatusAccepted)
	ctx = requestcontext.WithTime(s.ctx, s.now.Add(2*time.Hour))
	_, err = s.apps.Update(ctx, app.ID, UpdateInput{Status: &accepted})
	s.Require().NoError(err)

	entries, err := s.apps.History(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(models.StatusAccepted, entries[0].NewStatus)
	s.Equal(models.StatusIncomplete, entries[1].NewStatus)
	s.Equal(models.StatusPending, entries[2].NewStatus)
	s.Nil(entries[2].OldStatus)
}

func (s *ServiceSuite) TestGetReturnsApplicationWithHistory() {
	app := s.submitValid()

	details, err := s.apps.Get(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(app.ID, details.Application.ID)
	s.Len(details.History, 1)
}

func (s *ServiceSuite) TestGetUnknownApplication() {
	_, err := s.apps.Get(s.ctx, id.NewApplicationID())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestTrackFindsByTrackingID() {
	app := s.submitValid()

	found, err := s.apps.Track(s.ctx, app.TrackingID)
	s.Require().NoError(err)
	s.Equal(app.ID, found.ID)

	_, err = s.apps.Track(s.ctx, "ZZ-010100-999")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestCentreDeleteProtectedWhileReferenced() {
	app := s.submitValid()

	err := s.centreS.Delete(s.ctx, app.CentreID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	unused, err := s.centreS.Create(s.ctx, "Natitingou", "")
	s.Require().NoError(err)
	s.NoError(s.centreS.Delete(s.ctx, unused.ID))
}

func (s *ServiceSuite) TestCentreCreateConvergesOnName() {
	a, err := s.centreS.Create(s.ctx, "cotonou centre", "Littoral")
	s.Require().NoError(err)
	b, err := s.centreS.Create(s.ctx, " Cotonou  Centre ", "")
	s.Require().NoError(err)
	s.Equal(a.ID, b.ID)
}

func (s *ServiceSuite) TestReviewRequiresAuthenticatedAuthor() {
	app := s.submitValid()

	_, err := s.reviewS.Add(s.ctx, app.ID, "solid academic record")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestReviewAddAndListNewestFirst() {
	app := s.submitValid()
	author := id.NewAccountID()
	ctx := requestcontext.WithActor(s.ctx, author)

	_, err := s.reviewS.Add(ctx, app.ID, "first pass")
	s.Require().NoError(err)

	later := requestcontext.WithTime(ctx, s.now.Add(time.Hour))
	later = requestcontext.WithActor(later, author)
	_, err = s.reviewS.Add(later, app.ID, "second pass")
	s.Require().NoError(err)

	reviews, err := s.reviewS.ListByApplication(s.ctx, app.ID)
	s.Require().NoError(err)
	s.Require().Len(reviews, 2)
	s.Equal("second pass", reviews[0].Comments)
	s.Equal(author, reviews[0].AuthorID)
}

type fakeAccountCreator struct {
	created id.AccountID
	calls   int
}

func (f *fakeAccountCreator) CreateForApplicant(_ context.Context, _ *models.ApplicantProfile, _ string, _ string) (id.AccountID, error) {
	f.calls++
	f.created = id.NewAccountID()
	return f.created, nil
}

func (s *ServiceSuite) TestPromoteLinksAccountOnce() {
	profile, err := s.applicantS.Create(s.ctx, *validApplicant())
	s.Require().NoError(err)

	creator := &fakeAccountCreator{}
	svc := NewApplicantService(s.apps.stores, tx.Passthrough{}, creator)

	promoted, err := svc.Promote(s.ctx, profile.ID, PromoteInput{Username: "jsmith", Password: "s3cret"})
	s.Require().NoError(err)
	s.Require().NotNil(promoted.UserID)
	s.Equal(creator.created, *promoted.UserID)
	s.Equal(1, creator.calls)

	_, err = svc.Promote(s.ctx, profile.ID, PromoteInput{Username: "jsmith", Password: "s3cret"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal(1, creator.calls)
}

func (s *ServiceSuite) TestApplicantUpdateNormalizesPatch() {
	profile, err := s.applicantS.Create(s.ctx, *validApplicant())
	s.Require().NoError(err)

	email := " NEW.Mail@Example.Com "
	updated, err := s.applicantS.Update(s.ctx, profile.ID, ApplicantPatch{Email: &email})
	s.Require().NoError(err)
	s.Equal("new.mail@example.com", updated.Email)
}
