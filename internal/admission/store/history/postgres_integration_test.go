//go:build integration

package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"admissio/internal/admission/models"
	"admissio/internal/admission/store/applicant"
	"admissio/internal/admission/store/application"
	"admissio/internal/admission/store/centre"
	"admissio/internal/admission/store/history"
	id "admissio/pkg/domain"
	"admissio/pkg/platform/tx"
	"admissio/pkg/testutil/containers"
)

type PostgresHistorySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *history.Postgres

	applicants   *applicant.Postgres
	applications *application.Postgres
	centres      *centre.Postgres

	appID id.ApplicationID
}

func TestPostgresHistorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresHistorySuite))
}

func (s *PostgresHistorySuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = history.NewPostgres(s.postgres.DB)
	s.applicants = applicant.NewPostgres(s.postgres.DB)
	s.applications = application.NewPostgres(s.postgres.DB)
	s.centres = centre.NewPostgres(s.postgres.DB)
}

func (s *PostgresHistorySuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))

	now := time.Now().UTC().Truncate(time.Microsecond)

	c, err := models.NewCompositionCentre("Cotonou Centre", "")
	s.Require().NoError(err)
	storedCentre, err := s.centres.GetOrCreate(ctx, c)
	s.Require().NoError(err)

	profile := &models.ApplicantProfile{
		ID:                   id.NewApplicantID(),
		FirstName:            "Jane",
		LastName:             "SMITH",
		Gender:               models.GenderFemale,
		Email:                "jane@example.com",
		Phone:                "+22997000001",
		DateOfBirth:          time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC),
		Degree:               models.DegreeBachelor,
		BaccalaureateSeries:  models.BacSeriesC,
		BaccalaureateAverage: 14.5,
		BaccalaureateSession: time.Date(2008, 7, 1, 0, 0, 0, 0, time.UTC),
		DateRegistered:       now,
		DateUpdated:          now,
	}
	s.Require().NoError(s.applicants.Create(ctx, profile))

	app := models.NewApplication(profile.ID, storedCentre.ID, now)
	app.TrackingID = "SM-120590-100"
	s.Require().NoError(s.applications.Create(ctx, app))
	s.appID = app.ID
}

func entry(appID id.ApplicationID, old *models.ApplicationStatus, next models.ApplicationStatus, at time.Time) *models.StatusHistory {
	return &models.StatusHistory{
		ID:            id.NewHistoryID(),
		ApplicationID: appID,
		OldStatus:     old,
		NewStatus:     next,
		Note:          models.SubmissionNote,
		DateChanged:   at,
	}
}

func (s *PostgresHistorySuite) TestAppendAndListNewestFirst() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	pending := models.StatusPending
	s.Require().NoError(s.store.Append(ctx, entry(s.appID, nil, models.StatusPending, base)))
	s.Require().NoError(s.store.Append(ctx, entry(s.appID, &pending, models.StatusAccepted, base.Add(time.Hour))))

	entries, err := s.store.ListByApplication(ctx, s.appID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(models.StatusAccepted, entries[0].NewStatus)
	s.Require().NotNil(entries[0].OldStatus)
	s.Equal(models.StatusPending, *entries[0].OldStatus)
	s.Nil(entries[1].OldStatus)
}

// TestAppendJoinsAmbientTransaction verifies the fail-closed contract: when
// the surrounding transaction rolls back, the ledger entry vanishes with it.
func (s *PostgresHistorySuite) TestAppendJoinsAmbientTransaction() {
	ctx := context.Background()
	runner := tx.NewSQLRunner(s.postgres.DB)
	boom := errors.New("boom")

	err := runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Append(ctx, entry(s.appID, nil, models.StatusPending, time.Now().UTC())); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	entries, err := s.store.ListByApplication(ctx, s.appID)
	s.Require().NoError(err)
	s.Empty(entries, "rolled-back appends must not be visible")
}

func (s *PostgresHistorySuite) TestNilActorAndOldStatusRoundTrip() {
	ctx := context.Background()

	actor := id.NewAccountID()
	_, err := s.postgres.DB.ExecContext(ctx,
		`INSERT INTO accounts (id, username, email, password_hash, role, created_at)
		 VALUES ($1, 'reviewer', 'reviewer@example.com', 'x', 'hr_manager', NOW())`,
		actor.String())
	s.Require().NoError(err)

	// A system entry and a staff entry side by side.
	s.Require().NoError(s.store.Append(ctx, entry(s.appID, nil, models.StatusPending, time.Now().UTC())))

	pending := models.StatusPending
	staffEntry := entry(s.appID, &pending, models.StatusRejected, time.Now().UTC().Add(time.Minute))
	staffEntry.ChangedBy = &actor
	staffEntry.Note = "missing transcripts"
	s.Require().NoError(s.store.Append(ctx, staffEntry))

	entries, err := s.store.ListByApplication(ctx, s.appID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Require().NotNil(entries[0].ChangedBy)
	s.Equal(actor, *entries[0].ChangedBy)
	s.Equal("missing transcripts", entries[0].Note)
	s.Nil(entries[1].ChangedBy)
}
