package service

import (
	"context"
	"log/slog"
	"time"

	"admissio/internal/admission/events"
	"admissio/internal/admission/models"
	"admissio/internal/admission/store"
	"admissio/internal/admission/tracking"
	id "admissio/pkg/domain"
	dErrors "admissio/pkg/domain-errors"
	"admissio/pkg/platform/tx"
	"admissio/pkg/requestcontext"
)

// ApplicationService drives the application lifecycle: submission, status
// updates, lookups and the public tracking endpoint.
type ApplicationService struct {
	deps
}

func NewApplicationService(stores Stores, runner tx.Runner, opts ...Option) *ApplicationService {
	return &ApplicationService{deps: newDeps(stores, runner, opts)}
}

// NewApplicantInput is the nested applicant payload accepted at submission.
// Pointer fields distinguish "absent" from zero values for the required-field
// check.
type NewApplicantInput struct {
	FirstName            string
	LastName             string
	Gender               string
	Email                string
	Phone                string
	DateOfBirth          *time.Time
	Degree               string
	BaccalaureateSeries  string
	BaccalaureateAverage *float64
	BaccalaureateSession *time.Time

	UniversityName         string
	UniversityFieldOfStudy string
	UniversityAverage      *float64
}

// SubmitInput describes one application submission. Exactly one of
// ApplicantID or Applicant must be set; the centre is referenced by ID or
// resolved get-or-create by name.
type SubmitInput struct {
	ApplicantID *id.ApplicantID
	Applicant   *NewApplicantInput

	CentreID       *id.CentreID
	CentreName     string
	CentreLocation string
}

// ApplicationDetails is an application together with its ledger, newest
// entry first.
type ApplicationDetails struct {
	Application *models.Application     `json:"application"`
	History     []*models.StatusHistory `json:"history"`
}

// requiredApplicantFields validates the nested payload, naming every missing
// field so the caller gets an actionable validation error.
func requiredApplicantFields(in *NewApplicantInput) error {
	checks := []struct {
		field   string
		missing bool
	}{
		{"first_name", in.FirstName == ""},
		{"last_name", in.LastName == ""},
		{"gender", in.Gender == ""},
		{"date_of_birth", in.DateOfBirth == nil},
		{"email", in.Email == ""},
		{"phone", in.Phone == ""},
		{"degree", in.Degree == ""},
		{"baccalaureate_series", in.BaccalaureateSeries == ""},
		{"baccalaureate_average", in.BaccalaureateAverage == nil},
		{"baccalaureate_session", in.BaccalaureateSession == nil},
	}
	for _, c := range checks {
		if c.missing {
			return dErrors.NewField(dErrors.CodeValidation, c.field, c.field+" is required")
		}
	}
	return nil
}

// buildProfile turns the nested payload into a normalized, validated profile.
// The university link is resolved get-or-create within the ambient
// transaction when a name is supplied.
func (s *ApplicationService) buildProfile(ctx context.Context, in *NewApplicantInput, now time.Time) (*models.ApplicantProfile, error) {
	if err := requiredApplicantFields(in); err != nil {
		return nil, err
	}

	profile := &models.ApplicantProfile{
		ID:                     id.NewApplicantID(),
		FirstName:              in.FirstName,
		LastName:               in.LastName,
		Gender:                 models.Gender(in.Gender),
		Email:                  in.Email,
		Phone:                  in.Phone,
		DateOfBirth:            *in.DateOfBirth,
		Degree:                 models.Degree(in.Degree),
		BaccalaureateSeries:    models.BaccalaureateSeries(in.BaccalaureateSeries),
		BaccalaureateAverage:   *in.BaccalaureateAverage,
		BaccalaureateSession:   *in.BaccalaureateSession,
		UniversityFieldOfStudy: in.UniversityFieldOfStudy,
		UniversityAverage:      in.UniversityAverage,
		DateRegistered:         now,
		DateUpdated:            now,
	}
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if in.UniversityName != "" {
		uni, err := models.NewUniversity(in.UniversityName)
		if err != nil {
			return nil, err
		}
		stored, err := s.stores.Universities.GetOrCreate(ctx, uni)
		if err != nil {
			return nil, internalErr("resolve university", err)
		}
		profile.UniversityID = &stored.ID
	}
	return profile, nil
}

// resolveCentre finds the target centre by ID or resolves it by name,
// creating it when absent.
func (s *ApplicationService) resolveCentre(ctx context.Context, in SubmitInput) (*models.CompositionCentre, error) {
	if in.CentreID != nil {
		c, err := s.stores.Centres.FindByID(ctx, *in.CentreID)
		if err != nil {
			return nil, translate(err, "composition centre not found")
		}
		return c, nil
	}
	if in.CentreName == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "centre", "a composition centre is required")
	}
	c, err := models.NewCompositionCentre(in.CentreName, in.CentreLocation)
	if err != nil {
		return nil, err
	}
	stored, err := s.stores.Centres.GetOrCreate(ctx, c)
	if err != nil {
		return nil, internalErr("resolve centre", err)
	}
	return stored, nil
}

// Submit runs the application creation protocol.
//
// Each attempt draws a fresh tracking candidate and verifies it against the
// store before any write happens; only a candidate believed free enters the
// transaction. The unique constraint remains the authority: a lost race
// surfaces as a tracking conflict, rolls the attempt back whole, and the
// loop draws again. Both collision paths count against MaxAttempts.
func (s *ApplicationService) Submit(ctx context.Context, in SubmitInput) (*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "ApplicationService.Submit")
	defer span.End()

	if in.ApplicantID == nil && in.Applicant == nil {
		return nil, dErrors.NewField(dErrors.CodeValidation, "applicant", "applicant data or an applicant reference is required")
	}
	if in.ApplicantID != nil && in.Applicant != nil {
		return nil, dErrors.NewField(dErrors.CodeValidation, "applicant", "supply applicant data or an applicant reference, not both")
	}
	if in.Applicant != nil {
		if err := requiredApplicantFields(in.Applicant); err != nil {
			return nil, err
		}
	}

	// Candidate derivation needs the normalized last name and date of birth
	// before the write transaction starts.
	var lastName string
	var dateOfBirth time.Time
	if in.Applicant != nil {
		lastName = models.NormalizeLastName(in.Applicant.LastName)
		dateOfBirth = *in.Applicant.DateOfBirth
	} else {
		existing, err := s.stores.Applicants.FindByID(ctx, *in.ApplicantID)
		if err != nil {
			return nil, translate(err, "applicant not found")
		}
		lastName = existing.LastName
		dateOfBirth = existing.DateOfBirth
	}

	now := requestcontext.Now(ctx)
	var app *models.Application

	for attempt := 0; attempt < tracking.MaxAttempts; attempt++ {
		candidate := s.generator.Candidate(lastName, dateOfBirth)
		if taken, err := s.stores.Applications.TrackingIDExists(ctx, candidate); err != nil {
			return nil, internalErr("tracking pre-check", err)
		} else if taken {
			s.metrics.IncrementTrackingRetries()
			continue
		}

		err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
			centre, err := s.resolveCentre(ctx, in)
			if err != nil {
				return err
			}

			var profile *models.ApplicantProfile
			if in.Applicant != nil {
				profile, err = s.buildProfile(ctx, in.Applicant, now)
				if err != nil {
					return err
				}
				if err := s.stores.Applicants.Create(ctx, profile); err != nil {
					return translate(err, "applicant not found")
				}
			} else {
				profile, err = s.stores.Applicants.FindByID(ctx, *in.ApplicantID)
				if err != nil {
					return translate(err, "applicant not found")
				}
			}

			app = models.NewApplication(profile.ID, centre.ID, now)
			app.TrackingID = candidate
			if actor, ok := requestcontext.Actor(ctx); ok {
				app.AttachActor(actor)
			}

			if err := s.stores.Applications.Create(ctx, app); err != nil {
				return err
			}
			for _, obs := range s.observers {
				if err := obs.ApplicationSaved(ctx, app, true); err != nil {
					return internalErr("record submission", err)
				}
			}
			return nil
		})
		if err == nil {
			s.afterSubmit(ctx, app)
			return app, nil
		}
		if store.IsConflictOn(err, "tracking_id") {
			s.metrics.IncrementTrackingRetries()
			continue
		}
		return nil, translate(err, "applicant not found")
	}

	s.logger.ErrorContext(ctx, "tracking ID generation exhausted",
		slog.Int("attempts", tracking.MaxAttempts))
	return nil, dErrors.Newf(dErrors.CodeExhausted,
		"could not find a free tracking ID in %d attempts", tracking.MaxAttempts)
}

func (s *ApplicationService) afterSubmit(ctx context.Context, app *models.Application) {
	s.metrics.IncrementApplicationsSubmitted()
	s.cache.Set(ctx, app)
	s.publisher.Publish(ctx, events.StatusEvent{
		Type:          events.TypeApplicationSubmitted,
		ApplicationID: app.ID.String(),
		TrackingID:    app.TrackingID,
		NewStatus:     app.Status,
		OccurredAt:    app.DateSubmitted,
	})
	s.logger.InfoContext(ctx, "application submitted",
		slog.String("application_id", app.ID.String()),
		slog.String("tracking_id", app.TrackingID))
}

// ApplicantPatch is a partial applicant update. Nil fields are untouched.
type ApplicantPatch struct {
	FirstName              *string
	LastName               *string
	Email                  *string
	Phone                  *string
	Degree                 *string
	UniversityFieldOfStudy *string
	UniversityAverage      *float64
}

// UpdateInput is a partial application update. A nil Status leaves the
// lifecycle state untouched (and writes no ledger entry).
type UpdateInput struct {
	Status    *string
	Note      string
	Applicant *ApplicantPatch
}

// Update applies a partial update to an application and, when supplied, its
// applicant profile, in one transaction. A status change is recorded by the
// registered observers inside the same transaction.
func (s *ApplicationService) Update(ctx context.Context, applicationID id.ApplicationID, in UpdateInput) (*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "ApplicationService.Update")
	defer span.End()

	var newStatus *models.ApplicationStatus
	if in.Status != nil {
		parsed, err := models.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		newStatus = &parsed
	}

	now := requestcontext.Now(ctx)
	var app *models.Application

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.stores.Applications.FindByID(ctx, applicationID)
		if err != nil {
			return translate(err, "application not found")
		}

		if newStatus != nil {
			app.Status = *newStatus
		}
		if actor, ok := requestcontext.Actor(ctx); ok {
			app.AttachActor(actor)
		}
		if in.Note != "" {
			app.AttachNote(in.Note)
		}
		app.DateUpdated = now

		if in.Applicant != nil {
			if err := s.patchApplicant(ctx, app.ApplicantID, in.Applicant, now); err != nil {
				return err
			}
		}

		if err := s.stores.Applications.Update(ctx, app); err != nil {
			return translate(err, "application not found")
		}
		for _, obs := range s.observers {
			if err := obs.ApplicationSaved(ctx, app, false); err != nil {
				return internalErr("record status change", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if app.StatusChanged() {
		s.afterStatusChange(ctx, app)
	}
	return app, nil
}

func (s *ApplicationService) patchApplicant(ctx context.Context, applicantID id.ApplicantID, patch *ApplicantPatch, now time.Time) error {
	profile, err := s.stores.Applicants.FindByID(ctx, applicantID)
	if err != nil {
		return translate(err, "applicant not found")
	}
	applyApplicantPatch(profile, patch)
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		return err
	}
	profile.DateUpdated = now
	if err := s.stores.Applicants.Update(ctx, profile); err != nil {
		return translate(err, "applicant not found")
	}
	return nil
}

func applyApplicantPatch(profile *models.ApplicantProfile, patch *ApplicantPatch) {
	if patch.FirstName != nil {
		profile.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		profile.LastName = *patch.LastName
	}
	if patch.Email != nil {
		profile.Email = *patch.Email
	}
	if patch.Phone != nil {
		profile.Phone = *patch.Phone
	}
	if patch.Degree != nil {
		profile.Degree = models.Degree(*patch.Degree)
	}
	if patch.UniversityFieldOfStudy != nil {
		profile.UniversityFieldOfStudy = *patch.UniversityFieldOfStudy
	}
	if patch.UniversityAverage != nil {
		profile.UniversityAverage = patch.UniversityAverage
	}
}

func (s *ApplicationService) afterStatusChange(ctx context.Context, app *models.Application) {
	old := app.LoadedStatus
	s.metrics.ObserveStatusTransition(old.String(), app.Status.String())
	s.cache.Invalidate(ctx, app.TrackingID)
	s.publisher.Publish(ctx, events.StatusEvent{
		Type:          events.TypeStatusChanged,
		ApplicationID: app.ID.String(),
		TrackingID:    app.TrackingID,
		OldStatus:     &old,
		NewStatus:     app.Status,
		OccurredAt:    app.DateUpdated,
	})
	s.logger.InfoContext(ctx, "application status changed",
		slog.String("application_id", app.ID.String()),
		slog.String("from", old.String()),
		slog.String("to", app.Status.String()))
}

// Get returns an application with its full history, newest entry first.
func (s *ApplicationService) Get(ctx context.Context, applicationID id.ApplicationID) (*ApplicationDetails, error) {
	ctx, span := s.tracer.Start(ctx, "ApplicationService.Get")
	defer span.End()

	app, err := s.stores.Applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, translate(err, "application not found")
	}
	entries, err := s.stores.History.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, internalErr("list history", err)
	}
	return &ApplicationDetails{Application: app, History: entries}, nil
}

// History returns the status ledger for an application, newest entry first.
func (s *ApplicationService) History(ctx context.Context, applicationID id.ApplicationID) ([]*models.StatusHistory, error) {
	ctx, span := s.tracer.Start(ctx, "ApplicationService.History")
	defer span.End()

	if _, err := s.stores.Applications.FindByID(ctx, applicationID); err != nil {
		return nil, translate(err, "application not found")
	}
	entries, err := s.stores.History.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, internalErr("list history", err)
	}
	return entries, nil
}

// List returns all applications, newest submission first.
func (s *ApplicationService) List(ctx context.Context) ([]*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "ApplicationService.List")
	defer span.End()

	apps, err := s.stores.Applications.List(ctx)
	if err != nil {
		return nil, internalErr("list applications", err)
	}
	return apps, nil
}

// Track is the public tracking lookup, read-through cached.
func (s *ApplicationService) Track(ctx context.Context, trackingID string) (*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "ApplicationService.Track")
	defer span.End()

	if app, ok := s.cache.Get(ctx, trackingID); ok {
		return app, nil
	}
	app, err := s.stores.Applications.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, translate(err, "no application with this tracking ID")
	}
	s.cache.Set(ctx, app)
	return app, nil
}
