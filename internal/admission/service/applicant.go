package service

import (
	"context"
	"log/slog"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
	dErrors "admissio/pkg/domain-errors"
	"admissio/pkg/platform/tx"
	"admissio/pkg/requestcontext"
)

// AccountCreator creates a platform user account for a promoted applicant.
// Implemented by the account service; kept as an interface here so the
// admission context does not import the account context.
type AccountCreator interface {
	CreateForApplicant(ctx context.Context, profile *models.ApplicantProfile, username, password string) (id.AccountID, error)
}

// ApplicantService manages applicant profiles outside the submission flow.
type ApplicantService struct {
	deps
	accounts AccountCreator
}

func NewApplicantService(stores Stores, runner tx.Runner, accounts AccountCreator, opts ...Option) *ApplicantService {
	return &ApplicantService{deps: newDeps(stores, runner, opts), accounts: accounts}
}

// Create registers a standalone profile, before any application exists.
func (s *ApplicantService) Create(ctx context.Context, in NewApplicantInput) (*models.ApplicantProfile, error) {
	ctx, span := s.tracer.Start(ctx, "ApplicantService.Create")
	defer span.End()

	if err := requiredApplicantFields(&in); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var profile *models.ApplicantProfile

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		builder := &ApplicationService{deps: s.deps}
		var err error
		profile, err = builder.buildProfile(ctx, &in, now)
		if err != nil {
			return err
		}
		if err := s.stores.Applicants.Create(ctx, profile); err != nil {
			return translate(err, "applicant not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "applicant registered",
		slog.String("applicant_id", profile.ID.String()))
	return profile, nil
}

// Get returns one profile.
func (s *ApplicantService) Get(ctx context.Context, applicantID id.ApplicantID) (*models.ApplicantProfile, error) {
	ctx, span := s.tracer.Start(ctx, "ApplicantService.Get")
	defer span.End()

	profile, err := s.stores.Applicants.FindByID(ctx, applicantID)
	if err != nil {
		return nil, translate(err, "applicant not found")
	}
	return profile, nil
}

// List returns all profiles, newest registration first.
func (s *ApplicantService) List(ctx context.Context) ([]*models.ApplicantProfile, error) {
	ctx, span := s.tracer.Start(ctx, "ApplicantService.List")
	defer span.End()

	profiles, err := s.stores.Applicants.List(ctx)
	if err != nil {
		return nil, internalErr("list applicants", err)
	}
	return profiles, nil
}

// Update applies a partial profile update.
func (s *ApplicantService) Update(ctx context.Context, applicantID id.ApplicantID, patch ApplicantPatch) (*models.ApplicantProfile, error) {
	ctx, span := s.tracer.Start(ctx, "ApplicantService.Update")
	defer span.End()

	now := requestcontext.Now(ctx)
	var profile *models.ApplicantProfile

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		profile, err = s.stores.Applicants.FindByID(ctx, applicantID)
		if err != nil {
			return translate(err, "applicant not found")
		}
		applyApplicantPatch(profile, &patch)
		profile.Normalize()
		if err := profile.Validate(); err != nil {
			return err
		}
		profile.DateUpdated = now
		if err := s.stores.Applicants.Update(ctx, profile); err != nil {
			return translate(err, "applicant not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// PromoteInput carries the credentials for a new platform account.
type PromoteInput struct {
	Username string
	Password string
}

// Promote creates a platform user account for the applicant and links it to
// the profile, in one transaction. An already-promoted applicant is refused.
func (s *ApplicantService) Promote(ctx context.Context, applicantID id.ApplicantID, in PromoteInput) (*models.ApplicantProfile, error) {
	ctx, span := s.tracer.Start(ctx, "ApplicantService.Promote")
	defer span.End()

	if s.accounts == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "account creation is not configured")
	}
	if in.Username == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "username", "username is required")
	}
	if in.Password == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "password", "password is required")
	}

	now := requestcontext.Now(ctx)
	var profile *models.ApplicantProfile

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		profile, err = s.stores.Applicants.FindByID(ctx, applicantID)
		if err != nil {
			return translate(err, "applicant not found")
		}
		if profile.UserID != nil {
			return dErrors.New(dErrors.CodeConflict, "applicant already has a platform account")
		}

		accountID, err := s.accounts.CreateForApplicant(ctx, profile, in.Username, in.Password)
		if err != nil {
			return translate(err, "applicant not found")
		}
		profile.UserID = &accountID
		profile.DateUpdated = now
		if err := s.stores.Applicants.Update(ctx, profile); err != nil {
			return translate(err, "applicant not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "applicant promoted to platform user",
		slog.String("applicant_id", profile.ID.String()),
		slog.String("user_id", profile.UserID.String()))
	return profile, nil
}
