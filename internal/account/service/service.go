// Package service implements platform account management: creation during
// applicant promotion, credential checks, and token issuing.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"admissio/internal/account/models"
	"admissio/internal/account/store"
	admissionmodels "admissio/internal/admission/models"
	storeerr "admissio/internal/admission/store"
	"admissio/internal/platform/middleware"
	id "admissio/pkg/domain"
	dErrors "admissio/pkg/domain-errors"
	"admissio/pkg/platform/sentinel"
	"admissio/pkg/requestcontext"
)

const tokenTTL = 12 * time.Hour

// Service manages platform accounts and session tokens.
type Service struct {
	accounts   store.Store
	signingKey []byte
	logger     *slog.Logger
}

func New(accounts store.Store, signingKey string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{accounts: accounts, signingKey: []byte(signingKey), logger: logger}
}

// CreateForApplicant creates an applicant-role account during promotion.
// Runs inside the promotion transaction via the ambient tx context.
func (s *Service) CreateForApplicant(ctx context.Context, profile *admissionmodels.ApplicantProfile, username, password string) (id.AccountID, error) {
	account, err := s.create(ctx, username, profile.Email, password, models.RoleApplicant)
	if err != nil {
		return id.AccountID{}, err
	}
	return account.ID, nil
}

// CreateStaff creates an HR manager or admin account.
func (s *Service) CreateStaff(ctx context.Context, username, email, password string, role models.Role) (*models.Account, error) {
	if role != models.RoleAdmin && role != models.RoleHRManager {
		return nil, dErrors.NewField(dErrors.CodeValidation, "role", "staff role must be admin or hr_manager")
	}
	return s.create(ctx, username, email, password, role)
}

// EnsureAdmin creates the bootstrap admin account on first run. An existing
// account with the same username is left untouched, so restarts are no-ops.
func (s *Service) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if _, err := s.accounts.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "bootstrap admin lookup failed")
	}

	_, err := s.CreateStaff(ctx, username, email, password, models.RoleAdmin)
	return err
}

func (s *Service) create(ctx context.Context, username, email, password string, role models.Role) (*models.Account, error) {
	if len(password) < 8 {
		return nil, dErrors.NewField(dErrors.CodeValidation, "password", "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "password hashing failed")
	}

	account, err := models.NewAccount(username, admissionmodels.NormalizeEmail(email), string(hash), role, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if field := storeerr.ConflictField(err); field != "" {
			return nil, dErrors.NewField(dErrors.CodeConflict, field, field+" already taken")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "account creation failed")
	}

	s.logger.InfoContext(ctx, "account created",
		slog.String("account_id", account.ID.String()),
		slog.String("role", string(role)))
	return account, nil
}

// Authenticate checks credentials and issues a signed token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, *models.Account, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Equalize timing between unknown-user and wrong-password paths.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalid"), []byte(password))
			return "", nil, dErrors.New(dErrors.CodeValidation, "invalid credentials")
		}
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "credential lookup failed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, dErrors.New(dErrors.CodeValidation, "invalid credentials")
	}

	token, err := s.issueToken(ctx, account)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

func (s *Service) issueToken(ctx context.Context, account *models.Account) (string, error) {
	now := requestcontext.Now(ctx)
	claims := middleware.ActorClaims{
		Role: string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "token signing failed")
	}
	return signed, nil
}
