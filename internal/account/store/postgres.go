package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"admissio/internal/account/models"
	storeerr "admissio/internal/admission/store"
	id "admissio/pkg/domain"
	"admissio/pkg/platform/sentinel"
	txcontext "admissio/pkg/platform/tx"
)

// constraintFields maps schema constraint names to the input fields they
// guard.
var constraintFields = map[string]string{
	"accounts_username_key": "username",
	"accounts_email_key":    "email",
}

// Postgres persists accounts in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

var _ Store = (*Postgres)(nil)

type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) executor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const accountColumns = "id, username, email, password_hash, role, created_at"

func (s *Postgres) Create(ctx context.Context, account *models.Account) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(account.ID), account.Username, account.Email,
		account.PasswordHash, string(account.Role), account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create account: %w", storeerr.ClassifyPostgres(err, constraintFields))
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = $1`,
		uuid.UUID(accountID),
	)
	return scanAccount(row)
}

func (s *Postgres) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE lower(username) = lower($1)`,
		username,
	)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		a     models.Account
		rawID uuid.UUID
		role  string
	)
	err := row.Scan(&rawID, &a.Username, &a.Email, &a.PasswordHash, &role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.ID = id.AccountID(rawID)
	a.Role = models.Role(role)
	return &a, nil
}
