package review

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"admissio/internal/admission/models"
	"admissio/internal/admission/store"
	id "admissio/pkg/domain"
	txcontext "admissio/pkg/platform/tx"
)

// Postgres persists reviews in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

var _ Store = (*Postgres)(nil)

type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) executor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) Create(ctx context.Context, r *models.Review) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO reviews (id, application_id, author_id, comments, date_reviewed, date_updated)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(r.ID), uuid.UUID(r.ApplicationID), uuid.UUID(r.AuthorID),
		r.Comments, r.DateReviewed, r.DateUpdated,
	)
	if err != nil {
		return fmt.Errorf("create review: %w", store.ClassifyPostgres(err, nil))
	}
	return nil
}

func (s *Postgres) ListByApplication(ctx context.Context, applicationID id.ApplicationID) ([]*models.Review, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, application_id, author_id, comments, date_reviewed, date_updated
		FROM reviews
		WHERE application_id = $1
		ORDER BY date_reviewed DESC`,
		uuid.UUID(applicationID),
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var (
			r         models.Review
			rawID     uuid.UUID
			rawAppID  uuid.UUID
			rawAuthor uuid.UUID
		)
		if err := rows.Scan(&rawID, &rawAppID, &rawAuthor, &r.Comments, &r.DateReviewed, &r.DateUpdated); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.ID = id.ReviewID(rawID)
		r.ApplicationID = id.ApplicationID(rawAppID)
		r.AuthorID = id.AccountID(rawAuthor)
		reviews = append(reviews, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
