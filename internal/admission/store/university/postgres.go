package university

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
	"admissio/pkg/platform/sentinel"
	txcontext "admissio/pkg/platform/tx"
)

// Postgres persists universities in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

var _ Store = (*Postgres)(nil)

type executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) executor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) GetOrCreate(ctx context.Context, u *models.University) (*models.University, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		INSERT INTO universities (id, name)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT universities_name_key
		DO UPDATE SET name = universities.name
		RETURNING id, name`,
		uuid.UUID(u.ID), u.Name,
	)
	out, err := scanUniversity(row)
	if err != nil {
		return nil, fmt.Errorf("get or create university: %w", err)
	}
	return out, nil
}

func (s *Postgres) FindByID(ctx context.Context, universityID id.UniversityID) (*models.University, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT id, name FROM universities WHERE id = $1`,
		uuid.UUID(universityID),
	)
	out, err := scanUniversity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find university: %w", err)
	}
	return out, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.University, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `SELECT id, name FROM universities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	defer rows.Close()

	var universities []*models.University
	for rows.Next() {
		u, err := scanUniversity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan university: %w", err)
		}
		universities = append(universities, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	return universities, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUniversity(row rowScanner) (*models.University, error) {
	var (
		u     models.University
		rawID uuid.UUID
	)
	if err := row.Scan(&rawID, &u.Name); err != nil {
		return nil, err
	}
	u.ID = id.UniversityID(rawID)
	return &u, nil
}
