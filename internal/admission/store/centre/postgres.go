package centre

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"admissio/internal/admission/models"
	"admissio/internal/admission/store"
	id "admissio/pkg/domain"
	"admissio/pkg/platform/sentinel"
	txcontext "admissio/pkg/platform/tx"
)

// Postgres persists composition centres in PostgreSQL.
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

// GetOrCreate upserts by unique name; the RETURNING row is the surviving
// one whether this call created it or lost the race.
func (s *Postgres) GetOrCreate(ctx context.Context, centre *models.CompositionCentre) (*models.CompositionCentre, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		INSERT INTO composition_centres (id, name, location)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT composition_centres_name_key
		DO UPDATE SET name = composition_centres.name
		RETURNING id, name, location`,
		uuid.UUID(centre.ID), centre.Name, centre.Location,
	)
	out, err := scanCentre(row)
	if err != nil {
		return nil, fmt.Errorf("get or create centre: %w", err)
	}
	return out, nil
}

func (s *Postgres) FindByID(ctx context.Context, centreID id.CentreID) (*models.CompositionCentre, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT id, name, location FROM composition_centres WHERE id = $1`,
		uuid.UUID(centreID),
	)
	out, err := scanCentre(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find centre: %w", err)
	}
	return out, nil
}

func (s *Postgres) FindByName(ctx context.Context, name string) (*models.CompositionCentre, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT id, name, location FROM composition_centres WHERE lower(name) = lower($1)`,
		name,
	)
	out, err := scanCentre(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find centre by name: %w", err)
	}
	return out, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.CompositionCentre, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, name, location FROM composition_centres ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list centres: %w", err)
	}
	defer rows.Close()

	var centres []*models.CompositionCentre
	for rows.Next() {
		c, err := scanCentre(rows)
		if err != nil {
			return nil, fmt.Errorf("scan centre: %w", err)
		}
		centres = append(centres, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list centres: %w", err)
	}
	return centres, nil
}

// Delete refuses to remove a centre still referenced by an application;
// the RESTRICT foreign key surfaces as sentinel.ErrReferenced.
func (s *Postgres) Delete(ctx context.Context, centreID id.CentreID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		DELETE FROM composition_centres WHERE id = $1`,
		uuid.UUID(centreID),
	)
	if err != nil {
		return fmt.Errorf("delete centre: %w", store.ClassifyPostgres(err, nil))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete centre: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCentre(row rowScanner) (*models.CompositionCentre, error) {
	var (
		c     models.CompositionCentre
		rawID uuid.UUID
	)
	if err := row.Scan(&rawID, &c.Name, &c.Location); err != nil {
		return nil, err
	}
	c.ID = id.CentreID(rawID)
	return &c, nil
}
