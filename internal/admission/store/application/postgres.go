package application

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

// Postgres persists applications in PostgreSQL. Writes join an ambient
// transaction when one is stashed in the context.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

var _ Store = (*Postgres)(nil)

var constraintFields = map[string]string{
	"applications_tracking_id_key":  "tracking_id",
	"applications_applicant_id_key": "applicant",
}

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

const applicationColumns = `id, applicant_id, composition_centre_id, tracking_id, status,
	date_submitted, date_updated`

func (s *Postgres) Create(ctx context.Context, app *models.Application) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(app.ID), uuid.UUID(app.ApplicantID), uuid.UUID(app.CentreID),
		nullableString(app.TrackingID), string(app.Status), app.DateSubmitted, app.DateUpdated,
	)
	if err != nil {
		return fmt.Errorf("create application: %w", store.ClassifyPostgres(err, constraintFields))
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, app *models.Application) error {
	// Tracking ID and date_submitted are immutable after assignment; only
	// mutable columns are written.
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE applications SET status = $2, date_updated = $3 WHERE id = $1`,
		uuid.UUID(app.ID), string(app.Status), app.DateUpdated,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", store.ClassifyPostgres(err, constraintFields))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT `+applicationColumns+` FROM applications WHERE id = $1`,
		uuid.UUID(applicationID),
	)
	return s.scanOne(row)
}

func (s *Postgres) FindByTrackingID(ctx context.Context, trackingID string) (*models.Application, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT `+applicationColumns+` FROM applications WHERE tracking_id = $1`,
		trackingID,
	)
	return s.scanOne(row)
}

func (s *Postgres) TrackingIDExists(ctx context.Context, trackingID string) (bool, error) {
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM applications WHERE tracking_id = $1)`,
		trackingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check tracking id: %w", err)
	}
	return exists, nil
}

func (s *Postgres) ExistsByCentre(ctx context.Context, centreID id.CentreID) (bool, error) {
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM applications WHERE composition_centre_id = $1)`,
		uuid.UUID(centreID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check centre references: %w", err)
	}
	return exists, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Application, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT `+applicationColumns+` FROM applications ORDER BY date_submitted DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (s *Postgres) scanOne(row *sql.Row) (*models.Application, error) {
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		app         models.Application
		rawID       uuid.UUID
		applicantID uuid.UUID
		centreID    uuid.UUID
		trackingID  sql.NullString
		status      string
	)
	err := row.Scan(&rawID, &applicantID, &centreID, &trackingID, &status,
		&app.DateSubmitted, &app.DateUpdated)
	if err != nil {
		return nil, err
	}
	app.ID = id.ApplicationID(rawID)
	app.ApplicantID = id.ApplicantID(applicantID)
	app.CentreID = id.CentreID(centreID)
	app.TrackingID = trackingID.String
	app.Status = models.ApplicationStatus(status)
	app.MarkLoaded()
	return &app, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
