package applicant

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

// Postgres persists applicant profiles in PostgreSQL. Writes join an ambient
// transaction when one is stashed in the context.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

var _ Store = (*Postgres)(nil)

// Constraint names from schema.sql mapped to the input field they guard.
var constraintFields = map[string]string{
	"applicant_profiles_email_key":                   "email",
	"applicant_profiles_phone_key":                   "phone",
	"applicant_profiles_last_name_date_of_birth_key": "last_name",
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

const applicantColumns = `id, user_id, first_name, last_name, gender, date_of_birth,
	email, phone, degree, baccalaureate_series, baccalaureate_average,
	baccalaureate_session, university_id, university_field_of_study,
	university_average, date_registered, date_updated`

func (s *Postgres) Create(ctx context.Context, p *models.ApplicantProfile) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO applicant_profiles (`+applicantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		uuid.UUID(p.ID), nullableAccount(p.UserID), p.FirstName, p.LastName, string(p.Gender),
		p.DateOfBirth, p.Email, p.Phone, string(p.Degree), string(p.BaccalaureateSeries),
		p.BaccalaureateAverage, p.BaccalaureateSession, nullableUniversity(p.UniversityID),
		p.UniversityFieldOfStudy, p.UniversityAverage, p.DateRegistered, p.DateUpdated,
	)
	if err != nil {
		return fmt.Errorf("create applicant profile: %w", store.ClassifyPostgres(err, constraintFields))
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, p *models.ApplicantProfile) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE applicant_profiles SET
			user_id = $2, first_name = $3, last_name = $4, gender = $5,
			date_of_birth = $6, email = $7, phone = $8, degree = $9,
			baccalaureate_series = $10, baccalaureate_average = $11,
			baccalaureate_session = $12, university_id = $13,
			university_field_of_study = $14, university_average = $15,
			date_updated = $16
		WHERE id = $1`,
		uuid.UUID(p.ID), nullableAccount(p.UserID), p.FirstName, p.LastName, string(p.Gender),
		p.DateOfBirth, p.Email, p.Phone, string(p.Degree), string(p.BaccalaureateSeries),
		p.BaccalaureateAverage, p.BaccalaureateSession, nullableUniversity(p.UniversityID),
		p.UniversityFieldOfStudy, p.UniversityAverage, p.DateUpdated,
	)
	if err != nil {
		return fmt.Errorf("update applicant profile: %w", store.ClassifyPostgres(err, constraintFields))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update applicant profile: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, applicantID id.ApplicantID) (*models.ApplicantProfile, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT `+applicantColumns+` FROM applicant_profiles WHERE id = $1`,
		uuid.UUID(applicantID),
	)
	p, err := scanApplicant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find applicant profile: %w", err)
	}
	return p, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.ApplicantProfile, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT `+applicantColumns+` FROM applicant_profiles
		ORDER BY date_registered DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list applicant profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.ApplicantProfile
	for rows.Next() {
		p, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan applicant profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applicant profiles: %w", err)
	}
	return profiles, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplicant(row rowScanner) (*models.ApplicantProfile, error) {
	var (
		p            models.ApplicantProfile
		rawID        uuid.UUID
		userID       uuid.NullUUID
		universityID uuid.NullUUID
		gender       string
		degree       string
		series       string
	)
	err := row.Scan(
		&rawID, &userID, &p.FirstName, &p.LastName, &gender, &p.DateOfBirth,
		&p.Email, &p.Phone, &degree, &series, &p.BaccalaureateAverage,
		&p.BaccalaureateSession, &universityID, &p.UniversityFieldOfStudy,
		&p.UniversityAverage, &p.DateRegistered, &p.DateUpdated,
	)
	if err != nil {
		return nil, err
	}
	p.ID = id.ApplicantID(rawID)
	p.Gender = models.Gender(gender)
	p.Degree = models.Degree(degree)
	p.BaccalaureateSeries = models.BaccalaureateSeries(series)
	if userID.Valid {
		v := id.AccountID(userID.UUID)
		p.UserID = &v
	}
	if universityID.Valid {
		v := id.UniversityID(universityID.UUID)
		p.UniversityID = &v
	}
	return &p, nil
}

func nullableAccount(v *id.AccountID) uuid.NullUUID {
	if v == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*v), Valid: true}
}

func nullableUniversity(v *id.UniversityID) uuid.NullUUID {
	if v == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*v), Valid: true}
}
