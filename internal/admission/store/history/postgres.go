package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
	txcontext "admissio/pkg/platform/tx"
)

// Postgres persists ledger entries in PostgreSQL. Appends join an ambient
// transaction when one is stashed in the context, so a failed ledger write
// aborts the application save it accompanies.
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
}

func (s *Postgres) execer(ctx context.Context) executor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) Append(ctx context.Context, entry *models.StatusHistory) error {
	var oldStatus sql.NullString
	if entry.OldStatus != nil {
		oldStatus = sql.NullString{String: string(*entry.OldStatus), Valid: true}
	}
	var changedBy uuid.NullUUID
	if entry.ChangedBy != nil {
		changedBy = uuid.NullUUID{UUID: uuid.UUID(*entry.ChangedBy), Valid: true}
	}

	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO application_status_history
			(id, application_id, old_status, new_status, changed_by, note, date_changed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(entry.ID), uuid.UUID(entry.ApplicationID), oldStatus,
		string(entry.NewStatus), changedBy, entry.Note, entry.DateChanged,
	)
	if err != nil {
		return fmt.Errorf("append status history: %w", err)
	}
	return nil
}

func (s *Postgres) ListByApplication(ctx context.Context, applicationID id.ApplicationID) ([]*models.StatusHistory, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, application_id, old_status, new_status, changed_by, note, date_changed
		FROM application_status_history
		WHERE application_id = $1
		ORDER BY date_changed DESC`,
		uuid.UUID(applicationID),
	)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var entries []*models.StatusHistory
	for rows.Next() {
		var (
			e         models.StatusHistory
			rawID     uuid.UUID
			appID     uuid.UUID
			oldStatus sql.NullString
			newStatus string
			changedBy uuid.NullUUID
		)
		if err := rows.Scan(&rawID, &appID, &oldStatus, &newStatus, &changedBy, &e.Note, &e.DateChanged); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		e.ID = id.HistoryID(rawID)
		e.ApplicationID = id.ApplicationID(appID)
		e.NewStatus = models.ApplicationStatus(newStatus)
		if oldStatus.Valid {
			v := models.ApplicationStatus(oldStatus.String)
			e.OldStatus = &v
		}
		if changedBy.Valid {
			v := id.AccountID(changedBy.UUID)
			e.ChangedBy = &v
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	return entries, nil
}
