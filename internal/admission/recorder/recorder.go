// Package recorder appends status history ledger entries whenever the
// service layer persists an application.
//
// The recorder is an explicit observer: the service invokes it after every
// successful Create or Update, inside the same transaction. There is no
// hidden hook; a reader can follow the call from the service save path.
// Store-level bulk updates bypass the recorder, so callers performing bulk
// status changes must append ledger entries themselves.
package recorder

import (
	"context"
	"fmt"
	"log/slog"

	"admissio/internal/admission/models"
	"admissio/internal/admission/store/history"
	id "admissio/pkg/domain"
	"admissio/pkg/requestcontext"
)

// Observer is notified after an application has been written through the
// service layer. created distinguishes the first persistence from updates.
//
// Observers run inside the save transaction. A returned error aborts the
// whole save: a status change that cannot be recorded must not be visible.
type Observer interface {
	ApplicationSaved(ctx context.Context, app *models.Application, created bool) error
}

// StatusRecorder writes one ledger entry per observed status change.
type StatusRecorder struct {
	ledger history.Store
	logger *slog.Logger
}

func NewStatusRecorder(ledger history.Store, logger *slog.Logger) *StatusRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusRecorder{ledger: ledger, logger: logger}
}

var _ Observer = (*StatusRecorder)(nil)

// ApplicationSaved appends a ledger entry for the save that just happened.
//
// First persistence: one entry with a nil old status and the fixed
// submission note. Later persistences: compare the load-time status against
// the current one; equal means the save touched other fields and no entry is
// written, different means exactly one entry capturing the transition and
// the actor/note hints attached before the save.
func (r *StatusRecorder) ApplicationSaved(ctx context.Context, app *models.Application, created bool) error {
	var entry *models.StatusHistory
	switch {
	case created:
		entry = &models.StatusHistory{
			ID:            id.NewHistoryID(),
			ApplicationID: app.ID,
			OldStatus:     nil,
			NewStatus:     app.Status,
			ChangedBy:     app.ChangedBy,
			Note:          models.SubmissionNote,
			DateChanged:   requestcontext.Now(ctx),
		}
	case app.StatusChanged():
		old := app.LoadedStatus
		entry = &models.StatusHistory{
			ID:            id.NewHistoryID(),
			ApplicationID: app.ID,
			OldStatus:     &old,
			NewStatus:     app.Status,
			ChangedBy:     app.ChangedBy,
			Note:          app.ChangeNote,
			DateChanged:   requestcontext.Now(ctx),
		}
	default:
		return nil
	}

	if err := r.ledger.Append(ctx, entry); err != nil {
		r.logger.ErrorContext(ctx, "status history append failed",
			slog.String("application_id", app.ID.String()),
			slog.String("new_status", string(entry.NewStatus)),
			slog.Any("error", err),
		)
		return fmt.Errorf("record status change: %w", err)
	}
	return nil
}
