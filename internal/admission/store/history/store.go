// Package history persists the append-only status history ledger.
package history

import (
	"context"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
)

// Store abstracts the status history ledger. Append-only: no update or
// delete operations exist. ListByApplication returns entries newest first.
type Store interface {
	Append(ctx context.Context, entry *models.StatusHistory) error
	ListByApplication(ctx context.Context, applicationID id.ApplicationID) ([]*models.StatusHistory, error)
}
