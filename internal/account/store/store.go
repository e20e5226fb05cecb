// Package store persists platform user accounts.
package store

import (
	"context"

	"admissio/internal/account/models"
	id "admissio/pkg/domain"
)

// Store abstracts account persistence. Create surfaces uniqueness
// violations as *store.Conflict on "username" or "email"; lookups return
// sentinel.ErrNotFound for unknown accounts.
type Store interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
}
