package store

import (
	"context"
	"strings"
	"sync"

	"admissio/internal/account/models"
	storeerr "admissio/internal/admission/store"
	id "admissio/pkg/domain"
	"admissio/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and development mode.
type InMemory struct {
	mu       sync.RWMutex
	accounts map[id.AccountID]*models.Account
}

func NewInMemory() *InMemory {
	return &InMemory{accounts: make(map[id.AccountID]*models.Account)}
}

var _ Store = (*InMemory)(nil)

func (s *InMemory) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Username, account.Username) {
			return &storeerr.Conflict{Field: "username"}
		}
		if strings.EqualFold(existing.Email, account.Email) {
			return &storeerr.Conflict{Field: "email"}
		}
	}
	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, accountID id.AccountID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *account
	return &cp, nil
}

func (s *InMemory) FindByUsername(_ context.Context, username string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, account := range s.accounts {
		if strings.EqualFold(account.Username, username) {
			cp := *account
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}
