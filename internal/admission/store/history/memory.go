package history

import (
	"context"
	"sort"
	"sync"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
)

// InMemory is a mutex-guarded ledger for tests and development mode.
type InMemory struct {
	mu      sync.RWMutex
	entries map[id.ApplicationID][]*models.StatusHistory
}

func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[id.ApplicationID][]*models.StatusHistory)}
}

var _ Store = (*InMemory)(nil)

func (s *InMemory) Append(_ context.Context, entry *models.StatusHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := cloneEntry(entry)
	s.entries[entry.ApplicationID] = append(s.entries[entry.ApplicationID], cp)
	return nil
}

func (s *InMemory) ListByApplication(_ context.Context, applicationID id.ApplicationID) ([]*models.StatusHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.entries[applicationID]
	entries := make([]*models.StatusHistory, 0, len(stored))
	// Reverse insertion order so equal timestamps still list newest first.
	for i := len(stored) - 1; i >= 0; i-- {
		entries = append(entries, cloneEntry(stored[i]))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DateChanged.After(entries[j].DateChanged)
	})
	return entries, nil
}

// CountAll reports the total number of ledger entries. Test helper.
func (s *InMemory) CountAll() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, entries := range s.entries {
		total += len(entries)
	}
	return total
}

func cloneEntry(e *models.StatusHistory) *models.StatusHistory {
	cp := *e
	if e.OldStatus != nil {
		v := *e.OldStatus
		cp.OldStatus = &v
	}
	if e.ChangedBy != nil {
		v := *e.ChangedBy
		cp.ChangedBy = &v
	}
	return &cp
}
