package review

import (
	"context"
	"sort"
	"sync"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
)

// InMemory is a mutex-guarded map store for tests and development mode.
type InMemory struct {
	mu      sync.RWMutex
	reviews map[id.ApplicationID][]*models.Review
}

func NewInMemory() *InMemory {
	return &InMemory{reviews: make(map[id.ApplicationID][]*models.Review)}
}

var _ Store = (*InMemory)(nil)

func (s *InMemory) Create(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	s.reviews[r.ApplicationID] = append(s.reviews[r.ApplicationID], &cp)
	return nil
}

func (s *InMemory) ListByApplication(_ context.Context, applicationID id.ApplicationID) ([]*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.reviews[applicationID]
	reviews := make([]*models.Review, 0, len(stored))
	for _, r := range stored {
		cp := *r
		reviews = append(reviews, &cp)
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].DateReviewed.After(reviews[j].DateReviewed)
	})
	return reviews, nil
}
