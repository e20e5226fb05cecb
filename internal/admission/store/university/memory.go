package university

import (
	"context"
	"sort"
	"strings"
	"sync"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
	"admissio/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and development mode.
type InMemory struct {
	mu           sync.RWMutex
	universities map[id.UniversityID]*models.University
}

func NewInMemory() *InMemory {
	return &InMemory{universities: make(map[id.UniversityID]*models.University)}
}

var _ Store = (*InMemory)(nil)

func (s *InMemory) GetOrCreate(_ context.Context, u *models.University) (*models.University, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.universities {
		if strings.EqualFold(existing.Name, u.Name) {
			cp := *existing
			return &cp, nil
		}
	}
	cp := *u
	s.universities[u.ID] = &cp
	out := cp
	return &out, nil
}

func (s *InMemory) FindByID(_ context.Context, universityID id.UniversityID) (*models.University, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.universities[universityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.University, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	universities := make([]*models.University, 0, len(s.universities))
	for _, u := range s.universities {
		cp := *u
		universities = append(universities, &cp)
	}
	sort.Slice(universities, func(i, j int) bool { return universities[i].Name < universities[j].Name })
	return universities, nil
}
