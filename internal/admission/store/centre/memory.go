package centre

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
// Deletion protection for referenced centres is enforced at the service
// layer; the memory store has no view of applications.
type InMemory struct {
	mu      sync.RWMutex
	centres map[id.CentreID]*models.CompositionCentre
}

func NewInMemory() *InMemory {
	return &InMemory{centres: make(map[id.CentreID]*models.CompositionCentre)}
}

var _ Store = (*InMemory)(nil)

func (s *InMemory) GetOrCreate(_ context.Context, centre *models.CompositionCentre) (*models.CompositionCentre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.centres {
		if strings.EqualFold(existing.Name, centre.Name) {
			cp := *existing
			return &cp, nil
		}
	}
	cp := *centre
	s.centres[centre.ID] = &cp
	out := cp
	return &out, nil
}

func (s *InMemory) FindByID(_ context.Context, centreID id.CentreID) (*models.CompositionCentre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	centre, ok := s.centres[centreID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *centre
	return &cp, nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.CompositionCentre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, centre := range s.centres {
		if strings.EqualFold(centre.Name, name) {
			cp := *centre
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context) ([]*models.CompositionCentre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	centres := make([]*models.CompositionCentre, 0, len(s.centres))
	for _, c := range s.centres {
		cp := *c
		centres = append(centres, &cp)
	}
	sort.Slice(centres, func(i, j int) bool { return centres[i].Name < centres[j].Name })
	return centres, nil
}

func (s *InMemory) Delete(_ context.Context, centreID id.CentreID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.centres[centreID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.centres, centreID)
	return nil
}
