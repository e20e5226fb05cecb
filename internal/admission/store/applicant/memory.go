package applicant

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"admissio/internal/admission/models"
	"admissio/internal/admission/store"
	id "admissio/pkg/domain"
	"admissio/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and development mode.
// It enforces the same uniqueness rules as the PostgreSQL schema.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[id.ApplicantID]*models.ApplicantProfile
}

func NewInMemory() *InMemory {
	return &InMemory{profiles: make(map[id.ApplicantID]*models.ApplicantProfile)}
}

var _ Store = (*InMemory)(nil)

func (s *InMemory) Create(_ context.Context, profile *models.ApplicantProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[profile.ID]; ok {
		return sentinel.ErrConflict
	}
	if err := s.checkUnique(profile); err != nil {
		return err
	}

	s.profiles[profile.ID] = clone(profile)
	return nil
}

func (s *InMemory) Update(_ context.Context, profile *models.ApplicantProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[profile.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if err := s.checkUnique(profile); err != nil {
		return err
	}

	s.profiles[profile.ID] = clone(profile)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, applicantID id.ApplicantID) (*models.ApplicantProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[applicantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(profile), nil
}

func (s *InMemory) List(_ context.Context) ([]*models.ApplicantProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]*models.ApplicantProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		profiles = append(profiles, clone(p))
	}
	// Newest registrations first.
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].DateRegistered.After(profiles[j].DateRegistered)
	})
	return profiles, nil
}

// Count reports the number of stored profiles. Test helper.
func (s *InMemory) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

func (s *InMemory) checkUnique(candidate *models.ApplicantProfile) error {
	for _, existing := range s.profiles {
		if existing.ID == candidate.ID {
			continue
		}
		if strings.EqualFold(existing.Email, candidate.Email) {
			return &store.Conflict{Field: "email"}
		}
		if existing.Phone == candidate.Phone {
			return &store.Conflict{Field: "phone"}
		}
		if existing.LastName == candidate.LastName && sameDay(existing.DateOfBirth, candidate.DateOfBirth) {
			return &store.Conflict{Field: "last_name"}
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func clone(p *models.ApplicantProfile) *models.ApplicantProfile {
	cp := *p
	if p.UserID != nil {
		v := *p.UserID
		cp.UserID = &v
	}
	if p.UniversityID != nil {
		v := *p.UniversityID
		cp.UniversityID = &v
	}
	if p.UniversityAverage != nil {
		v := *p.UniversityAverage
		cp.UniversityAverage = &v
	}
	return &cp
}
