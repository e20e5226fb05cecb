package application

import (
	"context"
	"sort"
	"sync"

	"admissio/internal/admission/models"
	"admissio/internal/admission/store"
	id "admissio/pkg/domain"
	"admissio/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and development mode.
// It enforces tracking ID uniqueness and the one-application-per-applicant
// rule, mirroring the PostgreSQL constraints.
type InMemory struct {
	mu   sync.RWMutex
	apps map[id.ApplicationID]*models.Application
}

func NewInMemory() *InMemory {
	return &InMemory{apps: make(map[id.ApplicationID]*models.Application)}
}

var _ Store = (*InMemory)(nil)

func (s *InMemory) Create(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.apps[app.ID]; ok {
		return sentinel.ErrConflict
	}
	for _, existing := range s.apps {
		if existing.ApplicantID == app.ApplicantID {
			return &store.Conflict{Field: "applicant"}
		}
		if app.TrackingID != "" && existing.TrackingID == app.TrackingID {
			return &store.Conflict{Field: "tracking_id"}
		}
	}

	s.apps[app.ID] = cloneApp(app)
	return nil
}

func (s *InMemory) Update(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.apps[app.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.apps {
		if existing.ID == app.ID {
			continue
		}
		if app.TrackingID != "" && existing.TrackingID == app.TrackingID {
			return &store.Conflict{Field: "tracking_id"}
		}
	}

	s.apps[app.ID] = cloneApp(app)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, applicationID id.ApplicationID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.apps[applicationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return loaded(app), nil
}

func (s *InMemory) FindByTrackingID(_ context.Context, trackingID string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, app := range s.apps {
		if app.TrackingID == trackingID {
			return loaded(app), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) TrackingIDExists(_ context.Context, trackingID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, app := range s.apps {
		if app.TrackingID == trackingID {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemory) ExistsByCentre(_ context.Context, centreID id.CentreID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, app := range s.apps {
		if app.CentreID == centreID {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	apps := make([]*models.Application, 0, len(s.apps))
	for _, app := range s.apps {
		apps = append(apps, loaded(app))
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].DateSubmitted.After(apps[j].DateSubmitted)
	})
	return apps, nil
}

// loaded clones the stored row and stamps the load-time status baseline,
// like a SQL read materializing a fresh struct.
func loaded(app *models.Application) *models.Application {
	cp := cloneApp(app)
	cp.MarkLoaded()
	return cp
}

// cloneApp copies the persisted fields only; write-time hints are not part
// of the stored state.
func cloneApp(app *models.Application) *models.Application {
	return &models.Application{
		ID:            app.ID,
		ApplicantID:   app.ApplicantID,
		CentreID:      app.CentreID,
		TrackingID:    app.TrackingID,
		Status:        app.Status,
		DateSubmitted: app.DateSubmitted,
		DateUpdated:   app.DateUpdated,
	}
}
