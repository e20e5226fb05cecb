package service

import (
	"context"
	"errors"
	"log/slog"

	"admissio/internal/admission/models"
	id "admissio/pkg/domain"
	dErrors "admissio/pkg/domain-errors"
	"admissio/pkg/platform/sentinel"
	"admissio/pkg/platform/tx"
)

// CentreService manages composition centres.
type CentreService struct {
	deps
}

func NewCentreService(stores Stores, runner tx.Runner, opts ...Option) *CentreService {
	return &CentreService{deps: newDeps(stores, runner, opts)}
}

// Create resolves a centre by name, creating it when absent. Concurrent
// creators of the same name converge on a single centre.
func (s *CentreService) Create(ctx context.Context, name, location string) (*models.CompositionCentre, error) {
	ctx, span := s.tracer.Start(ctx, "CentreService.Create")
	defer span.End()

	c, err := models.NewCompositionCentre(name, location)
	if err != nil {
		return nil, err
	}
	stored, err := s.stores.Centres.GetOrCreate(ctx, c)
	if err != nil {
		return nil, internalErr("create centre", err)
	}
	return stored, nil
}

// Get returns one centre.
func (s *CentreService) Get(ctx context.Context, centreID id.CentreID) (*models.CompositionCentre, error) {
	ctx, span := s.tracer.Start(ctx, "CentreService.Get")
	defer span.End()

	c, err := s.stores.Centres.FindByID(ctx, centreID)
	if err != nil {
		return nil, translate(err, "composition centre not found")
	}
	return c, nil
}

// List returns all centres ordered by name.
func (s *CentreService) List(ctx context.Context) ([]*models.CompositionCentre, error) {
	ctx, span := s.tracer.Start(ctx, "CentreService.List")
	defer span.End()

	centres, err := s.stores.Centres.List(ctx)
	if err != nil {
		return nil, internalErr("list centres", err)
	}
	return centres, nil
}

// Delete removes an unreferenced centre. A centre still pointed at by any
// application is protected; the check and the delete share one transaction
// so a concurrent submission cannot slip between them on SQL stores.
func (s *CentreService) Delete(ctx context.Context, centreID id.CentreID) error {
	ctx, span := s.tracer.Start(ctx, "CentreService.Delete")
	defer span.End()

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		referenced, err := s.stores.Applications.ExistsByCentre(ctx, centreID)
		if err != nil {
			return internalErr("check centre references", err)
		}
		if referenced {
			return sentinel.ErrReferenced
		}
		return s.stores.Centres.Delete(ctx, centreID)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrReferenced) {
			return dErrors.New(dErrors.CodeConflict, "composition centre is referenced by applications")
		}
		return translate(err, "composition centre not found")
	}

	s.logger.InfoContext(ctx, "composition centre deleted",
		slog.String("centre_id", centreID.String()))
	return nil
}
