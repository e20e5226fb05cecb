// Package service implements the admission lifecycle use cases.
//
// Services own the transaction boundaries: every multi-step write runs inside
// a single tx.Runner callback so partial persistence is never observable.
// Store errors are translated into coded domain errors here; handlers only
// ever see pkg/domain-errors values.
package service

import (
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"admissio/internal/admission/cache"
	"admissio/internal/admission/events"
	"admissio/internal/admission/recorder"
	"admissio/internal/admission/store"
	"admissio/internal/admission/store/applicant"
	"admissio/internal/admission/store/application"
	"admissio/internal/admission/store/centre"
	"admissio/internal/admission/store/history"
	"admissio/internal/admission/store/review"
	"admissio/internal/admission/store/university"
	"admissio/internal/admission/tracking"
	"admissio/internal/platform/metrics"
	dErrors "admissio/pkg/domain-errors"
	"admissio/pkg/platform/sentinel"
	"admissio/pkg/platform/tx"
)

const tracerName = "admissio/internal/admission/service"

// Stores bundles the per-aggregate stores a service deployment wires up.
// Both the in-memory and the PostgreSQL sets satisfy it.
type Stores struct {
	Applicants   applicant.Store
	Applications application.Store
	History      history.Store
	Centres      centre.Store
	Universities university.Store
	Reviews      review.Store
}

type deps struct {
	stores    Stores
	runner    tx.Runner
	generator *tracking.Generator
	observers []recorder.Observer
	publisher events.Publisher
	cache     *cache.TrackingCache
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// Option customizes service construction.
type Option func(*deps)

// WithObserver registers a save-path observer. Observers run inside the save
// transaction in registration order; the first error aborts the save.
func WithObserver(obs recorder.Observer) Option {
	return func(d *deps) { d.observers = append(d.observers, obs) }
}

// WithPublisher sets the post-commit event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(d *deps) { d.publisher = p }
}

// WithTrackingCache sets the public tracking lookup cache.
func WithTrackingCache(c *cache.TrackingCache) Option {
	return func(d *deps) { d.cache = c }
}

// WithGenerator overrides the tracking ID generator. Tests pin the random
// suffix through this.
func WithGenerator(g *tracking.Generator) Option {
	return func(d *deps) { d.generator = g }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *deps) { d.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *deps) { d.metrics = m }
}

func newDeps(stores Stores, runner tx.Runner, opts []Option) deps {
	d := deps{
		stores:    stores,
		runner:    runner,
		generator: tracking.New(),
		publisher: events.Noop{},
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// translateConflict maps a store uniqueness violation to a coded error,
// attributing profile conflicts to the offending input field.
func translateConflict(err error) error {
	switch store.ConflictField(err) {
	case "email":
		return dErrors.NewField(dErrors.CodeValidation, "email", "email address already used")
	case "phone":
		return dErrors.NewField(dErrors.CodeValidation, "phone", "phone number already used")
	case "last_name":
		return dErrors.NewField(dErrors.CodeValidation, "last_name", "an applicant with this name and date of birth already exists")
	case "applicant":
		return dErrors.NewField(dErrors.CodeConflict, "applicant", "applicant already has an application")
	}
	if errors.Is(err, sentinel.ErrAlreadyUsed) {
		return dErrors.Wrap(err, dErrors.CodeConflict, "value already in use")
	}
	return nil
}

// translate maps store errors into coded domain errors. Already-coded errors
// pass through untouched so validation raised deeper down keeps its field.
func translate(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if conflict := translateConflict(err); conflict != nil {
		return conflict
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	if errors.Is(err, sentinel.ErrReferenced) {
		return dErrors.Wrap(err, dErrors.CodeConflict, "entity is referenced by other records")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
}

func internalErr(op string, err error) error {
	return dErrors.Wrap(fmt.Errorf("%s: %w", op, err), dErrors.CodeInternal, "storage failure")
}
