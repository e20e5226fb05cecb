// Command server runs the admissions backend.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	accounthandler "admissio/internal/account/handler"
	accountservice "admissio/internal/account/service"
	accountstore "admissio/internal/account/store"
	"admissio/internal/admission/cache"
	"admissio/internal/admission/events"
	"admissio/internal/admission/handler"
	"admissio/internal/admission/recorder"
	"admissio/internal/admission/service"
	"admissio/internal/admission/store/applicant"
	"admissio/internal/admission/store/application"
	"admissio/internal/admission/store/centre"
	"admissio/internal/admission/store/history"
	"admissio/internal/admission/store/review"
	"admissio/internal/admission/store/university"
	"admissio/internal/platform/config"
	"admissio/internal/platform/httpserver"
	"admissio/internal/platform/logger"
	"admissio/internal/platform/metrics"
	"admissio/internal/platform/middleware"
	"admissio/internal/platform/postgres"
	"admissio/internal/platform/redis"
	"admissio/pkg/platform/tx"
)

func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	m := metrics.New()

	stores, accounts, runner, healthDB, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	trackingCache := cache.NewTrackingCache(redisClient, cfg.TrackingCacheTTL, log, m)

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			return err
		}
		defer kafka.Close()
		publisher = kafka
	}

	accountSvc := accountservice.New(accounts, cfg.JWTSigningKey, log)
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := accountSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
	}

	rec := recorder.NewStatusRecorder(stores.History, log)
	common := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
	}
	appSvc := service.NewApplicationService(stores, runner, append(common,
		service.WithObserver(rec),
		service.WithPublisher(publisher),
		service.WithTrackingCache(trackingCache),
	)...)
	applicantSvc := service.NewApplicantService(stores, runner, accountSvc, common...)
	centreSvc := service.NewCentreService(stores, runner, common...)
	reviewSvc := service.NewReviewService(stores, runner, common...)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RequestTime,
		middleware.ClientMetadata,
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.LatencyByRoute(m),
		middleware.ContentTypeJSON,
		middleware.Timeout(30*time.Second),
		middleware.Actor(cfg.JWTSigningKey, log),
	)

	router.Get("/healthz", healthHandler(healthDB, redisClient))
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	handler.New(appSvc, applicantSvc, centreSvc, reviewSvc, log).Register(router)
	accounthandler.New(accountSvc, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildStores selects PostgreSQL or in-memory persistence. An empty database
// URL runs everything in memory, which is development mode.
func buildStores(ctx context.Context, cfg config.Server, log *slog.Logger) (service.Stores, accountstore.Store, tx.Runner, pinger, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("no database configured, using in-memory stores")
		stores := service.Stores{
			Applicants:   applicant.NewInMemory(),
			Applications: application.NewInMemory(),
			History:      history.NewInMemory(),
			Centres:      centre.NewInMemory(),
			Universities: university.NewInMemory(),
			Reviews:      review.NewInMemory(),
		}
		return stores, accountstore.NewInMemory(), tx.Passthrough{}, nil, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return service.Stores{}, nil, nil, nil, err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return service.Stores{}, nil, nil, nil, err
	}

	stores := service.Stores{
		Applicants:   applicant.NewPostgres(db),
		Applications: application.NewPostgres(db),
		History:      history.NewPostgres(db),
		Centres:      centre.NewPostgres(db),
		Universities: university.NewPostgres(db),
		Reviews:      review.NewPostgres(db),
	}
	return stores, accountstore.NewPostgres(db), tx.NewSQLRunner(db), db, nil
}

type pinger interface {
	PingContext(ctx context.Context) error
}

func healthHandler(db pinger, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, `{"status":"database unavailable"}`, http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, `{"status":"cache unavailable"}`, http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
