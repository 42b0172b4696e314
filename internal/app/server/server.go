package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"salon/internal/domain/appointment"
	"salon/internal/domain/audit"
	"salon/internal/domain/auth"
	"salon/internal/domain/catalog"
	"salon/internal/domain/commission"
	"salon/internal/domain/payroll"
	"salon/internal/domain/tariff"
	"salon/internal/platform/config"
	"salon/internal/platform/db"
	"salon/internal/platform/memstore"
	"salon/internal/platform/metrics"
	"salon/internal/transport/http/api"
	appointmenthandler "salon/internal/transport/http/handlers/appointment"
	audithandler "salon/internal/transport/http/handlers/audit"
	cataloghandler "salon/internal/transport/http/handlers/catalog"
	payrollhandler "salon/internal/transport/http/handlers/payroll"
	"salon/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Router  http.Handler
	Metrics *metrics.Collector
	pool    *pgxpool.Pool
}

type stores struct {
	catalogUnit  catalog.Unit
	catalog      catalog.Store
	tariffs      tariff.Store
	appointments appointment.Store
	payroll      payroll.Store
	audit        audit.Store
}

func openStores(ctx context.Context, cfg config.Config) (stores, *pgxpool.Pool, error) {
	if cfg.StorageDriver == config.DriverMemory {
		mem := memstore.New()
		return stores{
			catalog:      mem.Catalog(),
			tariffs:      mem.Tariffs(),
			appointments: mem.Appointments(),
			payroll:      mem.Payroll(),
			audit:        mem.Audit(),
		}, nil, nil
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return stores{}, nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return stores{}, nil, fmt.Errorf("migrations: %w", err)
		}
	}
	return stores{
		catalogUnit:  catalog.NewPGUnit(pool),
		catalog:      catalog.NewStore(pool),
		tariffs:      tariff.NewStore(pool),
		appointments: appointment.NewStore(pool),
		payroll:      payroll.NewStore(pool),
		audit:        audit.NewStore(pool),
	}, pool, nil
}

// New builds the engine and its HTTP surface. Callers must Close the app.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, pool, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	ledger := tariff.NewLedger(st.tariffs)
	directory := catalog.NewDirectory(st.catalog, ledger, catalog.WithUnit(st.catalogUnit))
	scheduler := appointment.NewScheduler(st.appointments, directory, ledger, commission.NewCalculator(),
		appointment.WithLogger(logger))
	aggregator := payroll.NewAggregator(st.payroll, directory, payroll.WithLocation(cfg.Location()))
	auditSvc := audit.New(st.audit)
	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger, collector))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := pool.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.RequireCapability(auth.ActionMetricsRead)).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})

		cataloghandler.NewHandler(directory, ledger, auditSvc, cfg.Location()).RegisterRoutes(r)
		appointmenthandler.NewHandler(scheduler, auditSvc, collector).RegisterRoutes(r)
		payrollhandler.NewHandler(aggregator, auditSvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
	})

	return &App{Config: cfg, Router: router, Metrics: collector, pool: pool}, nil
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func Run() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("salon server listening", "addr", cfg.Addr, "storage", cfg.StorageDriver, "timezone", cfg.Timezone)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "err", err)
		return
	}
	slog.Info("server stopped")
}
