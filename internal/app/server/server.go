package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrmlite/internal/domain/auth"
	"hrmlite/internal/domain/directory"
	"hrmlite/internal/domain/leave"
	"hrmlite/internal/domain/payroll"
	"hrmlite/internal/domain/printformat"
	"hrmlite/internal/platform/config"
	"hrmlite/internal/platform/db"
	"hrmlite/internal/platform/metrics"
	"hrmlite/internal/transport/http/api"
	authhandler "hrmlite/internal/transport/http/handlers/auth"
	directoryhandler "hrmlite/internal/transport/http/handlers/directory"
	leavehandler "hrmlite/internal/transport/http/handlers/leave"
	payrollhandler "hrmlite/internal/transport/http/handlers/payroll"
	printformathandler "hrmlite/internal/transport/http/handlers/printformat"
	"hrmlite/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Metrics *metrics.Collector
}

// New connects to the database, applies migrations and seed data per the
// config, and wires the full HTTP surface. Tests use it with httptest; Run
// handles the process lifecycle.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	collector := metrics.New()

	authService := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL, cfg.AllowSelfSignup)
	directoryService := directory.NewService(directory.NewStore(pool))
	payrollService := payroll.NewService(payroll.NewStore(pool))
	leaveService := leave.NewService(leave.NewStore(pool))
	formatService := printformat.NewService(printformat.NewStore(pool))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(authService))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		if cfg.MetricsEnabled {
			r.With(middleware.RequireAdmin).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
			})
		}

		authhandler.NewHandler(authService).RegisterRoutes(r)
		directoryhandler.NewHandler(directoryService).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService, authService, directoryService, formatService).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService, authService).RegisterRoutes(r)
		printformathandler.NewHandler(formatService).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router, Metrics: collector}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
