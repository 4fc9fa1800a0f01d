package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Wilmersdorf/spaceoverview/internal/api/handlers"
	mw "github.com/Wilmersdorf/spaceoverview/internal/api/middleware"
	"github.com/Wilmersdorf/spaceoverview/internal/buildconfig"
	"github.com/Wilmersdorf/spaceoverview/internal/config"
	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/Wilmersdorf/spaceoverview/internal/service"
	"github.com/Wilmersdorf/spaceoverview/internal/store"
	"github.com/Wilmersdorf/spaceoverview/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router  *chi.Mux
	Engine  *service.ComputationService
	Metrics *telemetry.Metrics

	// Scheduler is nil unless RECOMPUTE_MODE is "async".
	Scheduler *service.RecomputeScheduler

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	policy, err := service.ParseEligibilityPolicy(config.RecomputeEligibility())
	if err != nil {
		return nil, fmt.Errorf("RECOMPUTE_ELIGIBILITY: %w", err)
	}

	metrics := telemetry.NewMetrics()

	// Stores
	spaceStore := store.NewSpaceStore(db)
	propertyStore := store.NewPropertyStore(db)
	linkStore := store.NewLinkStore(db)
	theoremStore := store.NewTheoremStore(db)
	computationStore := store.NewComputationStore(db)
	backupStore := store.NewBackupStore(db)

	// Inference engine
	engine := service.NewComputationService(spaceStore, linkStore, theoremStore, computationStore, logger)
	engine.SetEligibilityPolicy(policy)
	engine.SetMetrics(metrics)

	var recomputer service.Recomputer = engine
	var scheduler *service.RecomputeScheduler
	if config.RecomputeMode() == "async" {
		scheduler = service.NewRecomputeScheduler(engine, logger)
		scheduler.SetDebounce(config.RecomputeDebounce())
		scheduler.SetMetrics(metrics)
		recomputer = scheduler
	}
	logger.Info("recompute configured",
		zap.String("mode", config.RecomputeMode()),
		zap.String("eligibility", string(policy)))

	// Services
	spaceSvc := service.NewSpaceService(spaceStore, propertyStore, linkStore, computationStore, recomputer, logger)
	propertySvc := service.NewPropertyService(propertyStore, spaceStore, linkStore, theoremStore, computationStore, recomputer, logger)
	linkSvc := service.NewLinkService(linkStore, spaceStore, propertyStore, computationStore, recomputer, logger)
	theoremSvc := service.NewTheoremService(theoremStore, propertyStore, recomputer, logger)
	backupSvc := service.NewBackupService(spaceStore, propertyStore, linkStore, theoremStore, backupStore, recomputer, logger)

	// Handlers
	spaceHandler := handlers.NewSpaceHandler(spaceSvc, logger)
	propertyHandler := handlers.NewPropertyHandler(propertySvc, logger)
	linkHandler := handlers.NewLinkHandler(linkSvc, logger)
	theoremHandler := handlers.NewTheoremHandler(theoremSvc, logger)
	adminHandler := handlers.NewAdminHandler(engine, backupSvc, logger)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Engine:    engine,
		Metrics:   metrics,
		Scheduler: scheduler,
		startTime: time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount, metrics)
	adminOnly := mw.AdminAuth(config.AdminAPIKey())

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db))
	r.Get("/version", versionHandler)
	r.Get("/metrics", app.metricsHandler())
	r.Method(http.MethodGet, "/metrics/prometheus", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/spaces", func(r chi.Router) {
			r.Get("/", spaceHandler.List)
			r.With(adminOnly).Post("/", spaceHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", spaceHandler.Get)
				r.Get("/properties", spaceHandler.Properties)
				r.Get("/properties/{propertyId}", linkHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Put("/", spaceHandler.Update)
					r.Delete("/", spaceHandler.Delete)
					r.Put("/properties/{propertyId}", linkHandler.Put)
					r.Delete("/properties/{propertyId}", linkHandler.Delete)
				})
			})
		})

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", propertyHandler.List)
			r.With(adminOnly).Post("/", propertyHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", propertyHandler.Get)
				r.Get("/spaces", propertyHandler.Spaces)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Put("/", propertyHandler.Update)
					r.Delete("/", propertyHandler.Delete)
				})
			})
		})

		r.Route("/theorems", func(r chi.Router) {
			r.Get("/", theoremHandler.List)
			r.With(adminOnly).Post("/", theoremHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", theoremHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Put("/", theoremHandler.Update)
					r.Delete("/", theoremHandler.Delete)
				})
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/compute", adminHandler.Compute)
			r.Get("/export", adminHandler.Export)
			r.Post("/import", adminHandler.Import)
		})
	})

	return app, nil
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(buildconfig.VersionInfo())
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"version":    buildconfig.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy interfaces at compile time.
var (
	_ domain.SpaceStore       = (*store.SpaceStore)(nil)
	_ domain.PropertyStore    = (*store.PropertyStore)(nil)
	_ domain.LinkStore        = (*store.LinkStore)(nil)
	_ domain.TheoremStore     = (*store.TheoremStore)(nil)
	_ domain.ComputationStore = (*store.ComputationStore)(nil)
	_ domain.BackupStore      = (*store.BackupStore)(nil)
	_ service.Recomputer      = (*service.ComputationService)(nil)
	_ service.Recomputer      = (*service.RecomputeScheduler)(nil)
)
