package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"wallet-dashboard/internal/config"
	"wallet-dashboard/internal/database"
	"wallet-dashboard/internal/filter"
	"wallet-dashboard/internal/handlers"
	"wallet-dashboard/internal/middleware"
	"wallet-dashboard/internal/models"
	"wallet-dashboard/internal/repositories"
	"wallet-dashboard/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	breakerService    = "wallet_api"
	janitorInterval   = time.Minute
	snapshotRetention = 7 * 24 * time.Hour
)

// application holds the wired components of the dashboard server
type application struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *database.DB
	snapshots repositories.SnapshotRepositoryInterface
	breaker   services.CircuitBreakerInterface
	service   *services.DashboardService
	limiter   *middleware.RateLimiter
	echo      *echo.Echo
}

func newApplication(
	cfg *config.Config,
	db *database.DB,
	metrics services.MetricsRecorderInterface,
	logger *slog.Logger,
) *application {
	app := &application{cfg: cfg, logger: logger, db: db}

	if db != nil {
		app.snapshots = repositories.NewSnapshotRepository(db.DB)
	}

	source := app.newDataSource(metrics)
	store := filter.NewStore(filter.WithLogger(logger))
	app.service = services.NewDashboardService(source, store, metrics, logger, services.DashboardOptions{
		Cache:     cfg.Cache,
		Snapshots: app.snapshots,
	})
	app.limiter = middleware.NewRateLimiter(
		float64(cfg.Security.RateLimitPerSecond),
		cfg.Security.RateLimitBurst,
	)
	app.echo = app.newRouter()

	return app
}

func (a *application) newDataSource(metrics services.MetricsRecorderInterface) services.DataSourceInterface {
	if a.cfg.Upstream.Demo {
		a.logger.Info("Serving generated demo data", "seed", a.cfg.Upstream.DemoSeed)
		return services.NewDemoDataSource(services.WithDemoSeed(a.cfg.Upstream.DemoSeed))
	}

	breakerConfig := services.DefaultCircuitBreakerConfig()
	breakerConfig.MaxFailures = a.cfg.Upstream.CircuitBreakerThreshold
	breakerConfig.ResetTimeout = a.cfg.Upstream.CircuitBreakerTimeout

	tags := map[string]string{"service": breakerService}
	a.breaker = services.NewCircuitBreaker(breakerConfig,
		services.WithStateChangeHook(func(state models.CircuitBreakerState) {
			metrics.RecordGauge(services.MetricCircuitBreakerState, float64(state), tags)
			a.logger.Warn("Circuit breaker state changed", "service", breakerService, "state", state.String())
		}),
	)
	metrics.RecordGauge(services.MetricCircuitBreakerState, float64(services.StateClosed), tags)

	return services.NewUpstreamClient(&a.cfg.Upstream, a.breaker, metrics, a.logger)
}

func (a *application) newRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Server.ReadTimeout = a.cfg.Server.ReadTimeout
	e.Server.WriteTimeout = a.cfg.Server.WriteTimeout

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: a.cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost},
	}))
	e.Use(echomw.BodyLimit("64K"))

	var db handlers.HealthChecker
	if a.db != nil {
		db = a.db
	}
	health := handlers.NewHealthCheckHandler(db, a.breaker, a.service)
	e.GET("/health", health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	dashboard := handlers.NewDashboardHandler(a.service, a.logger)
	filters := handlers.NewFilterHandler(a.service.Filters(), a.logger)

	api := e.Group("/api/v1", a.limiter.Middleware())
	api.GET("/user", dashboard.GetUser)
	api.GET("/wallet", dashboard.GetWallet)
	api.GET("/overview", dashboard.GetOverview)
	api.GET("/transactions", dashboard.ListTransactions)
	api.GET("/transactions/raw", dashboard.ListRawTransactions)
	api.GET("/balance-history", dashboard.GetBalanceHistory)
	api.POST("/refresh", dashboard.Refresh)

	api.GET("/filters", filters.GetFilters)
	api.GET("/filters/options", filters.GetOptions)
	api.PUT("/filters/start-date", filters.SetStartDate)
	api.PUT("/filters/end-date", filters.SetEndDate)
	api.PUT("/filters/types", filters.SetTypes)
	api.PUT("/filters/statuses", filters.SetStatuses)
	api.PUT("/filters/quick", filters.SetQuickFilter)
	api.POST("/filters/apply", filters.ApplyFilters)
	api.POST("/filters/clear", filters.ClearFilters)

	return e
}

// runJanitor drops expired cache entries, stale snapshots and idle rate limit
// visitors until ctx is cancelled
func (a *application) runJanitor(ctx context.Context) {
	go a.limiter.Run(ctx, janitorInterval)

	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if dropped := a.service.CollectGarbage(); dropped > 0 {
				a.logger.Debug("Dropped unused cache entries", "count", dropped)
			}
			if a.snapshots == nil {
				continue
			}
			removed, err := a.snapshots.DeleteOlderThan(ctx, now.Add(-snapshotRetention))
			if err != nil {
				a.logger.WarnContext(ctx, "Failed to prune snapshots", "error", err)
				continue
			}
			if removed > 0 {
				a.logger.Info("Pruned snapshots", "count", removed)
			}
		}
	}
}
