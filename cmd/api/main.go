package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/salesrep-scheduling/internal/api/router"
	"github.com/wolfman30/salesrep-scheduling/internal/app/bootstrap"
	"github.com/wolfman30/salesrep-scheduling/internal/appointments"
	"github.com/wolfman30/salesrep-scheduling/internal/availability"
	appconfig "github.com/wolfman30/salesrep-scheduling/internal/config"
	httpmiddleware "github.com/wolfman30/salesrep-scheduling/internal/http/middleware"
	"github.com/wolfman30/salesrep-scheduling/internal/observability/metrics"
	"github.com/wolfman30/salesrep-scheduling/internal/settings"
	"github.com/wolfman30/salesrep-scheduling/internal/staff"
	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting sales rep scheduling API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		defer pool.Close()
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	registry, metricsHandler := setupMetrics()
	services := bootstrap.BuildServices(pool, redisClient, logger, bootstrap.ServiceOptions{Registerer: registry})

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Close()

	r := router.New(buildRouterConfig(cfg, services, logger, registry, metricsHandler, limiter))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics builds a dedicated registry with the runtime collectors and
// returns it together with its /metrics handler.
func setupMetrics() (*prometheus.Registry, http.Handler) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// connectPostgresPool returns nil when no URL is configured or the database
// cannot be reached; callers fall back to in-memory storage.
func connectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if databaseURL == "" {
		return nil
	}
	pool, err := bootstrap.ConnectPostgres(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to connect postgres", "error", err)
		return nil
	}
	logger.Info("connected to postgres")
	return pool
}

func buildRouterConfig(
	cfg *appconfig.Config,
	services *bootstrap.Services,
	logger *logging.Logger,
	registry prometheus.Registerer,
	metricsHandler http.Handler,
	limiter *httpmiddleware.RateLimiter,
) *router.Config {
	routerCfg := &router.Config{
		Logger:             logger,
		Env:                cfg.Env,
		Version:            cfg.APIVersion,
		EventsHandler:      appointments.NewHandler(services.Events, logger),
		MetricsHandler:     metricsHandler,
		HTTPMetrics:        metrics.NewHTTPMetrics(registry),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
	}
	if services.Availability != nil {
		routerCfg.AvailabilityHandler = availability.NewHandler(services.Availability, logger)
	}
	if services.Staff != nil {
		routerCfg.StaffHandler = staff.NewHandler(services.Staff, logger)
	}
	if services.Settings != nil {
		routerCfg.SettingsHandler = settings.NewHandler(services.Settings, logger)
	}
	return routerCfg
}
