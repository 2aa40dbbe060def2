package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/salesrep-scheduling/internal/appointments"
	"github.com/wolfman30/salesrep-scheduling/internal/availability"
	appconfig "github.com/wolfman30/salesrep-scheduling/internal/config"
	"github.com/wolfman30/salesrep-scheduling/internal/observability/metrics"
	"github.com/wolfman30/salesrep-scheduling/internal/schedule"
	"github.com/wolfman30/salesrep-scheduling/internal/settings"
	"github.com/wolfman30/salesrep-scheduling/internal/staff"
	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// ConnectPostgres opens a pgx pool and verifies it with a ping.
func ConnectPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	databaseURL = strings.TrimSpace(databaseURL)
	if databaseURL == "" {
		return nil, fmt.Errorf("bootstrap: database url is required")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	return pool, nil
}

// Services groups the domain services built from the available stores.
// Availability and Staff are nil without Postgres; Settings is nil without Redis.
type Services struct {
	Events       appointments.Repository
	Availability *availability.Service
	Staff        *staff.Service
	Settings     *settings.Store
}

// ServiceOptions tunes BuildServices.
type ServiceOptions struct {
	Registerer prometheus.Registerer
	Now        func() time.Time
}

// BuildServices wires the domain services. pool and redisClient may be nil.
func BuildServices(pool *pgxpool.Pool, redisClient *redis.Client, logger *logging.Logger, opts ServiceOptions) *Services {
	if logger == nil {
		logger = logging.Default()
	}

	out := &Services{}

	var tz schedule.TimezoneSource
	if redisClient != nil {
		out.Settings = settings.NewStore(redisClient)
		tz = out.Settings
	} else {
		logger.Warn("redis disabled; organization timezone defaults to UTC")
	}

	if pool == nil {
		logger.Warn("DATABASE_URL not set; using in-memory events and disabling availability")
		out.Events = appointments.NewInMemoryRepository()
		return out
	}

	events := appointments.NewPostgresRepository(pool)
	staffStore := staff.NewStore(pool)
	out.Events = events
	out.Staff = staff.NewService(staffStore, logger)

	svcOpts := []availability.Option{}
	if opts.Registerer != nil {
		svcOpts = append(svcOpts, availability.WithMetrics(metrics.NewAvailabilityMetrics(opts.Registerer)))
	}
	if opts.Now != nil {
		svcOpts = append(svcOpts, availability.WithClock(opts.Now))
	}
	out.Availability = availability.NewService(staffStore, staffStore, events, tz, logger, svcOpts...)
	return out
}
