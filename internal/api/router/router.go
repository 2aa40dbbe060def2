package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/salesrep-scheduling/internal/appointments"
	"github.com/wolfman30/salesrep-scheduling/internal/availability"
	httpmiddleware "github.com/wolfman30/salesrep-scheduling/internal/http/middleware"
	"github.com/wolfman30/salesrep-scheduling/internal/observability/metrics"
	"github.com/wolfman30/salesrep-scheduling/internal/settings"
	"github.com/wolfman30/salesrep-scheduling/internal/staff"
	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

const serviceName = "Sales Rep Scheduling API"

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	Env                 string
	Version             string
	AvailabilityHandler *availability.Handler
	EventsHandler       *appointments.Handler
	StaffHandler        *staff.Handler
	SettingsHandler     *settings.Handler
	MetricsHandler      http.Handler
	HTTPMetrics         *metrics.HTTPMetrics
	CORSAllowedOrigins  []string
	RateLimiter         *httpmiddleware.RateLimiter
	Now                 func() time.Time
}

// New creates a new chi router with all routes configured.
func New(cfg *Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(httpmiddleware.RequestLogger(cfg.Logger, cfg.HTTPMetrics))

	health := healthHandler(now)
	r.Get("/", rootHandler(cfg.Env, cfg.Version))
	r.Get("/health", health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(cfg.RateLimiter.Middleware)
		}
		api.Get("/health", health)

		if cfg.AvailabilityHandler != nil {
			api.Route("/sales-rep-availability", cfg.AvailabilityHandler.Routes)
		}
		if cfg.EventsHandler != nil {
			api.Route("/events", cfg.EventsHandler.Routes)
		}
		if cfg.StaffHandler != nil {
			api.Route("/staff", cfg.StaffHandler.Routes)
		}
		if cfg.SettingsHandler != nil {
			api.Route("/settings", cfg.SettingsHandler.Routes)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})

	return r
}

func rootHandler(env, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message":     serviceName,
			"environment": env,
			"version":     version,
		})
	}
}

func healthHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": now().UTC().Format(time.RFC3339),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
