package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/salesrep-scheduling/internal/api/router"
	"github.com/wolfman30/salesrep-scheduling/internal/app/bootstrap"
	appconfig "github.com/wolfman30/salesrep-scheduling/internal/config"
	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

func TestSetupMetricsExposesRuntimeCollectors(t *testing.T) {
	registry, handler := setupMetrics()
	require.NotNil(t, registry)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestConnectPostgresPoolEmptyURLReturnsNil(t *testing.T) {
	assert.Nil(t, connectPostgresPool(context.Background(), "", logging.Discard()))
}

func TestBuildRouterConfigMountsAvailableHandlers(t *testing.T) {
	logger := logging.Discard()
	cfg := &appconfig.Config{Env: "test", APIVersion: "v1", CORSAllowedOrigins: []string{"*"}}
	registry, metricsHandler := setupMetrics()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	services := bootstrap.BuildServices(nil, client, logger, bootstrap.ServiceOptions{Registerer: registry})
	routerCfg := buildRouterConfig(cfg, services, logger, registry, metricsHandler, nil)

	assert.NotNil(t, routerCfg.EventsHandler)
	assert.NotNil(t, routerCfg.SettingsHandler)
	assert.Nil(t, routerCfg.AvailabilityHandler)
	assert.Nil(t, routerCfg.StaffHandler)

	h := router.New(routerCfg)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/sales-rep-availability/current-week", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
