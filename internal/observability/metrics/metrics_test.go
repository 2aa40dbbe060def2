package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func labelsMatch(m *dto.Metric, want map[string]string) bool {
	got := map[string]string{}
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestAvailabilityMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAvailabilityMetrics(reg)

	m.ObserveRequest("week", "found", 0.02)
	m.ObserveRequest("week", "found", 0.03)
	m.ObserveRequest("day", "invalid_date", 0)
	m.RecordSkip("slot")

	assert.Equal(t, 2.0, counterValue(t, reg, "scheduling_availability_requests_total", map[string]string{"scope": "week", "outcome": "found"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "scheduling_availability_requests_total", map[string]string{"scope": "day", "outcome": "invalid_date"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "scheduling_availability_skipped_records_total", map[string]string{"kind": "slot"}))
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", 200)
	m.ObserveRequest("GET", 0)
	m.ObserveRequest("POST", 400)

	assert.Equal(t, 2.0, counterValue(t, reg, "scheduling_http_requests_total", map[string]string{"method": "GET", "status": "200"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "scheduling_http_requests_total", map[string]string{"method": "POST", "status": "400"}))
}

func TestMetricsNilSafe(t *testing.T) {
	var a *AvailabilityMetrics
	a.ObserveRequest("week", "found", 0.1)
	a.RecordSkip("slot")

	var h *HTTPMetrics
	h.ObserveRequest("GET", 200)
}
