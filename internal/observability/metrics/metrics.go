package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// AvailabilityMetrics exposes counters/histograms for availability computations.
type AvailabilityMetrics struct {
	requestsTotal  *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	skippedRecords *prometheus.CounterVec
}

func NewAvailabilityMetrics(reg prometheus.Registerer) *AvailabilityMetrics {
	m := &AvailabilityMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "availability",
			Name:      "requests_total",
			Help:      "Total availability computations by scope and outcome",
		}, []string{"scope", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scheduling",
			Subsystem: "availability",
			Name:      "duration_seconds",
			Help:      "Latency of availability computations including collaborator fetches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"scope"}),
		skippedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "availability",
			Name:      "skipped_records_total",
			Help:      "Stored records dropped as malformed during computation",
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.duration, m.skippedRecords)
	return m
}

func (m *AvailabilityMetrics) ObserveRequest(scope, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(scope, outcome).Inc()
	m.duration.WithLabelValues(scope).Observe(seconds)
}

// RecordSkip satisfies schedule.SkipRecorder.
func (m *AvailabilityMetrics) RecordSkip(kind string) {
	if m == nil {
		return
	}
	m.skippedRecords.WithLabelValues(kind).Inc()
}

// HTTPMetrics counts served requests.
type HTTPMetrics struct {
	requestsTotal *prometheus.CounterVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method and status code",
		}, []string{"method", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal)
	return m
}

func (m *HTTPMetrics) ObserveRequest(method string, status int) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, statusLabel(status)).Inc()
}

func statusLabel(status int) string {
	if status <= 0 {
		status = 200
	}
	return strconv.Itoa(status)
}
