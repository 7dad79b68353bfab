// Package metrics expone los colectores Prometheus del servicio de similitud.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricRankRequests        = "petmatch_rank_requests_total"
	MetricRankDuration        = "petmatch_rank_duration_seconds"
	MetricRankPoolSize        = "petmatch_rank_pool_size"
	MetricHTTPRequestDuration = "http_request_duration_seconds"
	MetricHTTPRequestsTotal   = "http_requests_total"
)

// Metrics agrupa los colectores. Es seguro para uso concurrente.
type Metrics struct {
	rankRequests        *prometheus.CounterVec
	rankDuration        *prometheus.HistogramVec
	rankPoolSize        prometheus.Histogram
	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
}

// NewMetrics crea los colectores sin registrarlos; ver Register.
func NewMetrics() *Metrics {
	return &Metrics{
		rankRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRankRequests,
				Help: "Total number of similar-pet rankings by outcome",
			},
			[]string{"outcome"},
		),
		rankDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricRankDuration,
				Help:    "Similar-pet ranking duration in seconds, provider calls included",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
			},
			[]string{"outcome"},
		),
		rankPoolSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricRankPoolSize,
				Help:    "Number of candidates scored per ranking",
				Buckets: []float64{0, 1, 5, 10, 20, 40, 60, 80},
			},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.01, 0.1, 0.5, 1.0, 2.0},
			},
			[]string{"method", "path", "status"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRank implementa service.RankObserver.
func (m *Metrics) ObserveRank(outcome string, poolSize int, elapsed time.Duration) {
	m.rankRequests.WithLabelValues(outcome).Inc()
	m.rankDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if outcome == "ok" {
		m.rankPoolSize.Observe(float64(poolSize))
	}
}

// ObserveHTTPRequest registra una request; path debe ser el patron de la ruta.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": status,
	}
	m.httpRequestDuration.With(labels).Observe(duration.Seconds())
	m.httpRequestsTotal.With(labels).Inc()
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.rankRequests,
		m.rankDuration,
		m.rankPoolSize,
		m.httpRequestDuration,
		m.httpRequestsTotal,
	}
}
