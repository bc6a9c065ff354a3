// Package metrics exports ledger counters to prometheus.
package metrics

import (
	"net/http"
	"time"

	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wallet_ledger"

// Prometheus records ledger metrics on its own registry
type Prometheus struct {
	registry *prometheus.Registry

	operationsTotal    *prometheus.CounterVec
	compensationsTotal *prometheus.CounterVec
	webhookEventsTotal *prometheus.CounterVec
	gatewayCallSeconds *prometheus.HistogramVec
	dbOpenConnections  prometheus.Gauge
	dbInUseConnections prometheus.Gauge
	dbWaitCount        prometheus.Gauge
	httpRequestsTotal  *prometheus.CounterVec
	httpRequestSeconds *prometheus.HistogramVec
}

var (
	_ coreport.Metrics           = (*Prometheus)(nil)
	_ database.PoolStatsRecorder = (*Prometheus)(nil)
)

// NewPrometheus registers every collector on a fresh registry, together with
// the go runtime and process collectors
func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Prometheus{
		registry: registry,
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Finished wallet operations partitioned by result.",
			},
			[]string{"operation", "result"},
		),
		compensationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compensations_total",
				Help:      "Compensating credits after failed payouts, by failed step and result.",
			},
			[]string{"step", "result"},
		),
		webhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_events_total",
				Help:      "Gateway notifications partitioned by event and result.",
			},
			[]string{"event", "result"},
		),
		gatewayCallSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_call_duration_seconds",
				Help:      "Latency of payment gateway calls.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation", "result"},
		),
		dbOpenConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_open_connections",
				Help:      "Open database connections.",
			},
		),
		dbInUseConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_in_use_connections",
				Help:      "Database connections currently in use.",
			},
		),
		dbWaitCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_wait_count",
				Help:      "Total number of waits for a database connection.",
			},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests partitioned by route template and status.",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route template.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// RecordOperation implements core.Metrics
func (p *Prometheus) RecordOperation(operation, result string) {
	p.operationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordCompensation implements core.Metrics
func (p *Prometheus) RecordCompensation(step, result string) {
	p.compensationsTotal.WithLabelValues(step, result).Inc()
}

// RecordWebhook implements core.Metrics
func (p *Prometheus) RecordWebhook(event, result string) {
	p.webhookEventsTotal.WithLabelValues(event, result).Inc()
}

// ObserveGatewayCall implements core.Metrics
func (p *Prometheus) ObserveGatewayCall(operation, result string, elapsed time.Duration) {
	p.gatewayCallSeconds.WithLabelValues(operation, result).Observe(elapsed.Seconds())
}

// RecordPoolStats implements database.PoolStatsRecorder
func (p *Prometheus) RecordPoolStats(stats database.ConnectionPoolMetrics) {
	p.dbOpenConnections.Set(float64(stats.OpenConnections))
	p.dbInUseConnections.Set(float64(stats.InUse))
	p.dbWaitCount.Set(float64(stats.WaitCount))
}

// ObserveHTTPRequest implements middleware.HTTPRecorder
func (p *Prometheus) ObserveHTTPRequest(method, route, status string, elapsed time.Duration) {
	p.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	p.httpRequestSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry returns the registry the collectors live on
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the exposition format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
