package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик сервиса календаря
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dbQueries  *prometheus.CounterVec
	dbDuration *prometheus.HistogramVec
	dbPool     *prometheus.GaugeVec

	feedEvents     *prometheus.CounterVec
	recurrenceRows *prometheus.CounterVec
}

// New создает и регистрирует метрики в собственном registry
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "status"}),
		dbDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbPool: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_connections",
			Help:        "Database connection pool state",
			ConstLabels: labels,
		}, []string{"state"}),
		feedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "changefeed_events_total",
			Help:        "Change feed events relayed to subscribers",
			ConstLabels: labels,
		}, []string{"topic", "action"}),
		recurrenceRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "recurrence_rows_written_total",
			Help:        "Slot rows inserted, adopted or deleted by recurrence operations",
			ConstLabels: labels,
		}, []string{"operation"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.dbQueries,
		m.dbDuration,
		m.dbPool,
		m.feedEvents,
		m.recurrenceRows,
	)

	return m
}

// Handler http.Handler для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry возвращает registry (для тестов)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	status := "ok"
	if err != nil && err != sql.ErrNoRows {
		status = "error"
	}
	m.dbQueries.WithLabelValues(operation, status).Inc()
	m.dbDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	m.dbPool.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.dbPool.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.dbPool.WithLabelValues("idle").Set(float64(stats.Idle))
}

func (m *Metrics) IncFeedEvent(topic, action string) {
	m.feedEvents.WithLabelValues(topic, action).Inc()
}

func (m *Metrics) AddRecurrenceRows(operation string, n int) {
	if n <= 0 {
		return
	}
	m.recurrenceRows.WithLabelValues(operation).Add(float64(n))
}
