package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dbQueries  *prometheus.CounterVec
	dbDuration *prometheus.HistogramVec
	dbPool     *prometheus.GaugeVec

	reservationsCreated prometheus.Counter
	admissionRejected   *prometheus.CounterVec
	transitions         *prometheus.CounterVec
	sweepRuns           *prometheus.CounterVec
	sweepTransitioned   prometheus.Counter
	sweepDuration       prometheus.Histogram
	notifyFailures      *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),
		dbDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		dbPool: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_pool_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),
		reservationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "reservations_created_total",
			Help:        "Reservations admitted",
			ConstLabels: constLabels,
		}),
		admissionRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_admission_rejected_total",
			Help:        "Reservation requests rejected by admission",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_transitions_total",
			Help:        "Applied reservation status transitions",
			ConstLabels: constLabels,
		}, []string{"from", "to", "trigger"}),
		sweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "sweep_runs_total",
			Help:        "Sweep invocations",
			ConstLabels: constLabels,
		}, []string{"status"}),
		sweepTransitioned: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "sweep_transitioned_total",
			Help:        "Reservations transitioned by sweeps",
			ConstLabels: constLabels,
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "sweep_duration_seconds",
			Help:        "Sweep latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}),
		notifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notification_emit_failures_total",
			Help:        "Notifications that could not be stored",
			ConstLabels: constLabels,
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.dbQueries,
		m.dbDuration,
		m.dbPool,
		m.reservationsCreated,
		m.admissionRejected,
		m.transitions,
		m.sweepRuns,
		m.sweepTransitioned,
		m.sweepDuration,
		m.notifyFailures,
	)

	return m
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueries.WithLabelValues(operation, status).Inc()
	m.dbDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет метрики connection pool
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbPool.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.dbPool.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.dbPool.WithLabelValues("idle").Set(float64(stats.Idle))
	m.dbPool.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
}

func (m *Metrics) IncReservationCreated() {
	if m == nil {
		return
	}
	m.reservationsCreated.Inc()
}

func (m *Metrics) IncAdmissionRejected(reason string) {
	if m == nil {
		return
	}
	m.admissionRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncTransition(from, to, trigger string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to, trigger).Inc()
}

// ObserveSweep фиксирует результат одного прогона sweep
func (m *Metrics) ObserveSweep(transitioned int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.sweepRuns.WithLabelValues(status).Inc()
	m.sweepTransitioned.Add(float64(transitioned))
	m.sweepDuration.Observe(duration.Seconds())
}

func (m *Metrics) IncNotificationFailure(kind string) {
	if m == nil {
		return
	}
	m.notifyFailures.WithLabelValues(kind).Inc()
}
