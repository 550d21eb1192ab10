package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
// Все методы безопасны для nil-получателя: при выключенных метриках передается nil
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration     *prometheus.HistogramVec
	DBOpenConnections   *prometheus.GaugeVec
	DBInUseConnections  *prometheus.GaugeVec
	DBIdleConnections   *prometheus.GaugeVec
	DBWaitCount         *prometheus.GaugeVec

	UpstreamDegradedTotal       *prometheus.CounterVec
	InvoicesCreatedTotal        *prometheus.CounterVec
	InvoiceNumberConflictsTotal *prometheus.CounterVec
	OutboxEventsTotal           *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном registry
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{}),
		UpstreamDegradedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "upstream_degraded_total",
			Help:        "Number of times a fallback value was used because an upstream call failed",
			ConstLabels: constLabels,
		}, []string{"upstream"}),
		InvoicesCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "invoices_created_total",
			Help:        "Number of invoices created",
			ConstLabels: constLabels,
		}, []string{"trigger"}),
		InvoiceNumberConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "invoice_number_conflicts_total",
			Help:        "Number of invoice number collisions",
			ConstLabels: constLabels,
		}, []string{"strategy"}),
		OutboxEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "outbox_events_total",
			Help:        "Outbox deliveries by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.UpstreamDegradedTotal,
		m.InvoicesCreatedTotal,
		m.InvoiceNumberConflictsTotal,
		m.OutboxEventsTotal,
	)

	return m
}

// IncUpstreamDegraded учитывает применение fallback-значения для upstream
func (m *Metrics) IncUpstreamDegraded(upstream string) {
	if m == nil {
		return
	}
	m.UpstreamDegradedTotal.WithLabelValues(upstream).Inc()
}

// IncInvoiceCreated учитывает созданный счет
func (m *Metrics) IncInvoiceCreated(trigger string) {
	if m == nil {
		return
	}
	m.InvoicesCreatedTotal.WithLabelValues(trigger).Inc()
}

// IncInvoiceNumberConflict учитывает коллизию номера счета
func (m *Metrics) IncInvoiceNumberConflict(strategy string) {
	if m == nil {
		return
	}
	m.InvoiceNumberConflictsTotal.WithLabelValues(strategy).Inc()
}

// IncOutboxEvent учитывает результат доставки события outbox
func (m *Metrics) IncOutboxEvent(result string) {
	if m == nil {
		return
	}
	m.OutboxEventsTotal.WithLabelValues(result).Inc()
}
