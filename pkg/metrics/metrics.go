package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	SlotMutationsTotal   *prometheus.CounterVec
	SlotsGeneratedTotal  *prometheus.CounterVec
	AffectedPatientTotal *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном реестре (используется в тестах)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBInUseConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBIdleConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		SlotMutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_mutations_total",
			Help:        "Per-slot outcomes of bulk disable/enable operations",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),

		SlotsGeneratedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "slots_generated_total",
			Help:        "Slots materialized from shift configuration",
			ConstLabels: constLabels,
		}, []string{"mode"}),

		AffectedPatientTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "affected_patients_total",
			Help:        "Patients affected by disable operations per contact bucket",
			ConstLabels: constLabels,
		}, []string{"bucket"}),
	}
}

// ObserveSlotMutation увеличивает счётчик исхода операции над слотом
// Безопасен для nil (метрики выключены)
func (m *Metrics) ObserveSlotMutation(operation, outcome string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.SlotMutationsTotal.WithLabelValues(operation, outcome).Add(float64(n))
}

// ObserveSlotsGenerated учитывает созданные слоты
func (m *Metrics) ObserveSlotsGenerated(mode string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.SlotsGeneratedTotal.WithLabelValues(mode).Add(float64(n))
}

// ObserveAffectedPatients учитывает размер корзины пациентов
func (m *Metrics) ObserveAffectedPatients(bucket string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.AffectedPatientTotal.WithLabelValues(bucket).Add(float64(n))
}
