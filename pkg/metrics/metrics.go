// Package metrics registra las métricas Prometheus de la API: tráfico HTTP y
// eventos de negocio de cierres, pagos y liquidaciones mensuales.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa los colectores. Se construye una vez en main y se inyecta.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ClosingsCreated    prometheus.Counter
	ClosingRejections  *prometheus.CounterVec // reason: share_exceeded, ineligible, already_contracted...
	PaymentsRecorded   prometheus.Counter
	PayoutsRecorded    prometheus.Counter
	PayoutConflicts    prometheus.Counter
	NotificationErrors prometheus.Counter
}

// New crea y registra los colectores con el prefijo indicado en un registry propio.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ClosingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "closings_created_total",
			Help:      "SMD closings committed",
		}),
		ClosingRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "closing_rejections_total",
			Help:      "Closing requests rejected by a business rule",
		}, []string{"reason"}),
		PaymentsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "closing_payments_recorded_total",
			Help:      "Closing payments committed",
		}),
		PayoutsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rent_payouts_recorded_total",
			Help:      "Monthly rent payouts committed",
		}),
		PayoutConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rent_payout_conflicts_total",
			Help:      "Payout attempts rejected because the month was already paid",
		}),
		NotificationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_errors_total",
			Help:      "Best-effort email notices that failed to send",
		}),
	}
	reg.MustRegister(
		m.HTTPRequestsTotal, m.HTTPRequestDuration,
		m.ClosingsCreated, m.ClosingRejections,
		m.PaymentsRecorded, m.PayoutsRecorded, m.PayoutConflicts,
		m.NotificationErrors,
	)
	return m
}

// NewNop devuelve métricas registradas en un registry aislado (tests).
func NewNop() *Metrics {
	return New("test")
}
