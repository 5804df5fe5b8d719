package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RegistrationsCreated prometheus.Counter
	ReceiptsUploaded     prometheus.Counter
	StatusUpdates        *prometheus.CounterVec
	StoreOpDuration      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campreg_registrations_created_total",
			Help: "Total number of registrations accepted",
		}),
		ReceiptsUploaded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campreg_receipts_uploaded_total",
			Help: "Total number of payment receipts stored",
		}),
		StatusUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campreg_status_updates_total",
			Help: "Admin payment status updates by target status",
		}, []string{"status"}),
		StoreOpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campreg_store_op_duration_seconds",
			Help:    "Latency of KV store round-trips by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
}
