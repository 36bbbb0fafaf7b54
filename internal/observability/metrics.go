// README: Prometheus metrics for booking, payment and review flows.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxigo", Name: "orders_created_total", Help: "Orders created, by resulting status"},
		[]string{"status"},
	)
	PaymentsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "taxigo", Name: "payments_completed_total", Help: "Payments confirmed"},
	)
	ReviewsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "taxigo", Name: "reviews_submitted_total", Help: "Reviews accepted"},
	)
	DriversReserved = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "taxigo", Name: "drivers_reserved_total", Help: "Successful driver reservations"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxigo", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taxigo",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
