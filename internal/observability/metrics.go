package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "comparaparqueaderos"

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "bookings_created_total", Help: "Bookings persisted and handed off"})
	BookingFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "booking_failures_total", Help: "Booking attempts rejected or failed, by reason"},
		[]string{"reason"},
	)

	OfferCacheHits   = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "offer_cache_hits_total", Help: "Offer listings served from cache"})
	OfferCacheMisses = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "offer_cache_misses_total", Help: "Offer listings loaded from the database"})

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "notifications_failed_total", Help: "Notification deliveries that failed, by channel"},
		[]string{"channel"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
