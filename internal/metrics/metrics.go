package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var once sync.Once

// Collectors are exported so tests can read them back with testutil.
var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wayfarer",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	BookingOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wayfarer",
			Name:      "booking_outcomes_total",
			Help:      "Booking attempts by outcome kind.",
		},
		[]string{"kind"},
	)

	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wayfarer",
			Name:      "notifications_total",
			Help:      "Notifications emitted by severity.",
		},
		[]string{"severity"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(HTTPRequests, BookingOutcomes, Notifications)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	HTTPRequests.WithLabelValues(endpoint).Inc()
}

// IncBookingOutcome increments the counter for a booking outcome kind.
func IncBookingOutcome(kind string) {
	BookingOutcomes.WithLabelValues(kind).Inc()
}

// IncNotification increments the counter for a notification severity.
func IncNotification(severity string) {
	Notifications.WithLabelValues(severity).Inc()
}
