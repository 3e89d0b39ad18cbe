package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	BookingsCreated    *prometheus.CounterVec
	BookingTransitions *prometheus.CounterVec
	ReviewsSubmitted   *prometheus.CounterVec
	OTPIssued          *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homeserve_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homeserve_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		BookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homeserve_bookings_created_total",
			Help: "Bookings created by service category.",
		}, []string{"category"}),
		BookingTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homeserve_booking_transitions_total",
			Help: "Booking status changes by target status.",
		}, []string{"status"}),
		ReviewsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homeserve_reviews_submitted_total",
			Help: "Review submissions, split into created and updated.",
		}, []string{"kind"}),
		OTPIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homeserve_otp_issued_total",
			Help: "One-time codes issued by account role and purpose.",
		}, []string{"role", "purpose"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.BookingsCreated,
		m.BookingTransitions,
		m.ReviewsSubmitted,
		m.OTPIssued,
	)
	return m
}

// Registry is the gatherer served on /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) BookingCreated(category string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(category).Inc()
}

func (m *Metrics) BookingTransition(status string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) ReviewSubmitted(created bool) {
	if m == nil {
		return
	}
	kind := "updated"
	if created {
		kind = "created"
	}
	m.ReviewsSubmitted.WithLabelValues(kind).Inc()
}

func (m *Metrics) OTPIssuedFor(role, purpose string) {
	if m == nil {
		return
	}
	m.OTPIssued.WithLabelValues(role, purpose).Inc()
}
