package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InquiriesSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_submissions_total",
			Help: "Submission attempts by outcome (confirmed, invalid, failed)",
		},
		[]string{"outcome"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_notifications_failed_total",
			Help: "Relay hand-offs that returned an error, by transport",
		},
		[]string{"transport"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_emails_sent_total",
			Help: "Emails sent by the relay, by audience and provider",
		},
		[]string{"audience", "provider"},
	)

	EmailsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_emails_failed_total",
			Help: "Emails the relay could not send, by audience and provider",
		},
		[]string{"audience", "provider"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by service, method and status",
		},
		[]string{"service", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by service and method",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method"},
	)
)

// ObserveHTTP records one completed request.
func ObserveHTTP(service, method string, status int, seconds float64) {
	HTTPRequests.WithLabelValues(service, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(service, method).Observe(seconds)
}
