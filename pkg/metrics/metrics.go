package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total outbound emails by kind and outcome",
		},
		[]string{"kind", "status"}, // kind: notification, drip; status: success, failed
	)

	DripJobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drip_jobs_processed_total",
			Help: "Total drip jobs processed by step and outcome",
		},
		[]string{"step", "status"}, // status: done, skipped, failed, duplicate
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total domain events published",
		},
		[]string{"routing_key", "status"},
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func IncrementEmailsSent(kind, status string) {
	EmailsSent.WithLabelValues(kind, status).Inc()
}

func IncrementDripJobsProcessed(step, status string) {
	DripJobsProcessed.WithLabelValues(step, status).Inc()
}

func IncrementEventsPublished(routingKey, status string) {
	EventsPublished.WithLabelValues(routingKey, status).Inc()
}
