// Package metrics holds Prometheus instruments that are used across the
// site.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consultation_submissions_total",
			Help: "Consultation submit attempts by outcome.",
		}, []string{"outcome"})

	SubmitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "consultation_submit_duration_seconds",
			Help:    "Time spent in the remote insert.",
			Buckets: prometheus.DefBuckets,
		})

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Visitor sessions currently held in memory.",
		})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route pattern, and status.",
		}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "owner_notifications_total",
			Help: "Owner notification emails by result.",
		}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		SubmitDuration,
		ActiveSessions,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		NotificationsTotal,
	)
}

// ObserveSubmit records one submit outcome.  took is zero when no remote
// call was made (validation failure, busy).
func ObserveSubmit(outcome string, took time.Duration) {
	SubmissionsTotal.WithLabelValues(outcome).Inc()
	if took > 0 {
		SubmitDuration.Observe(took.Seconds())
	}
}
