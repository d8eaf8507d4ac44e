// Package metrics provides Prometheus metrics collection for the panel.
package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Global metrics - used by the application.
	// Using atomic.Pointer for lock-free initialization checks on hot path metrics.
	requestsTotal     atomic.Pointer[prometheus.CounterVec]
	requestDuration   atomic.Pointer[prometheus.HistogramVec]
	authFailuresTotal atomic.Pointer[prometheus.CounterVec]
	registrations     atomic.Pointer[prometheus.Counter]
	logins            atomic.Pointer[prometheus.Counter]
	ingestEvents      atomic.Pointer[prometheus.CounterVec]
)

// Init initializes all Prometheus metrics and registers them with the provided registry.
// This should be called once at application startup.
func Init(reg prometheus.Registerer) error {
	requestsTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tac",
			Subsystem: "panel",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled by the panel",
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestsTotalVec); err != nil {
		return fmt.Errorf("failed to register requestsTotal: %w", err)
	}

	requestDurationVec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tac",
			Subsystem: "panel",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	if err := reg.Register(requestDurationVec); err != nil {
		return fmt.Errorf("failed to register requestDuration: %w", err)
	}

	authFailuresTotalVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tac",
			Subsystem: "panel",
			Name:      "auth_failures_total",
			Help:      "Total number of authentication failures",
		},
		[]string{"reason"},
	)
	if err := reg.Register(authFailuresTotalVec); err != nil {
		return fmt.Errorf("failed to register authFailuresTotal: %w", err)
	}

	registrationsCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tac",
		Subsystem: "panel",
		Name:      "registrations_total",
		Help:      "Total number of successful profile registrations",
	})
	if err := reg.Register(registrationsCounter); err != nil {
		return fmt.Errorf("failed to register registrations: %w", err)
	}

	loginsCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tac",
		Subsystem: "panel",
		Name:      "logins_total",
		Help:      "Total number of successful logins",
	})
	if err := reg.Register(loginsCounter); err != nil {
		return fmt.Errorf("failed to register logins: %w", err)
	}

	ingestEventsVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tac",
			Subsystem: "panel",
			Name:      "ingest_events_total",
			Help:      "Total number of events received from game servers",
		},
		[]string{"kind"},
	)
	if err := reg.Register(ingestEventsVec); err != nil {
		return fmt.Errorf("failed to register ingestEvents: %w", err)
	}

	requestsTotal.Store(requestsTotalVec)
	requestDuration.Store(requestDurationVec)
	authFailuresTotal.Store(authFailuresTotalVec)
	registrations.Store(&registrationsCounter)
	logins.Store(&loginsCounter)
	ingestEvents.Store(ingestEventsVec)

	return nil
}

// RecordRequest increments the requests counter for the given method, path, and status code.
// The path should be normalized (e.g., "/api/bans/:id" instead of a raw UUID path).
func RecordRequest(method, path, statusCode string) {
	if counter := requestsTotal.Load(); counter != nil {
		counter.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordRequestDuration records the latency for a request in seconds.
func RecordRequestDuration(method, path, statusCode string, durationSeconds float64) {
	if histogram := requestDuration.Load(); histogram != nil {
		histogram.WithLabelValues(method, path, statusCode).Observe(durationSeconds)
	}
}

// RecordAuthFailure increments the auth failures counter for the given reason.
// Common reasons: "invalid_credentials", "invalid_token", "no_session"
func RecordAuthFailure(reason string) {
	if counter := authFailuresTotal.Load(); counter != nil {
		counter.WithLabelValues(reason).Inc()
	}
}

// RecordRegistration counts a successful profile registration.
func RecordRegistration() {
	if c := registrations.Load(); c != nil {
		(*c).Inc()
	}
}

// RecordLogin counts a successful login.
func RecordLogin() {
	if c := logins.Load(); c != nil {
		(*c).Inc()
	}
}

// RecordIngestEvent counts an event received on the ingest API.
// Kinds: "detection", "kick", "player"
func RecordIngestEvent(kind string) {
	if c := ingestEvents.Load(); c != nil {
		c.WithLabelValues(kind).Inc()
	}
}

// Handler returns an HTTP handler for Prometheus metrics in text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
