// Package metrics declares the Prometheus collectors exported at
// /metrics: HTTP request counters/latency plus domain counters for the
// care-scheduling flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ReqCount counts HTTP requests by method, route and status.
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenhouse_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ReqDuration observes request latency by method and route.
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "greenhouse_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	// CareStepCompletions counts care step completion toggles by
	// direction ("mark" or "unmark") and by step type.
	CareStepCompletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenhouse_care_step_completions_total",
			Help: "Care step completion toggles",
		},
		[]string{"direction", "step_type"},
	)

	// RoutineSessions counts routine sessions by outcome
	// ("started", "committed", "discarded").
	RoutineSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenhouse_routine_sessions_total",
			Help: "Care routine sessions by outcome",
		},
		[]string{"outcome"},
	)
)

// Init registers all collectors with the default registry. Call once
// from main.
func Init() {
	prometheus.MustRegister(ReqCount, ReqDuration, CareStepCompletions, RoutineSessions)
}
