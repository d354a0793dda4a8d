// Package metrics declares the prometheus instruments of the dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Synchronizer metrics
var (
	// SyncCyclesTotal counts completed fetch cycles by outcome (success/failed).
	SyncCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leavedesk_sync_cycles_total",
			Help: "Completed fetch cycles by outcome",
		},
		[]string{"outcome"},
	)

	// SyncCycleDuration tracks fetch cycle duration in seconds.
	SyncCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leavedesk_sync_cycle_duration_seconds",
			Help:    "Fetch cycle duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// SyncCoalescedTotal counts refresh requests that joined an in-flight cycle
	// instead of starting their own.
	SyncCoalescedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leavedesk_sync_coalesced_total",
			Help: "Refresh requests coalesced into an in-flight fetch cycle",
		},
	)
)

// Gateway metrics
var (
	// GatewayRequestsTotal counts backend requests by operation and outcome.
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leavedesk_gateway_requests_total",
			Help: "Backend requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// GatewayRequestDuration tracks backend request latency by operation.
	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leavedesk_gateway_request_duration_seconds",
			Help:    "Backend request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation"},
	)
)

// User action metrics
var (
	// SubmissionsTotal counts leave applications by outcome.
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leavedesk_submissions_total",
			Help: "Leave application submissions by outcome",
		},
		[]string{"outcome"},
	)

	// DecisionsTotal counts decision attempts by outcome.
	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leavedesk_decisions_total",
			Help: "Leave request decisions by outcome",
		},
		[]string{"outcome"},
	)
)

// Outcome label values shared by the counters above.
const (
	OutcomeSuccess  = "success"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)
