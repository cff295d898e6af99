// Package metrics provides Prometheus metrics for powergate: safety checks,
// admission simulations, rejected input and HTTP request latency.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Safety ─────────────────────────────────────────────────────────────────

// SafetyChecks counts safety checks by outcome ("safe" or "unsafe").
var SafetyChecks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "powergate",
	Name:      "safety_checks_total",
	Help:      "Total safety checks by outcome.",
}, []string{"outcome"})

// SafetyPasses tracks how many granting passes a check needed.
var SafetyPasses = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "powergate",
	Name:      "safety_passes",
	Help:      "Granting passes per safety check.",
	Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
})

// ─── Scheduler ──────────────────────────────────────────────────────────────

// Simulations counts scheduler simulations by policy.
var Simulations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "powergate",
	Name:      "simulations_total",
	Help:      "Total power-budgeted simulations by policy.",
}, []string{"policy"})

// ProcessesAdmitted counts admitted processes by policy.
var ProcessesAdmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "powergate",
	Name:      "processes_admitted_total",
	Help:      "Processes admitted by the scheduler.",
}, []string{"policy"})

// ProcessesSkipped counts processes skipped for lack of battery, by policy.
var ProcessesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "powergate",
	Name:      "processes_skipped_total",
	Help:      "Processes skipped for insufficient battery.",
}, []string{"policy"})

// BatteryLeft tracks the battery remaining at the end of each simulation.
var BatteryLeft = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "powergate",
	Name:      "battery_left",
	Help:      "Battery remaining after a simulation.",
	Buckets:   []float64{0, 5, 10, 20, 30, 50, 75, 100},
}, []string{"policy"})

// ─── Input ──────────────────────────────────────────────────────────────────

// InvalidInputs counts rejected inputs by reason.
var InvalidInputs = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "powergate",
	Name:      "invalid_inputs_total",
	Help:      "Rejected inputs by reason.",
}, []string{"reason"})

// Withheld counts runs whose schedule was withheld because the state was unsafe.
var Withheld = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "powergate",
	Name:      "schedules_withheld_total",
	Help:      "Runs whose schedule was withheld for an unsafe state.",
})

// ─── API ────────────────────────────────────────────────────────────────────

// RequestLatency tracks HTTP request duration in seconds.
var RequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "powergate",
	Name:      "request_latency_seconds",
	Help:      "HTTP request duration in seconds.",
	Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.1},
}, []string{"route", "status"})
