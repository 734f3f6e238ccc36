// Package observability defines the Prometheus metrics exported at /metrics.
//
// Metrics are registered on the default registry at package init via
// promauto, so every component can update them without wiring.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "budgetlens"

// ─── Budget Metrics ─────────────────────────────────────────────────────────

// BudgetsCreated counts successfully persisted budgets.
var BudgetsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "budget",
	Name:      "created_total",
	Help:      "Total budgets created.",
})

// BudgetsDeleted counts deleted budgets.
var BudgetsDeleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "budget",
	Name:      "deleted_total",
	Help:      "Total budgets deleted.",
})

// BudgetsImported counts budgets imported from legacy dumps.
var BudgetsImported = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "budget",
	Name:      "imported_total",
	Help:      "Total budgets imported from legacy JSON dumps.",
})

// ValidationFailures counts rejected submissions by offending field.
var ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "budget",
	Name:      "validation_failures_total",
	Help:      "Total rejected input fields, by field name.",
}, []string{"field"})

// BudgetCount tracks the stored budget count as of the last health check.
var BudgetCount = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "budget",
	Name:      "stored",
	Help:      "Number of stored budgets at the last health check.",
})

// SavingsRate tracks the distribution of savings rates at creation time.
var SavingsRate = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "budget",
	Name:      "savings_rate_percent",
	Help:      "Total savings rate of created budgets, in percent.",
	Buckets:   []float64{0, 5, 10, 15, 20, 30, 50, 75},
})

// ─── HTTP Metrics ───────────────────────────────────────────────────────────

// HTTPRequestDuration tracks API latency by route pattern and status.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// ─── System Metrics ─────────────────────────────────────────────────────────

// ProcessMemoryMB tracks the process resident set size at the last sample.
var ProcessMemoryMB = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "system",
	Name:      "process_memory_mb",
	Help:      "Process resident memory, in MiB, at the last sample.",
})

// HostMemoryUsagePercent tracks host memory in use at the last sample.
var HostMemoryUsagePercent = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "system",
	Name:      "memory_usage_percent",
	Help:      "Host memory in use, as a percentage of the total, at the last sample.",
})

// MonitorSamples counts health monitor samples taken.
var MonitorSamples = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "system",
	Name:      "samples_total",
	Help:      "Total system health samples taken.",
})

// ─── Event Log Metrics ──────────────────────────────────────────────────────

// EventsDropped counts audit events dropped because the queue was full or closed.
var EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "events",
	Name:      "dropped_total",
	Help:      "Total audit events dropped before persistence.",
})
