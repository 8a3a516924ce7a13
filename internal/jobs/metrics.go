package jobs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "jobs",
		Name:      "new_orders_runs_total",
		Help:      "Total number of new-orders job ticks executed under the lock.",
	})

	jobSkips = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "jobs",
		Name:      "new_orders_skips_total",
		Help:      "Total number of ticks skipped because another instance held the lock.",
	})

	jobFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "jobs",
		Name:      "new_orders_failures_total",
		Help:      "Total number of ticks that failed before processing any order.",
	})
)
