package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Total number of order events published per routing key.",
	}, []string{"routing_key"})

	eventsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "events",
		Name:      "failed_total",
		Help:      "Total number of order events dropped after retries exhaustion.",
	}, []string{"routing_key"})
)
