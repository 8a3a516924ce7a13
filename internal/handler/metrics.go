package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "http",
		Name:      "orders_created_total",
		Help:      "Total number of orders admitted through the HTTP boundary.",
	})

	validationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "order_service",
		Subsystem: "http",
		Name:      "order_validation_failures_total",
		Help:      "Total number of creation requests rejected by validation.",
	})
)
