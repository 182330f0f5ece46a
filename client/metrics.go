package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	exampleFetchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trellis_client",
			Name:      "example_fetches_total",
			Help:      "Examples calls that reached the fan-out stage.",
		},
	)

	exampleFetchFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trellis_client",
			Name:      "example_fetch_failures_total",
			Help:      "Examples calls that ended in an error.",
		},
	)
)
