package gather

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trellis_client",
			Subsystem: "gather",
			Name:      "jobs_total",
			Help:      "Jobs handed to pool workers.",
		},
		[]string{"slot"},
	)

	jobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trellis_client",
			Subsystem: "gather",
			Name:      "job_failures_total",
			Help:      "Jobs that returned an error or were skipped after cancellation.",
		},
		[]string{"slot"},
	)

	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trellis_client",
			Subsystem: "gather",
			Name:      "job_duration_seconds",
			Help:      "Wall time spent running a single job.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"slot"},
	)
)

// labelFor buckets job indexes so the slot label stays bounded.
func labelFor(idx int) string {
	return strconv.Itoa(idx % 32)
}
