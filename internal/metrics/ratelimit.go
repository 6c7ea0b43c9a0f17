package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RateLimitChecks counts rate limit decisions.
	RateLimitChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimit_checks_total",
			Help:      "Total number of rate limit checks",
		},
		[]string{"allowed"},
	)

	// RateLimitTrackedClients is the number of client buckets currently held in memory.
	RateLimitTrackedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ratelimit_tracked_clients",
			Help:      "Number of client IPs with a live rate limit bucket",
		},
	)
)

func rateLimitCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		RateLimitChecks,
		RateLimitTrackedClients,
	}
}
