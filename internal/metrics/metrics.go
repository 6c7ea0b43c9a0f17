// Package metrics provides Prometheus metrics for portify-server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "portify"

var (
	// Registry is the global Prometheus registry for all metrics.
	Registry = prometheus.NewRegistry()

	// initialized tracks whether metrics have been initialized.
	initialized = false
)

// Init registers runtime, HTTP and rate limit collectors with Registry.
// Calling it more than once is a no-op.
func Init() error {
	if initialized {
		return nil
	}

	if err := Registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	if err := Registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return err
	}

	if err := register(httpCollectors()...); err != nil {
		return err
	}
	if err := register(rateLimitCollectors()...); err != nil {
		return err
	}

	initialized = true
	return nil
}

// MustInit initializes metrics and panics on error.
// Use this for application startup where metrics are required.
func MustInit() {
	if err := Init(); err != nil {
		panic("failed to initialize metrics: " + err.Error())
	}
}

// Reset swaps in a fresh registry and clears all collected values.
// Tests use it to start from a clean slate.
func Reset() {
	Registry = prometheus.NewRegistry()
	initialized = false

	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()
	HTTPResponseSize.Reset()
	HTTPRequestsInFlight.Set(0)
	HTTPErrorsTotal.Reset()
	RateLimitChecks.Reset()
	RateLimitTrackedClients.Set(0)
}

func register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}
