package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Hits counts cache hits by backend.
	Hits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_hits_total",
		Help: "Number of cache hits",
	}, []string{"backend"})

	// Misses counts cache misses (absent or expired entries).
	Misses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cache_misses_total",
		Help: "Number of cache misses",
	})

	// Errors counts cache backend failures by operation.
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_errors_total",
		Help: "Number of cache backend errors",
	}, []string{"operation"})

	// ProducerCalls counts read-through producer invocations by operation,
	// i.e. actual upstream work after dedup and cache hits.
	ProducerCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cache_producer_calls_total",
		Help: "Number of producer invocations on cache misses",
	}, []string{"operation"})
)
