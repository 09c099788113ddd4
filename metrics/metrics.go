// Package metrics exposes Prometheus instrumentation for the tick
// loop: tick duration, constructor cache hit/miss counts, and nodes
// evaluated per tick — the numbers spec §7 requires at DEBUG level,
// made scrapable instead of just logged. Grounded on
// HackerspaceKRK-temp-at/prometheus.go's use of
// github.com/prometheus/client_golang/prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric the engine records.
type Collector struct {
	registry *prometheus.Registry

	tickDuration   prometheus.Histogram
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	nodesEvaluated prometheus.Counter
	tickOverruns   prometheus.Counter
}

// New registers a fresh metric set on its own registry, so a caller
// that never wires a /metrics endpoint pays nothing beyond the
// allocation.
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wheel_tick_duration_seconds",
			Help:    "Wall-clock duration of one graph tick.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wheel_cache_hits_total",
			Help: "Constructor cache lookups that found an existing node.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wheel_cache_misses_total",
			Help: "Constructor cache lookups that built a new node.",
		}),
		nodesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wheel_nodes_evaluated_total",
			Help: "Node evaluations performed across all ticks.",
		}),
		tickOverruns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wheel_tick_overruns_total",
			Help: "Ticks whose evaluation and publish took longer than the tick period.",
		}),
	}
	reg.MustRegister(c.tickDuration, c.cacheHits, c.cacheMisses, c.nodesEvaluated, c.tickOverruns)
	return c
}

// ObserveTick records one tick's duration in seconds and the number
// of nodes it evaluated.
func (c *Collector) ObserveTick(seconds float64, nodesEvaluated int) {
	c.tickDuration.Observe(seconds)
	c.nodesEvaluated.Add(float64(nodesEvaluated))
}

// ObserveCache records one [graph.Cache.Stats] snapshot's deltas.
func (c *Collector) ObserveCache(hitDelta, missDelta int) {
	c.cacheHits.Add(float64(hitDelta))
	c.cacheMisses.Add(float64(missDelta))
}

// ObserveOverrun records a tick that exceeded its period budget.
func (c *Collector) ObserveOverrun() {
	c.tickOverruns.Inc()
}

// Handler returns the HTTP handler to mount at the metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ListenAndServe starts a dedicated HTTP server exposing /metrics on
// addr. It blocks; callers typically run it in its own goroutine.
func (c *Collector) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	return http.ListenAndServe(addr, mux)
}
