// Package metrics exposes the service's Prometheus collectors. Collectors
// are registered once at package init and shared process-wide.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts flat-cache hits per backend (db, redis, memory).
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsehub_cache_hits_total",
		Help: "Flat cache hits by backend",
	}, []string{"backend"})

	// CacheMisses counts flat-cache misses per backend, including reads
	// of rows that existed but had expired.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsehub_cache_misses_total",
		Help: "Flat cache misses by backend",
	}, []string{"backend"})

	// CacheSweeps counts completed probabilistic sweeps of expired rows.
	CacheSweeps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulsehub_cache_sweeps_total",
		Help: "Completed background sweeps of expired cache rows",
	})

	// CacheSweepFailures counts sweeps that failed. Failures are swallowed
	// by the cache; this counter is the only place they surface.
	CacheSweepFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulsehub_cache_sweep_failures_total",
		Help: "Background cache sweeps that returned an error",
	})

	// UpstreamRequests counts upstream API calls by provider and outcome
	// (ok, error).
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsehub_upstream_requests_total",
		Help: "Upstream API requests by provider and outcome",
	}, []string{"provider", "outcome"})

	// ListRefreshes counts orchestrator refresh cycles that went to the
	// upstream API, by domain.
	ListRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsehub_list_refreshes_total",
		Help: "List refresh cycles that contacted upstream, by domain",
	}, []string{"domain"})

	// FallbackServes counts responses served from stale/best-effort data
	// after an upstream failure, by domain.
	FallbackServes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsehub_fallback_serves_total",
		Help: "Responses served from fallback data, by domain",
	}, []string{"domain"})
)
