// Package observability holds the application's Prometheus collectors and
// OpenTelemetry tracer.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PostsCreated counts posts persisted through any surface.
	PostsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_posts_created_total",
		Help: "Total number of posts created",
	}, []string{"surface"})

	// PostsEdited counts successful edits by the post's author.
	PostsEdited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_posts_edited_total",
		Help: "Total number of posts edited",
	}, []string{"surface"})

	// EditsDenied counts edit attempts by someone other than the author.
	EditsDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_post_edits_denied_total",
		Help: "Total number of edit attempts rejected because the viewer is not the author",
	}, []string{"surface"})

	// LoginAttempts counts login and token requests by outcome.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_login_attempts_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})

	// CacheResults counts cache lookups by key prefix and result (hit or miss).
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_cache_results_total",
		Help: "Total number of cache lookups by result",
	}, []string{"prefix", "result"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yatube_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)
