package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bazaar_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// RateLimitErrors counts rate limiter store failures (fail-open events).
	RateLimitErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bazaar_ratelimit_errors_total",
		Help: "Total number of rate limiter store failures",
	})

	// SearchLatency records listing search latency by sort key.
	SearchLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bazaar_listing_search_latency_seconds",
		Help:    "Listing search latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"sort"})

	// SearchResults records the total match count distribution of searches.
	SearchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bazaar_listing_search_results",
		Help:    "Distribution of listing search total match counts",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	// ViewIncrementFailures counts dropped fire-and-forget view counter increments.
	ViewIncrementFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bazaar_listing_view_increment_failures_total",
		Help: "Total number of failed listing view counter increments",
	})

	// MessagesSent counts messages accepted by the conversation engine.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bazaar_messages_sent_total",
		Help: "Total number of messages created",
	})

	// FavoriteToggles counts favorite toggles by outcome.
	FavoriteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bazaar_favorite_toggles_total",
		Help: "Total number of favorite toggles by outcome",
	}, []string{"outcome"})
)

// ObserveSearch records the latency and result size of one search call.
func ObserveSearch(sort string, start time.Time, total int64) {
	SearchLatency.WithLabelValues(sort).Observe(time.Since(start).Seconds())
	SearchResults.Observe(float64(total))
}
