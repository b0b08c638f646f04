package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ProviderRequests counts data provider calls by provider, kind (bars, name) and outcome.
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocktrends_provider_requests_total",
		Help: "Data provider requests by provider, kind and outcome",
	}, []string{"provider", "kind", "outcome"})

	// CacheLookups counts memo cache lookups by cache name and result (hit, miss, shared).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocktrends_cache_lookups_total",
		Help: "Memo cache lookups by cache and result",
	}, []string{"cache", "result"})

	// NameFallbacks counts display names replaced by the ticker symbol.
	NameFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocktrends_display_name_fallbacks_total",
		Help: "Display name lookups that fell back to the ticker",
	})

	// EvaluationDuration tracks full dashboard evaluations.
	EvaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stocktrends_evaluation_duration_seconds",
		Help:    "Dashboard evaluation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
	})

	// RegionErrors counts regions rendered in the error state, by region.
	RegionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stocktrends_region_errors_total",
		Help: "Dashboard regions rendered with an error, by region",
	}, []string{"region"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
