package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the diverse feed HTTP handler
	FeedAssemblyLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_assembly_latency_seconds",
		Help:    "Latency of diverse feed assembly handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of feed requests served
	FeedRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_requests_total",
		Help: "Total number of diverse feed requests",
	})

	// How many times a candidate bucket came back empty or timed out
	FeedDegradedBuckets = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_degraded_buckets_total",
		Help: "Candidate buckets that degraded to empty during assembly",
	}, []string{"bucket"})

	// Hydration fallbacks taken (secondary store or stub records)
	FeedHydrationFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_hydration_fallbacks_total",
		Help: "Metadata hydration fallbacks by tier",
	}, []string{"tier"})
)

func Init() {
	prometheus.MustRegister(
		FeedAssemblyLatency,
		FeedRequests,
		FeedDegradedBuckets,
		FeedHydrationFallbacks,
	)
}
