package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "instrumenta_"

	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "cache_lookups_total",
			Help: "Total cache lookups by resource and result (hit/miss)",
		},
		[]string{"resource", "result"},
	)
	cacheSharedLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "cache_shared_loads_total",
			Help: "Total callers that joined an in-flight load instead of starting one",
		},
		[]string{"resource"},
	)
	cacheRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "cache_retries_total",
			Help: "Total load retries by resource",
		},
		[]string{"resource"},
	)
	cacheLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "cache_loads_total",
			Help: "Total settled loads by resource and result",
		},
		[]string{"resource", "result"},
	)
	cacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: metricPrefix + "cache_entries",
			Help: "Number of entries held by the query cache",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "http_requests_total",
			Help: "Total API requests by method and status (0 = no response)",
		},
		[]string{"method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metricPrefix + "http_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricPrefix + "notifications_total",
			Help: "Total user notifications by kind",
		},
		[]string{"kind"},
	)
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			cacheLookups,
			cacheSharedLoads,
			cacheRetries,
			cacheLoads,
			cacheEntries,
			httpRequests,
			httpLatency,
			notifications,
		)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveCacheLookup counts a Fetch that was (hit) or was not (miss) served from cache.
func ObserveCacheLookup(resource string, hit bool) {
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	cacheLookups.WithLabelValues(normalize(resource), result).Inc()
}

// IncSharedLoad counts a caller that waited on another caller's load.
func IncSharedLoad(resource string) {
	cacheSharedLoads.WithLabelValues(normalize(resource)).Inc()
}

// IncRetry counts one retry of a failed load.
func IncRetry(resource string) {
	cacheRetries.WithLabelValues(normalize(resource)).Inc()
}

// ObserveLoad counts a settled load.
func ObserveLoad(resource string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	cacheLoads.WithLabelValues(normalize(resource), result).Inc()
}

// SetCacheEntries sets the current entry count.
func SetCacheEntries(n int) {
	cacheEntries.Set(float64(n))
}

// ObserveRequest records one API round trip. status is 0 when no response arrived.
func ObserveRequest(method string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method).Observe(duration.Seconds())
}

// IncNotification counts a toast of the given kind (success/error).
func IncNotification(kind string) {
	notifications.WithLabelValues(normalize(kind)).Inc()
}

func normalize(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
