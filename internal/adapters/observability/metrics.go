package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviews", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "external_requests_total", Help: "Outbound request attempts."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviews", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	FetchRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "fetch_retries_total", Help: "Retried outbound attempts by cause."},
		[]string{"cause"},
	)
	PagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "reviews", Name: "pages_fetched_total", Help: "Non-empty review pages consumed."},
	)
	RunsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "runs_total", Help: "Finished scrape runs by stop reason."},
		[]string{"stop"},
	)
	ReviewsScored = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "scored_total", Help: "Reviews classified by sentiment label."},
		[]string{"sentiment"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "reviews", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

// Serve exposes the default registry on addr in the background. Empty addr disables it.
func Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(InitRegistry()))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

var registry *prometheus.Registry

// InitRegistry registers every collector once and returns the shared registry.
func InitRegistry() *prometheus.Registry {
	if registry != nil {
		return registry
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency,
		FetchRetries, PagesFetched, RunsFinished, ReviewsScored, CacheEvents)
	registry = reg
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records one outbound attempt. status 0 means no response was received.
func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveRetry(cause string) { FetchRetries.WithLabelValues(cause).Inc() }

func ObservePage() { PagesFetched.Inc() }

func ObserveRun(stop string) { RunsFinished.WithLabelValues(stop).Inc() }

func ObserveSentiment(label string) { ReviewsScored.WithLabelValues(label).Inc() }

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
