package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "restorank", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "restorank", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	SourceFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "restorank", Name: "source_fetches_total", Help: "Per-source fetch outcomes."},
		[]string{"source", "outcome"}, // outcome: ok|error
	)
	SourceLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "restorank", Name: "source_fetch_duration_seconds",
			Help:    "Per-source fetch duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
	LoadCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "restorank", Name: "load_cycles_total", Help: "Load cycles by main-source verdict."},
		[]string{"verdict"}, // valid|empty|private|no_name_column
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "restorank", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

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

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, SourceFetches, SourceLatency, LoadCycles, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveSource(source, outcome string, dur time.Duration) {
	SourceFetches.WithLabelValues(source, outcome).Inc()
	SourceLatency.WithLabelValues(source).Observe(dur.Seconds())
}

func ObserveLoad(verdict string) {
	LoadCycles.WithLabelValues(verdict).Inc()
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}
