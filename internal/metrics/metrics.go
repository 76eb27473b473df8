// Package metrics holds the prometheus collectors for cache, fetch, enrichment
// and HTTP API outcomes. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trendscout"

// Label values.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"

	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeEnriched  = "enriched"
	OutcomeUnchanged = "unchanged"

	KindTrending = "trending"
	KindMetadata = "metadata"
)

// Metrics is the set of collectors registered for one process.
type Metrics struct {
	registry *prometheus.Registry

	CacheRequests    *prometheus.CounterVec
	Fetches          *prometheus.CounterVec
	FetchDuration    *prometheus.HistogramVec
	Enrichments      *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	SnapshotsWritten prometheus.Counter
}

// New registers all collectors on a fresh registry, along with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newWithRegistry(reg)
}

func newWithRegistry(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		CacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by cache and result (hit, miss)",
		}, []string{"cache", "result"}),
		Fetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Network fetches by kind and outcome",
		}, []string{"kind", "outcome"}),
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching and extracting a page",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
		Enrichments: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichments_total",
			Help:      "AI enrichment attempts by kind and outcome (enriched, unchanged)",
		}, []string{"kind", "outcome"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP API request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		SnapshotsWritten: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_written_total",
			Help:      "Trending snapshots written by the watch scheduler",
		}),
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CacheLookup records a cache hit or miss.
func (m *Metrics) CacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	m.CacheRequests.WithLabelValues(cache, result).Inc()
}

// Fetch records the outcome and duration of a network fetch.
func (m *Metrics) Fetch(kind string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.Fetches.WithLabelValues(kind, outcome).Inc()
	m.FetchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// Enrichment records whether a record was enriched or returned unchanged.
func (m *Metrics) Enrichment(kind string, enriched bool) {
	if m == nil {
		return
	}
	outcome := OutcomeUnchanged
	if enriched {
		outcome = OutcomeEnriched
	}
	m.Enrichments.WithLabelValues(kind, outcome).Inc()
}

// HTTPRequest records one served API request.
func (m *Metrics) HTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

// SnapshotWritten counts one persisted watch snapshot.
func (m *Metrics) SnapshotWritten() {
	if m == nil {
		return
	}
	m.SnapshotsWritten.Inc()
}
