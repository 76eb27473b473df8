package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/trendscout/internal/metrics"
)

func TestCacheLookup(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.CacheLookup(metrics.KindTrending, true)
	m.CacheLookup(metrics.KindTrending, false)
	m.CacheLookup(metrics.KindTrending, false)

	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheRequests.WithLabelValues(metrics.KindTrending, metrics.ResultHit)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.CacheRequests.WithLabelValues(metrics.KindTrending, metrics.ResultMiss)), 0)
}

func TestFetch(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.Fetch(metrics.KindMetadata, nil, 10*time.Millisecond)
	m.Fetch(metrics.KindMetadata, errors.New("boom"), time.Second)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Fetches.WithLabelValues(metrics.KindMetadata, metrics.OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Fetches.WithLabelValues(metrics.KindMetadata, metrics.OutcomeFailure)), 0)
}

func TestEnrichmentAndSnapshots(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.Enrichment(metrics.KindTrending, true)
	m.Enrichment(metrics.KindTrending, false)
	m.SnapshotWritten()

	assert.InDelta(t, 1, testutil.ToFloat64(m.Enrichments.WithLabelValues(metrics.KindTrending, metrics.OutcomeEnriched)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Enrichments.WithLabelValues(metrics.KindTrending, metrics.OutcomeUnchanged)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SnapshotsWritten), 0)
}

func TestNilMetricsIsNoOp(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.CacheLookup(metrics.KindTrending, true)
		m.Fetch(metrics.KindTrending, nil, time.Second)
		m.Enrichment(metrics.KindTrending, true)
		m.HTTPRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
		m.SnapshotWritten()
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.HTTPRequest(http.MethodGet, "/api/v1/trending", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `trendscout_http_requests_total{method="GET",route="/api/v1/trending",status="200"} 1`)
}
