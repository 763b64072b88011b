package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpersAreNoopBeforeInit(t *testing.T) {
	if SearchDuration != nil {
		t.Skip("metrics already initialised by another test")
	}
	assert.NotPanics(t, func() {
		ObserveSearch("product_search", true, time.Millisecond)
		RecordMutation("product", "delete", nil)
		RecordOrder(nil)
		IncInProgress()
		DecInProgress()
	})
}

func TestInitMetricsIsIdempotent(t *testing.T) {
	InitMetrics()
	first := SearchDuration
	InitMetrics()
	assert.Same(t, first, SearchDuration)
	require.NotNil(t, HTTPRequestsTotal)
	require.NotNil(t, EntityMutationsTotal)
}

func TestObserveHTTP(t *testing.T) {
	InitMetrics()
	labels := prometheus.Labels{"method": "GET", "path": "/api/v1/products", "status": "200"}
	before := counterVecValue(t, HTTPRequestsTotal, labels)

	ObserveHTTP("GET", "/api/v1/products", 200, 20*time.Millisecond)
	ObserveHTTP("GET", "/api/v1/products", 200, 30*time.Millisecond)

	assert.Equal(t, before+2, counterVecValue(t, HTTPRequestsTotal, labels))
}

func TestObserveSearch(t *testing.T) {
	InitMetrics()
	labels := prometheus.Labels{"query": "movie_search", "success": "true"}
	before := histogramVecCount(t, SearchDuration, labels)

	ObserveSearch("movie_search", true, 5*time.Millisecond)

	assert.Equal(t, before+1, histogramVecCount(t, SearchDuration, labels))
}

func TestRecordMutation(t *testing.T) {
	InitMetrics()
	failed := prometheus.Labels{"entity": "product", "op": "delete", "result": "failure"}
	before := counterVecValue(t, EntityMutationsTotal, failed)

	RecordMutation("product", "delete", errors.New("Integrity violation"))

	assert.Equal(t, before+1, counterVecValue(t, EntityMutationsTotal, failed))
}

func TestInProgressGauge(t *testing.T) {
	InitMetrics()
	HTTPRequestsInProgress.Set(0)

	IncInProgress()
	IncInProgress()
	DecInProgress()

	var m dto.Metric
	require.NoError(t, HTTPRequestsInProgress.Write(&m))
	assert.Equal(t, 1.0, m.Gauge.GetValue())
}

func counterVecValue(t *testing.T, vec *prometheus.CounterVec, labels prometheus.Labels) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, vec.With(labels).Write(&m))
	return m.Counter.GetValue()
}

func histogramVecCount(t *testing.T, vec *prometheus.HistogramVec, labels prometheus.Labels) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, vec.With(labels).(prometheus.Histogram).Write(&m))
	return m.Histogram.GetSampleCount()
}
