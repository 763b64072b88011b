// Package metrics exposes the Prometheus collectors used by the service.
//
// Collectors are registered on the default registry by InitMetrics and served
// at /metrics. Every helper is a no-op before InitMetrics runs, so unit tests
// of other packages need no setup.
//
// Naming:
//   - counters end in _total
//   - histograms end in their unit (_seconds)
//   - labels have bounded cardinality (method, route, status, query name);
//     never user or entity ids
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal counts requests by method, route template and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes request latency by method and route template.
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress is the number of requests being served.
	HTTPRequestsInProgress prometheus.Gauge

	// SearchDuration observes the two-step paged search by query name and result.
	SearchDuration *prometheus.HistogramVec

	// EntityMutationsTotal counts inserts, updates and deletes by entity and outcome.
	EntityMutationsTotal *prometheus.CounterVec

	// OrdersCreatedTotal counts committed orders.
	OrdersCreatedTotal prometheus.Counter

	// OrdersFailedTotal counts orders rolled back.
	OrdersFailedTotal prometheus.Counter

	// MessagesPublishedTotal counts broker publishes by exchange, routing key and result.
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics registers all collectors. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests.",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "HTTP requests currently being served.",
			},
		)

		// Two round trips plus a count; buckets start lower than HTTP.
		SearchDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_search_duration_seconds",
				Help:    "Paged search latency in seconds (ids, count and hydration).",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"query", "success"},
		)

		EntityMutationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_entity_mutations_total",
				Help: "Entity inserts, updates and deletes.",
			},
			[]string{"entity", "op", "result"},
		)

		OrdersCreatedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Orders committed.",
			},
		)

		OrdersFailedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_failed_total",
				Help: "Orders rolled back.",
			},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "Messages published to the broker.",
			},
			[]string{"exchange", "routing_key", "result"},
		)
	})
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, path string, status int, d time.Duration) {
	if HTTPRequestsTotal == nil {
		return
	}
	HTTPRequestsTotal.With(prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}).Inc()
	HTTPRequestDuration.With(prometheus.Labels{"method": method, "path": path}).Observe(d.Seconds())
}

// IncInProgress and DecInProgress bracket a request.
func IncInProgress() {
	if HTTPRequestsInProgress != nil {
		HTTPRequestsInProgress.Inc()
	}
}

func DecInProgress() {
	if HTTPRequestsInProgress != nil {
		HTTPRequestsInProgress.Dec()
	}
}

// ObserveSearch records one paged search.
func ObserveSearch(query string, success bool, d time.Duration) {
	if SearchDuration == nil {
		return
	}
	SearchDuration.With(prometheus.Labels{
		"query":   query,
		"success": strconv.FormatBool(success),
	}).Observe(d.Seconds())
}

// RecordMutation counts an entity insert, update or delete.
func RecordMutation(entity, op string, err error) {
	if EntityMutationsTotal == nil {
		return
	}
	EntityMutationsTotal.With(prometheus.Labels{
		"entity": entity,
		"op":     op,
		"result": resultLabel(err),
	}).Inc()
}

// RecordOrder counts a committed or failed order.
func RecordOrder(err error) {
	if OrdersCreatedTotal == nil {
		return
	}
	if err != nil {
		OrdersFailedTotal.Inc()
		return
	}
	OrdersCreatedTotal.Inc()
}

// RecordPublish counts a broker publish.
func RecordPublish(exchange, routingKey string, err error) {
	if MessagesPublishedTotal == nil {
		return
	}
	MessagesPublishedTotal.With(prometheus.Labels{
		"exchange":    exchange,
		"routing_key": routingKey,
		"result":      resultLabel(err),
	}).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
