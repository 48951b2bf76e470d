// Package metrics exposes Prometheus collectors for SDK request activity.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal           *prometheus.CounterVec
	apiRequestDurationSeconds  *prometheus.HistogramVec
	pollRoundsTotal            *prometheus.CounterVec
	pollTimeoutsTotal          prometheus.Counter
	dispatchOperationsTotal    *prometheus.CounterVec
	batchItemsTotal            *prometheus.CounterVec
	transportRateLimitDelaySec prometheus.Histogram

	once sync.Once
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		apiRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brightdata_api_requests_total",
				Help: "Total upstream API requests, labeled by method and status code.",
			},
			[]string{"method", "code"},
		)

		apiRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brightdata_api_request_duration_seconds",
				Help:    "Histogram of upstream API request latencies, labeled by method.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 30},
			},
			[]string{"method"},
		)

		pollRoundsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brightdata_poll_rounds_total",
				Help: "Total snapshot poll rounds, labeled by reported status.",
			},
			[]string{"status"},
		)

		pollTimeoutsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "brightdata_poll_timeouts_total",
				Help: "Total polls abandoned because the caller timeout fired.",
			},
		)

		dispatchOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brightdata_dispatch_operations_total",
				Help: "Total dispatched operations, labeled by operation key and outcome.",
			},
			[]string{"operation", "outcome"},
		)

		batchItemsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brightdata_batch_items_total",
				Help: "Total batch items executed, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		transportRateLimitDelaySec = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "brightdata_transport_rate_limit_delay_seconds",
				Help:    "Delay introduced by the client-side rate limiter.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
		)
	})
}

// ObserveAPIRequest records one upstream round trip.
func ObserveAPIRequest(method string, code int, duration time.Duration) {
	if apiRequestsTotal == nil {
		return
	}
	apiRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	apiRequestDurationSeconds.WithLabelValues(method).Observe(duration.Seconds())
}

// ObservePollRound records one poll round with the upstream-reported status.
func ObservePollRound(status string) {
	if pollRoundsTotal == nil {
		return
	}
	pollRoundsTotal.WithLabelValues(status).Inc()
}

// ObservePollTimeout records an abandoned poll loop.
func ObservePollTimeout() {
	if pollTimeoutsTotal == nil {
		return
	}
	pollTimeoutsTotal.Inc()
}

// ObserveDispatch records a completed dispatch with its outcome.
func ObserveDispatch(operation, outcome string) {
	if dispatchOperationsTotal == nil {
		return
	}
	dispatchOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveBatchItem records one fan-out item outcome.
func ObserveBatchItem(outcome string) {
	if batchItemsTotal == nil {
		return
	}
	batchItemsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRateLimitDelay records time spent waiting on the client rate limiter.
func ObserveRateLimitDelay(d time.Duration) {
	if transportRateLimitDelaySec == nil {
		return
	}
	transportRateLimitDelaySec.Observe(d.Seconds())
}
