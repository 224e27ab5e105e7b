// Package observability holds the Prometheus collectors of the snapshot
// store and its change-event pipeline.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "findash"

// Operation results
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultDegraded = "degraded"
)

var (
	operationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "operations_total",
		Help:      "Snapshot store operations grouped by key, operation and result.",
	}, []string{"key", "operation", "result"})

	operationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "operation_duration_seconds",
		Help:      "Latency of snapshot store operations including the medium round trip.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"key", "operation"})

	corruptCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "corrupt_blobs_total",
		Help:      "Stored blobs that failed to decode, by key.",
	}, []string{"key"})

	lastWriteGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "last_write_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful write per key.",
	}, []string{"key"})

	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Snapshot change events handed to the broker, by result.",
	}, []string{"result"})

	eventsConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "consumed_total",
		Help:      "Snapshot change events processed by the audit worker, by key and operation.",
	}, []string{"key", "operation"})
)

func init() {
	prometheus.MustRegister(
		operationCounter,
		operationDuration,
		corruptCounter,
		lastWriteGauge,
		eventsPublished,
		eventsConsumed,
	)
}

// RecordOperation counts one store operation and observes its latency.
func RecordOperation(key, op, result string, elapsed time.Duration) {
	operationCounter.WithLabelValues(key, op, result).Inc()
	operationDuration.WithLabelValues(key, op).Observe(elapsed.Seconds())
}

// RecordCorrupt counts a blob that could not be decoded.
func RecordCorrupt(key string) {
	corruptCounter.WithLabelValues(key).Inc()
}

// RecordWrite moves the last-write watermark of key.
func RecordWrite(key string, ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastWriteGauge.WithLabelValues(key).Set(float64(ts.Unix()))
}

func RecordPublished(result string) {
	eventsPublished.WithLabelValues(result).Inc()
}

func RecordConsumed(key, op string) {
	eventsConsumed.WithLabelValues(key, op).Inc()
}
