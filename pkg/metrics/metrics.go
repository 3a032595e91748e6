// Package metrics provides client-side observability for ingestion runs
// using Prometheus collectors. Throughput numbers are bookkeeping only:
// nothing in the submission engine consults them to make control-flow
// decisions.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector tracks the observable progress of one ingestion run. Each run
// owns its collector and registry; Registry() can be mounted on an exposition
// endpoint when one is wanted.
type Collector struct {
	registry *prometheus.Registry

	rowsWritten      prometheus.Counter
	batchesSubmitted prometheus.Counter
	acksReceived     prometheus.Counter
	affectedRows     prometheus.Counter
	submitLatency    prometheus.Histogram
	inflightWrites   prometheus.Gauge
	throughput       prometheus.Gauge
}

// NewCollector creates a collector labeled with the provider name.
func NewCollector(provider string) *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	labels := prometheus.Labels{"provider": provider}

	return &Collector{
		registry: registry,
		rowsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name:        "bulkstream_rows_written_total",
			Help:        "Rows handed to the bulk writer.",
			ConstLabels: labels,
		}),
		batchesSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name:        "bulkstream_batches_submitted_total",
			Help:        "Batches submitted to the transport.",
			ConstLabels: labels,
		}),
		acksReceived: factory.NewCounter(prometheus.CounterOpts{
			Name:        "bulkstream_acks_received_total",
			Help:        "Acknowledgements collected from the remote store.",
			ConstLabels: labels,
		}),
		affectedRows: factory.NewCounter(prometheus.CounterOpts{
			Name:        "bulkstream_affected_rows_total",
			Help:        "Affected-row counts reported by acknowledgements.",
			ConstLabels: labels,
		}),
		submitLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "bulkstream_submit_latency_seconds",
			Help:        "Latency of batch submissions.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		inflightWrites: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "bulkstream_inflight_writes",
			Help:        "Writes submitted but not yet acknowledged.",
			ConstLabels: labels,
		}),
		throughput: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "bulkstream_rows_per_second",
			Help:        "Instantaneous ingestion throughput.",
			ConstLabels: labels,
		}),
	}
}

// Registry returns the registry holding this run's collectors.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// RecordBatchSubmitted records one submitted batch of n rows.
func (c *Collector) RecordBatchSubmitted(n int) {
	c.batchesSubmitted.Inc()
	c.rowsWritten.Add(float64(n))
	c.inflightWrites.Inc()
}

// RecordAck records one acknowledgement carrying an affected-row count.
func (c *Collector) RecordAck(affectedRows int, latency time.Duration) {
	c.acksReceived.Inc()
	c.affectedRows.Add(float64(affectedRows))
	c.submitLatency.Observe(latency.Seconds())
	c.inflightWrites.Dec()
}

// SetThroughput publishes the current rows-per-second estimate.
func (c *Collector) SetThroughput(rowsPerSecond float64) {
	c.throughput.Set(rowsPerSecond)
}

// ThroughputTracker accumulates row counts between observations.
type ThroughputTracker struct {
	count int64
	since atomic.Int64 // unix nanos
}

// NewThroughputTracker starts tracking from now.
func NewThroughputTracker() *ThroughputTracker {
	t := &ThroughputTracker{}
	t.since.Store(time.Now().UnixNano())
	return t
}

// Increment adds n rows to the current window.
func (t *ThroughputTracker) Increment(n int) {
	atomic.AddInt64(&t.count, int64(n))
}

// GetAndReset returns rows/sec for the window since the last call and starts
// a new window.
func (t *ThroughputTracker) GetAndReset() float64 {
	now := time.Now().UnixNano()
	start := t.since.Swap(now)
	n := atomic.SwapInt64(&t.count, 0)

	elapsed := time.Duration(now - start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(n) / elapsed
}
