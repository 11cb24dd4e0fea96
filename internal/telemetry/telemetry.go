// Package telemetry tracks motionctl's in-process operational statistics
// with lock-free atomic counters, mirroring the teacher's root Metrics
// type, and exposes the same counters to Prometheus via client_golang
// collectors for services that scrape them.
package telemetry

import (
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks per-process motion statistics.
type Metrics struct {
	MovesQueued    atomic.Uint64
	MovesCompleted atomic.Uint64
	MovesRejected  atomic.Uint64 // zero-length or buffer-full ingress rejections

	SegmentsDispatched atomic.Uint64
	EagainCount        atomic.Uint64 // count of Dispatch() calls that yielded on a full sink

	ReplanCount          atomic.Uint64
	NonConvergentSolves  atomic.Uint64

	QueueDepthTotal atomic.Uint64 // cumulative queue depth samples, for averaging
	QueueDepthCount atomic.Uint64
	MaxQueueDepth   atomic.Uint32

	StartTime atomic.Int64

	clock clock.Clock
}

// NewMetrics creates a zeroed Metrics with StartTime set to now.
func NewMetrics() *Metrics {
	return NewMetricsWithClock(clock.New())
}

// NewMetricsWithClock is NewMetrics with an injectable clock, so tests can
// assert Uptime against a clock.Mock instead of sleeping on a wall clock.
func NewMetricsWithClock(c clock.Clock) *Metrics {
	m := &Metrics{clock: c}
	m.StartTime.Store(c.Now().UnixNano())
	return m
}

// RecordMoveQueued increments the queued-move counter.
func (m *Metrics) RecordMoveQueued() { m.MovesQueued.Add(1) }

// RecordMoveCompleted increments the completed-move counter.
func (m *Metrics) RecordMoveCompleted() { m.MovesCompleted.Add(1) }

// RecordMoveRejected increments the rejected-move counter.
func (m *Metrics) RecordMoveRejected() { m.MovesRejected.Add(1) }

// RecordSegment increments the dispatched-segment counter.
func (m *Metrics) RecordSegment() { m.SegmentsDispatched.Add(1) }

// RecordEagain increments the backpressure counter.
func (m *Metrics) RecordEagain() { m.EagainCount.Add(1) }

// RecordReplan increments the replan counter, and optionally the
// non-convergent-solve counter when the HT solver gave up.
func (m *Metrics) RecordReplan(convergent bool) {
	m.ReplanCount.Add(1)
	if !convergent {
		m.NonConvergentSolves.Add(1)
	}
}

// RecordQueueDepth folds one queue-depth sample into the running average
// and high-water mark.
func (m *Metrics) RecordQueueDepth(depth uint32) {
	m.QueueDepthTotal.Add(uint64(depth))
	m.QueueDepthCount.Add(1)
	for {
		cur := m.MaxQueueDepth.Load()
		if depth <= cur || m.MaxQueueDepth.CompareAndSwap(cur, depth) {
			return
		}
	}
}

// AverageQueueDepth returns the mean of every recorded queue-depth sample.
func (m *Metrics) AverageQueueDepth() float64 {
	count := m.QueueDepthCount.Load()
	if count == 0 {
		return 0
	}
	return float64(m.QueueDepthTotal.Load()) / float64(count)
}

// Uptime returns how long the Metrics instance has been alive.
func (m *Metrics) Uptime() time.Duration {
	c := m.clock
	if c == nil {
		c = clock.New()
	}
	return c.Now().Sub(time.Unix(0, m.StartTime.Load()))
}

// Collector adapts Metrics to prometheus.Collector so it can be registered
// with a prometheus.Registry.
type Collector struct {
	metrics *Metrics

	movesQueued    *prometheus.Desc
	movesCompleted *prometheus.Desc
	movesRejected  *prometheus.Desc
	segments       *prometheus.Desc
	eagain         *prometheus.Desc
	replans        *prometheus.Desc
	nonConvergent  *prometheus.Desc
	queueDepthAvg  *prometheus.Desc
	queueDepthMax  *prometheus.Desc
}

// NewCollector wraps Metrics for Prometheus registration.
func NewCollector(m *Metrics) *Collector {
	ns := "motionctl"
	return &Collector{
		metrics:        m,
		movesQueued:    prometheus.NewDesc(ns+"_moves_queued_total", "Moves accepted by ingress.", nil, nil),
		movesCompleted: prometheus.NewDesc(ns+"_moves_completed_total", "Moves fully dispatched.", nil, nil),
		movesRejected:  prometheus.NewDesc(ns+"_moves_rejected_total", "Moves rejected by ingress validation.", nil, nil),
		segments:       prometheus.NewDesc(ns+"_segments_dispatched_total", "Segments submitted to the motor sink.", nil, nil),
		eagain:         prometheus.NewDesc(ns+"_dispatch_eagain_total", "Dispatch calls that yielded on sink backpressure.", nil, nil),
		replans:        prometheus.NewDesc(ns+"_replans_total", "Backward replan passes run.", nil, nil),
		nonConvergent:  prometheus.NewDesc(ns+"_replan_nonconvergent_total", "Replans where the HT solver hit its iteration cap.", nil, nil),
		queueDepthAvg:  prometheus.NewDesc(ns+"_queue_depth_average", "Mean ring queue depth across all samples.", nil, nil),
		queueDepthMax:  prometheus.NewDesc(ns+"_queue_depth_max", "High-water mark of ring queue depth.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.movesQueued
	ch <- c.movesCompleted
	ch <- c.movesRejected
	ch <- c.segments
	ch <- c.eagain
	ch <- c.replans
	ch <- c.nonConvergent
	ch <- c.queueDepthAvg
	ch <- c.queueDepthMax
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.metrics
	ch <- prometheus.MustNewConstMetric(c.movesQueued, prometheus.CounterValue, float64(m.MovesQueued.Load()))
	ch <- prometheus.MustNewConstMetric(c.movesCompleted, prometheus.CounterValue, float64(m.MovesCompleted.Load()))
	ch <- prometheus.MustNewConstMetric(c.movesRejected, prometheus.CounterValue, float64(m.MovesRejected.Load()))
	ch <- prometheus.MustNewConstMetric(c.segments, prometheus.CounterValue, float64(m.SegmentsDispatched.Load()))
	ch <- prometheus.MustNewConstMetric(c.eagain, prometheus.CounterValue, float64(m.EagainCount.Load()))
	ch <- prometheus.MustNewConstMetric(c.replans, prometheus.CounterValue, float64(m.ReplanCount.Load()))
	ch <- prometheus.MustNewConstMetric(c.nonConvergent, prometheus.CounterValue, float64(m.NonConvergentSolves.Load()))
	ch <- prometheus.MustNewConstMetric(c.queueDepthAvg, prometheus.GaugeValue, m.AverageQueueDepth())
	ch <- prometheus.MustNewConstMetric(c.queueDepthMax, prometheus.GaugeValue, float64(m.MaxQueueDepth.Load()))
}
