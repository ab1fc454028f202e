package openbp

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/openbp/tree"
)

// MetricsCollector receives operational metrics from a Coordinator.
// Implement this interface to integrate with monitoring systems like
// Prometheus; the tree's own Stats counters stay independent of it.
type MetricsCollector interface {
	// RecordExpand is called after each branching, with the number of
	// children created.
	RecordExpand(children int, duration time.Duration)

	// RecordSelect is called after each node selection. ok is false when
	// the selector was exhausted.
	RecordSelect(duration time.Duration, ok bool)

	// RecordFinish is called after a node reaches a terminal status.
	RecordFinish(status tree.NodeStatus, duration time.Duration)

	// RecordPrune is called after each pruning sweep with the number of
	// nodes removed.
	RecordPrune(removed int64, duration time.Duration)

	// RecordCheckpoint is called after each checkpoint attempt.
	RecordCheckpoint(seq uint64, duration time.Duration, err error)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordExpand(int, time.Duration)               {}
func (NoopMetricsCollector) RecordSelect(time.Duration, bool)              {}
func (NoopMetricsCollector) RecordFinish(tree.NodeStatus, time.Duration)   {}
func (NoopMetricsCollector) RecordPrune(int64, time.Duration)              {}
func (NoopMetricsCollector) RecordCheckpoint(uint64, time.Duration, error) {}

// BasicMetricsCollector is a simple in-memory collector, useful for
// debugging and tests without an external monitoring system.
type BasicMetricsCollector struct {
	ExpandCount      atomic.Int64
	ChildrenCreated  atomic.Int64
	SelectCount      atomic.Int64
	SelectMisses     atomic.Int64
	FinishCount      atomic.Int64
	PruneSweeps      atomic.Int64
	NodesPruned      atomic.Int64
	CheckpointCount  atomic.Int64
	CheckpointErrors atomic.Int64
}

func (c *BasicMetricsCollector) RecordExpand(children int, _ time.Duration) {
	c.ExpandCount.Add(1)
	c.ChildrenCreated.Add(int64(children))
}

func (c *BasicMetricsCollector) RecordSelect(_ time.Duration, ok bool) {
	c.SelectCount.Add(1)
	if !ok {
		c.SelectMisses.Add(1)
	}
}

func (c *BasicMetricsCollector) RecordFinish(tree.NodeStatus, time.Duration) {
	c.FinishCount.Add(1)
}

func (c *BasicMetricsCollector) RecordPrune(removed int64, _ time.Duration) {
	c.PruneSweeps.Add(1)
	c.NodesPruned.Add(removed)
}

func (c *BasicMetricsCollector) RecordCheckpoint(_ uint64, _ time.Duration, err error) {
	c.CheckpointCount.Add(1)
	if err != nil {
		c.CheckpointErrors.Add(1)
	}
}
