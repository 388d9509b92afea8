// Copyright (c) 2014 Square, Inc

// Package collect drives a probe over the tracker's live Pids each
// iteration and retains the resulting per-process series, exposing
// read-only views for the renderer and sorter.
package collect

import (
	"time"

	"github.com/square/spv/core/process"
	"github.com/square/spv/metric"
	"github.com/square/spv/probe"
)

// Collector is the type-erased contract a CollectorSet stores; ProbeCollector[M]
// is its only implementation, but the set holds collectors of different
// concrete metric kinds side by side and so cannot be generic itself.
type Collector interface {
	Collect(pids []process.Pid) error
	Calibrate(pids []process.Pid) error
	Cleanup(pid process.Pid)
	Name() string
	View(pid process.Pid, resolution time.Duration) View
	Overview() Overview
	// CompareLast orders pid1 against pid2 by their last sample's magnitude:
	// negative if pid1 < pid2, positive if pid1 > pid2, zero if equal or
	// incomparable (e.g. NaN), so callers get a total order either way.
	CompareLast(pid1, pid2 process.Pid) int
}

// ProbeCollector wraps a Probe[M] and the per-Pid history of everything it
// has measured.
type ProbeCollector[M metric.Metric] struct {
	probe  probe.Probe[M]
	series map[process.Pid][]M
	def    M
}

// NewProbeCollector builds a collector around p, with an empty series map.
func NewProbeCollector[M metric.Metric](p probe.Probe[M]) *ProbeCollector[M] {
	return &ProbeCollector[M]{
		probe:  p,
		series: make(map[process.Pid][]M),
		def:    p.DefaultMetric(),
	}
}

// Collect probes every pid once and appends the result to its series,
// creating the series if this is the first observation of that Pid.
func (c *ProbeCollector[M]) Collect(pids []process.Pid) error {
	results, err := probe.ProbeProcesses[M](c.probe, pids)
	if err != nil {
		return err
	}
	for pid, m := range results {
		c.series[pid] = append(c.series[pid], m)
	}
	return nil
}

// Calibrate probes every pid once, establishing a baseline for delta-based
// probes (CPU ticks, byte-counter rates), and discards the result.
func (c *ProbeCollector[M]) Calibrate(pids []process.Pid) error {
	_, err := probe.ProbeProcesses[M](c.probe, pids)
	return err
}

// Cleanup lets the underlying probe release any per-pid resources (such as
// open file handles) it holds for a process that has died.
// pid's series is untouched: a dead process's history stays available for
// historical rendering, per the collector's retention invariant.
func (c *ProbeCollector[M]) Cleanup(pid process.Pid) {
	c.probe.Cleanup(pid)
}

func (c *ProbeCollector[M]) Name() string { return c.probe.Name() }

// View returns an immutable projection over pid's full series; resolution is
// the iteration period and lets the caller slice by duration rather than
// sample count.
func (c *ProbeCollector[M]) View(pid process.Pid, resolution time.Duration) View {
	series := c.series[pid]
	samples := make([]metric.Metric, len(series))
	for i, m := range series {
		samples[i] = m
	}
	return newView(samples, resolution, c.def)
}

// Overview returns every known Pid's last sample, defaulted for Pids with an
// empty series.
func (c *ProbeCollector[M]) Overview() Overview {
	last := make(map[process.Pid]metric.Metric, len(c.series))
	for pid := range c.series {
		last[pid] = c.lastOrDefault(pid)
	}
	return newOverview(last, c.def)
}

func (c *ProbeCollector[M]) CompareLast(pid1, pid2 process.Pid) int {
	v1 := metric.Magnitude(c.lastOrDefault(pid1))
	v2 := metric.Magnitude(c.lastOrDefault(pid2))
	switch {
	case v1 < v2:
		return -1
	case v1 > v2:
		return 1
	default:
		// Covers equality and the NaN case, where every comparison is
		// false: treating it as Equal keeps the comparator a total order.
		return 0
	}
}

func (c *ProbeCollector[M]) lastOrDefault(pid process.Pid) M {
	series := c.series[pid]
	if len(series) == 0 {
		return c.def
	}
	return series[len(series)-1]
}
