// Copyright (c) 2014 Square, Inc

// Package probe defines the per-metric-kind measurement contract and the
// concrete probes (CPU usage, disk I/O) that implement it over procfs data.
package probe

import (
	"log"

	"github.com/square/spv/core/process"
	"github.com/square/spv/metric"
)

// Probe measures one metric of kind M for a set of live processes once per
// iteration. Implementations are generic over M so the collector, rate
// engine and renderer never need a type switch over concrete metric kinds.
type Probe[M metric.Metric] interface {
	// Name identifies the probe, e.g. for a UI tab label.
	Name() string
	// DefaultMetric is substituted for a Pid the probe failed to measure.
	DefaultMetric() M
	// InitIteration is called once per refresh, before any Probe call, to
	// let stateful probes snapshot system-wide counters.
	InitIteration() error
	// Probe measures pid, using state carried from the last InitIteration
	// and the last Probe call for the same pid.
	Probe(pid process.Pid) (M, error)
	// Cleanup discards any state the probe retains for pid, called once the
	// tracker marks it dead.
	Cleanup(pid process.Pid)
}

// ProbeProcesses calls p.InitIteration once, then p.Probe once per Pid in
// pids. A per-Pid failure is logged and substituted with p.DefaultMetric, so
// the returned map always has exactly one entry per input Pid.
func ProbeProcesses[M metric.Metric](p Probe[M], pids []process.Pid) (map[process.Pid]M, error) {
	if err := p.InitIteration(); err != nil {
		return nil, err
	}

	results := make(map[process.Pid]M, len(pids))
	for _, pid := range pids {
		m, err := p.Probe(pid)
		if err != nil {
			log.Printf("could not probe %s metric for pid %d: %v", p.Name(), pid, err)
			m = p.DefaultMetric()
		}
		results[pid] = m
	}
	return results, nil
}
