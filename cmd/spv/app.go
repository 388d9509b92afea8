// Copyright (c) 2014 Square, Inc

package main

import (
	"fmt"
	"log"
	"time"

	"github.com/square/spv/collect"
	"github.com/square/spv/core/clock"
	"github.com/square/spv/core/process"
	"github.com/square/spv/ctrl"
	"github.com/square/spv/metric"
	"github.com/square/spv/metrics"
	"github.com/square/spv/order"
	"github.com/square/spv/probe"
)

// app owns every piece of long-lived state the trigger loop drives: the
// process tracker, the collectors probing it each iteration, the disk I/O
// probe's spawn bookkeeping, the UI controls, and the self-observability
// counters.
type app struct {
	clock   *clock.Clock
	tracker *process.Tracker
	step    time.Duration

	diskIO   *probe.DiskIO
	controls *ctrl.Controls

	metrics *metrics.AppMetrics

	running map[process.Pid]bool
	sorted  []process.Metadata
}

func newApp(clk *clock.Clock, scanner process.Scanner, opts *options, appMetrics *metrics.AppMetrics) (*app, error) {
	tracker := process.NewTracker(clk, scanner)

	cpuProbe, err := probe.NewCPU()
	if err != nil {
		return nil, fmt.Errorf("could not create cpu probe: %w", err)
	}
	diskIOProbe := probe.NewDiskIO(clk, opts.retention)

	collectors := []collect.Collector{
		collect.NewProbeCollector[metric.Percent](cpuProbe),
		collect.NewProbeCollector[metric.IO](diskIOProbe),
	}

	controls := ctrl.NewControls(clk, collectors, opts.span, opts.step)

	return &app{
		clock:    clk,
		tracker:  tracker,
		step:     opts.step,
		diskIO:   diskIOProbe,
		controls: controls,
		metrics:  appMetrics,
		running:  make(map[process.Pid]bool),
	}, nil
}

// warmUp runs the tracker's first scan and a discarded calibration pass
// across every collector, so the first real iteration's CPU percentages and
// disk I/O rates are computed against a baseline rather than reported as
// zero by construction.
func (a *app) warmUp() error {
	if err := a.tracker.Collect(); err != nil {
		return err
	}

	pids := a.tracker.RunningPids()
	a.registerSpawns(pids)

	for _, c := range a.controls.Collectors().All() {
		if err := c.Calibrate(pids); err != nil {
			log.Printf("calibration pass failed for %q: %v", c.Name(), err)
		}
	}

	for _, pid := range pids {
		a.running[pid] = true
	}
	return nil
}

// iterate runs one collect+sort cycle: refresh the clock, rescan processes,
// probe every collector, clean up dead ones, re-sort, and hand the sorted
// list to the controls for rendering.
func (a *app) iterate() {
	timer := a.metrics.BeginIteration()
	a.clock.Refresh()
	a.controls.RefreshSpan()

	if err := a.tracker.Collect(); err != nil {
		log.Printf("failed to scan processes: %v", err)
		return
	}

	pids := a.tracker.RunningPids()
	a.reconcileLifecycle(pids)

	probeErrors := 0
	for _, c := range a.controls.Collectors().All() {
		if err := c.Collect(pids); err != nil {
			log.Printf("collector %q failed this iteration: %v", c.Name(), err)
			probeErrors++
		}
	}

	a.sortProcesses()
	a.controls.SetProcesses(a.sorted)

	a.metrics.ObserveIteration(timer, len(a.tracker.Processes()), probeErrors)
}

// reconcileLifecycle registers newly spawned processes with the disk I/O
// probe's rate engine and lets every collector release the per-pid
// resources (such as open file handles) it holds for processes
// that have died since the last iteration. Their metric history is kept,
// not discarded, so it stays available for historical rendering.
func (a *app) reconcileLifecycle(runningPids []process.Pid) {
	stillRunning := make(map[process.Pid]bool, len(runningPids))
	var newlySeen []process.Pid
	for _, pid := range runningPids {
		stillRunning[pid] = true
		if !a.running[pid] {
			newlySeen = append(newlySeen, pid)
		}
	}

	a.registerSpawns(newlySeen)

	for pid := range a.running {
		if !stillRunning[pid] {
			for _, c := range a.controls.Collectors().All() {
				c.Cleanup(pid)
			}
		}
	}

	a.running = stillRunning
}

func (a *app) registerSpawns(pids []process.Pid) {
	if len(pids) == 0 {
		return
	}
	byPid := make(map[process.Pid]process.Metadata, len(pids))
	for _, pm := range a.tracker.Processes() {
		byPid[pm.Pid()] = pm
	}
	for _, pid := range pids {
		if pm, ok := byPid[pid]; ok {
			a.diskIO.RegisterSpawn(pid, pm.RunningSpan().Begin())
		}
	}
}

func (a *app) sortProcesses() {
	a.sorted = a.tracker.Processes()
	order.SortProcesses(a.sorted, a.controls.ProcessOrderingCriteria(), a.controls.Collectors().Current())
}
