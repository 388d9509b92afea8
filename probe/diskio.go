// Copyright (c) 2014 Square, Inc

package probe

import (
	"fmt"
	"time"

	"github.com/square/spv/core/clock"
	"github.com/square/spv/core/errs"
	"github.com/square/spv/core/process"
	"github.com/square/spv/metric"
	"github.com/square/spv/procfs"
	"github.com/square/spv/rate"
)

// ioRateRetention is the retention window newDiskIO gives the rate engines.
// NewDiskIO takes its window as a parameter instead.
const ioRateRetention = time.Second

// pidIOReader is satisfied by *procfs.ProcessDataReader[procfs.PidIO]; it
// exists so tests can substitute canned per-Pid responses.
type pidIOReader interface {
	Read(pid process.Pid) (procfs.PidIO, error)
	Cleanup(pid process.Pid)
}

// DiskIO measures each process's disk read and write byte rate.
type DiskIO struct {
	clock  *clock.Clock
	reader pidIOReader

	inputRates  *rate.Engine
	outputRates *rate.Engine

	spawned map[process.Pid]time.Time
}

// NewDiskIO returns a DiskIO probe backed by /proc/[pid]/io, with its rate
// engines retaining samples over the given window.
func NewDiskIO(clk *clock.Clock, retention time.Duration) *DiskIO {
	return newDiskIOWithRetention(clk, procfs.NewPidIOReader(), retention)
}

func newDiskIO(clk *clock.Clock, reader pidIOReader) *DiskIO {
	return newDiskIOWithRetention(clk, reader, ioRateRetention)
}

func newDiskIOWithRetention(clk *clock.Clock, reader pidIOReader, retention time.Duration) *DiskIO {
	return &DiskIO{
		clock:       clk,
		reader:      reader,
		inputRates:  rate.NewEngine(clk, retention),
		outputRates: rate.NewEngine(clk, retention),
		spawned:     make(map[process.Pid]time.Time),
	}
}

func (d *DiskIO) Name() string { return "Disk I/O" }

func (d *DiskIO) DefaultMetric() metric.IO { return metric.DefaultIO() }

// InitIteration is a no-op: the disk-I/O probe has no system-wide state to
// refresh, only per-Pid counters pushed during Probe.
func (d *DiskIO) InitIteration() error { return nil }

// RegisterSpawn records the spawn timestamp of pid, used to key its rate
// engine entries so that a recycled Pid starts a fresh FIFO.
func (d *DiskIO) RegisterSpawn(pid process.Pid, spawnTime time.Time) {
	d.spawned[pid] = spawnTime
}

// Cleanup forgets a dead process's spawn timestamp and procfs file handle.
// The samples the rate engines hold for the process are not removed.
func (d *DiskIO) Cleanup(pid process.Pid) {
	delete(d.spawned, pid)
	d.reader.Cleanup(pid)
}

// Probe reads pid's cumulative read/write byte counters, pushes them into
// the input and output rate engines, and returns the resulting bytes/second
// pair.
func (d *DiskIO) Probe(pid process.Pid) (metric.IO, error) {
	pidIO, err := d.reader.Read(pid)
	if err != nil {
		return metric.IO{}, fmt.Errorf("%w: could not read io stats for pid %d: %v", errs.ErrProbing, pid, err)
	}

	key := rate.Key{Pid: pid, Spawned: d.spawned[pid]}

	d.inputRates.Push(key, pidIO.ReadBytes)
	inputRate, err := d.inputRates.Rate(key)
	if err != nil {
		return metric.IO{}, fmt.Errorf("%w: could not calculate disk input rate for pid %d: %v", errs.ErrProbing, pid, err)
	}

	d.outputRates.Push(key, pidIO.WrittenBytes())
	outputRate, err := d.outputRates.Rate(key)
	if err != nil {
		return metric.IO{}, fmt.Errorf("%w: could not calculate disk output rate for pid %d: %v", errs.ErrProbing, pid, err)
	}

	return metric.IO{Input: uint64(inputRate), Output: uint64(outputRate)}, nil
}
