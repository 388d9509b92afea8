// Copyright (c) 2014 Square, Inc

package probe

import (
	"fmt"

	"github.com/square/spv/core/errs"
	"github.com/square/spv/core/process"
	"github.com/square/spv/metric"
	"github.com/square/spv/procfs"
)

// systemStatReader is satisfied by *procfs.SystemDataReader[procfs.Stat]; it
// exists so tests can substitute an in-memory sequence of Stat values.
type systemStatReader interface {
	Read() (procfs.Stat, error)
}

// pidStatReader is satisfied by *procfs.ProcessDataReader[procfs.PidStat];
// it exists so tests can substitute canned per-Pid responses.
type pidStatReader interface {
	Read(pid process.Pid) (procfs.PidStat, error)
	Cleanup(pid process.Pid)
}

// CPU measures the share of system-wide CPU time each process consumed
// since the last iteration, as a percentage.
type CPU struct {
	statReader    systemStatReader
	pidStatReader pidStatReader

	prevGlobal procfs.Stat
	globalDiff int64

	prevPid map[process.Pid]int64
}

// NewCPU returns a CPU probe backed by /proc/stat and /proc/[pid]/stat.
func NewCPU() (*CPU, error) {
	statReader, err := procfs.NewStatReader()
	if err != nil {
		return nil, err
	}

	return newCPU(statReader, procfs.NewPidStatReader())
}

func newCPU(statReader systemStatReader, pidStatReader pidStatReader) (*CPU, error) {
	initial, err := statReader.Read()
	if err != nil {
		return nil, err
	}

	return &CPU{
		statReader:    statReader,
		pidStatReader: pidStatReader,
		prevGlobal:    initial,
		prevPid:       make(map[process.Pid]int64),
	}, nil
}

func (c *CPU) Name() string { return "CPU" }

func (c *CPU) DefaultMetric() metric.Percent { return metric.DefaultPercent() }

// InitIteration re-reads /proc/stat and computes how many jiffies elapsed,
// system-wide, since the last iteration. Every subsequent Probe call this
// iteration divides a process's own jiffy delta by this value.
func (c *CPU) InitIteration() error {
	newStat, err := c.statReader.Read()
	if err != nil {
		return err
	}

	c.globalDiff = int64(newStat.RunningTime()) - int64(c.prevGlobal.RunningTime())
	c.prevGlobal = newStat
	return nil
}

// Probe returns pid's share of the CPU time elapsed since the last
// iteration. A Pid probed for the first time is measured against a zero
// baseline, so its first measurement covers all the CPU time the process
// has accumulated so far; a result above 100% is returned as an error.
// When no CPU time elapsed
// system-wide this iteration, every Pid reads as the default metric.
func (c *CPU) Probe(pid process.Pid) (metric.Percent, error) {
	if c.globalDiff <= 0 {
		return metric.DefaultPercent(), nil
	}

	pidStat, err := c.pidStatReader.Read(pid)
	if err != nil {
		return metric.Percent{}, fmt.Errorf("%w: could not read cpu stat for pid %d: %v", errs.ErrProbing, pid, err)
	}

	runningTime := pidStat.RunningTime()
	diff := runningTime - c.prevPid[pid]
	c.prevPid[pid] = runningTime

	percent := 100 * float64(diff) / float64(c.globalDiff)

	m, err := metric.NewPercent(percent)
	if err != nil {
		return metric.Percent{}, fmt.Errorf("%w: invalid cpu usage for pid %d: %.1f%%", errs.ErrProbing, pid, percent)
	}
	return m, nil
}

// Cleanup forgets pid's cached jiffy count and procfs file handle, called
// once the tracker marks it dead.
func (c *CPU) Cleanup(pid process.Pid) {
	delete(c.prevPid, pid)
	c.pidStatReader.Cleanup(pid)
}
