// Copyright (c) 2014 Square, Inc

package probe

import (
	"errors"
	"testing"

	"github.com/square/spv/core/process"
	"github.com/square/spv/metric"
	"github.com/square/spv/procfs"
)

var errPidStatNotFound = errors.New("no pid stat configured")

type memoryStatReader struct {
	seq []procfs.Stat
}

func (r *memoryStatReader) Read() (procfs.Stat, error) {
	s := r.seq[0]
	r.seq = r.seq[1:]
	return s, nil
}

type memoryPidStatReader struct {
	seq map[process.Pid]procfs.PidStat
}

func (r *memoryPidStatReader) Read(pid process.Pid) (procfs.PidStat, error) {
	s, ok := r.seq[pid]
	if !ok {
		return procfs.PidStat{}, errPidStatNotFound
	}
	delete(r.seq, pid)
	return s, nil
}

func (r *memoryPidStatReader) Cleanup(process.Pid) {}

func statWithRunningTime(runningTime uint64) procfs.Stat {
	per := runningTime / 6
	leftover := runningTime - 6*per
	return procfs.Stat{User: per, Nice: per, System: per, Idle: per, Guest: per, GuestNice: per + leftover}
}

func pidStatWithRunningTime(runningTime uint32) procfs.PidStat {
	per := runningTime / 4
	leftover := runningTime - 4*per
	return procfs.PidStat{Utime: per, Stime: per, Cutime: int32(per), Cstime: int32(per + leftover)}
}

func TestCPUProbeNoPids(t *testing.T) {
	statReader := &memoryStatReader{seq: []procfs.Stat{statWithRunningTime(0), statWithRunningTime(200)}}
	pidStatReader := &memoryPidStatReader{seq: map[process.Pid]procfs.PidStat{}}

	c, err := newCPU(statReader, pidStatReader)
	if err != nil {
		t.Fatalf("newCPU() error = %v", err)
	}

	results, err := ProbeProcesses[metric.Percent](c, nil)
	if err != nil {
		t.Fatalf("ProbeProcesses() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestCPUProbeOnePid(t *testing.T) {
	statReader := &memoryStatReader{seq: []procfs.Stat{statWithRunningTime(0), statWithRunningTime(200)}}
	pidStatReader := &memoryPidStatReader{seq: map[process.Pid]procfs.PidStat{1: pidStatWithRunningTime(100)}}

	c, err := newCPU(statReader, pidStatReader)
	if err != nil {
		t.Fatalf("newCPU() error = %v", err)
	}

	results, err := ProbeProcesses[metric.Percent](c, []process.Pid{1})
	if err != nil {
		t.Fatalf("ProbeProcesses() error = %v", err)
	}
	if got := results[1].Component(0); got != 50 {
		t.Errorf("Component(0) = %v, want 50", got)
	}
}

func TestCPUProbeTwoPidsShareUsage(t *testing.T) {
	statReader := &memoryStatReader{seq: []procfs.Stat{statWithRunningTime(0), statWithRunningTime(200)}}
	pidStatReader := &memoryPidStatReader{seq: map[process.Pid]procfs.PidStat{
		1: pidStatWithRunningTime(50),
		2: pidStatWithRunningTime(100),
	}}

	c, err := newCPU(statReader, pidStatReader)
	if err != nil {
		t.Fatalf("newCPU() error = %v", err)
	}

	results, err := ProbeProcesses[metric.Percent](c, []process.Pid{1, 2})
	if err != nil {
		t.Fatalf("ProbeProcesses() error = %v", err)
	}
	if got := results[1].Component(0); got != 25 {
		t.Errorf("pid 1 Component(0) = %v, want 25", got)
	}
	if got := results[2].Component(0); got != 50 {
		t.Errorf("pid 2 Component(0) = %v, want 50", got)
	}
}

func TestCPUCalculatorZeroPercentUsage(t *testing.T) {
	statReader := &memoryStatReader{seq: []procfs.Stat{statWithRunningTime(100), statWithRunningTime(160)}}
	pidStatReader := &memoryPidStatReader{seq: map[process.Pid]procfs.PidStat{1: {}}}

	c, err := newCPU(statReader, pidStatReader)
	if err != nil {
		t.Fatalf("newCPU() error = %v", err)
	}
	if err := c.InitIteration(); err != nil {
		t.Fatalf("InitIteration() error = %v", err)
	}

	m, err := c.Probe(1)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if got := m.Component(0); got != 0 {
		t.Errorf("Component(0) = %v, want 0", got)
	}
}

func TestCPUCalculatorOverHundredPercentFails(t *testing.T) {
	statReader := &memoryStatReader{seq: []procfs.Stat{statWithRunningTime(100), statWithRunningTime(120)}}
	pidStatReader := &memoryPidStatReader{seq: map[process.Pid]procfs.PidStat{
		1: {Utime: 10, Stime: 10, Cutime: 10, Cstime: 10},
	}}

	c, err := newCPU(statReader, pidStatReader)
	if err != nil {
		t.Fatalf("newCPU() error = %v", err)
	}
	if err := c.InitIteration(); err != nil {
		t.Fatalf("InitIteration() error = %v", err)
	}

	if _, err := c.Probe(1); err == nil {
		t.Error("Probe() should fail when usage exceeds 100%")
	}
}
