// Copyright (c) 2014 Square, Inc

// Package process tracks the set of processes running on the system across
// collection iterations: which PIDs are currently running, which have died,
// and for how long each has been observed running.
package process

import (
	"fmt"
	"log"
	"time"

	"github.com/square/spv/core/clock"
	"github.com/square/spv/core/errs"
)

// Pid is the unique identifier the OS assigns to a process. On Linux, PIDs
// never exceed 4194304, well within uint32 range.
type Pid uint32

// Status indicates whether a process was observed running as of the last
// collection.
type Status int

const (
	// Running indicates the process was present in the most recent scan.
	Running Status = iota
	// Dead indicates the process was present in a previous scan but has
	// disappeared since.
	Dead
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Metadata describes a single tracked process: its identity, the command it
// was started with, its current status and the span of time over which it
// has been observed running.
type Metadata struct {
	pid         Pid
	command     string
	status      Status
	runningSpan clock.Span
}

// NewMetadata returns metadata for a process just discovered as running,
// whose running span begins at spawnTime (the process's actual start time,
// derived by the scanner from the system boot time plus its start-ticks).
func NewMetadata(clk *clock.Clock, pid Pid, command string, spawnTime time.Time) Metadata {
	return Metadata{
		pid:         pid,
		command:     command,
		status:      Running,
		runningSpan: clock.FromBegin(clk, spawnTime),
	}
}

// Pid returns the OS-assigned process identifier. PIDs can be recycled: two
// simultaneously running processes never share one, but a dead process's PID
// may later be reused by an unrelated process.
func (m Metadata) Pid() Pid { return m.pid }

// Command returns the command the process was started with, without its
// arguments.
func (m Metadata) Command() string { return m.command }

// Status reports whether the process was running as of the last collection.
func (m Metadata) Status() Status { return m.status }

// RunningSpan returns the period during which the process has been observed
// running.
func (m Metadata) RunningSpan() clock.Span { return m.runningSpan }

func (m *Metadata) markDead() { m.status = Dead }

func (m *Metadata) refreshRunningSpan(clk *clock.Clock) {
	m.runningSpan.Resize(clk.Now())
}

// Scanner discovers running processes. Implementations read /proc on Linux;
// tests substitute a stub.
type Scanner interface {
	// Scan returns the PIDs of all processes currently running.
	Scan() ([]Pid, error)
	// FetchMetadata returns metadata for the currently running process
	// identified by pid.
	FetchMetadata(pid Pid) (Metadata, error)
}

// Tracker maintains the registry of processes observed across iterations,
// classifying them as running or dead and extending their running span.
type Tracker struct {
	clock      *clock.Clock
	scanner    Scanner
	processes  map[Pid]Metadata
	maxTracked int
}

// NewTracker returns a Tracker that discovers processes through scanner,
// which supplies each new process's metadata, and uses clk to extend the
// running spans of live processes. It tracks an
// unbounded number of processes until SetMaxTrackedProcesses is called.
func NewTracker(clk *clock.Clock, scanner Scanner) *Tracker {
	return &Tracker{
		clock:     clk,
		scanner:   scanner,
		processes: make(map[Pid]Metadata),
	}
}

// SetMaxTrackedProcesses caps how many live processes Collect will track at
// once, derived at startup from RLIMIT_NOFILE minus a reserve for the
// process's other open file descriptors. A limit of 0 means unbounded.
func (t *Tracker) SetMaxTrackedProcesses(limit int) {
	t.maxTracked = limit
}

// Processes returns every tracked process, running or dead.
func (t *Tracker) Processes() []Metadata {
	out := make([]Metadata, 0, len(t.processes))
	for _, pm := range t.processes {
		out = append(out, pm)
	}
	return out
}

// RunningProcesses returns the processes that were running as of the last
// Collect call.
func (t *Tracker) RunningProcesses() []Metadata {
	out := make([]Metadata, 0, len(t.processes))
	for _, pm := range t.processes {
		if pm.status == Running {
			out = append(out, pm)
		}
	}
	return out
}

// RunningPids returns the PIDs of the processes that were running as of the
// last Collect call.
func (t *Tracker) RunningPids() []Pid {
	out := make([]Pid, 0, len(t.processes))
	for _, pm := range t.processes {
		if pm.status == Running {
			out = append(out, pm.pid)
		}
	}
	return out
}

// Collect scans the system for running processes, registers newly discovered
// ones, and updates the status and running span of every tracked process.
func (t *Tracker) Collect() error {
	runningPids, err := t.scanner.Scan()
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrScanProcesses, err)
	}

	discovered := t.parseNewProcesses(runningPids)
	discovered = t.applyTrackingLimit(discovered)
	for _, pm := range discovered {
		t.processes[pm.pid] = pm
	}

	t.updateStatuses(runningPids)

	return nil
}

func (t *Tracker) parseNewProcesses(runningPids []Pid) []Metadata {
	seen := make(map[Pid]bool, len(runningPids))
	for _, pid := range runningPids {
		seen[pid] = true
	}

	var discovered []Metadata
	for pid := range seen {
		if _, tracked := t.processes[pid]; tracked {
			continue
		}
		pm, err := t.scanner.FetchMetadata(pid)
		if err != nil {
			log.Printf("%v: pid %d: %v", errs.ErrReadMetadata, pid, err)
			continue
		}
		discovered = append(discovered, pm)
	}
	return discovered
}

// applyTrackingLimit truncates discovered to the remaining budget under
// maxTracked, if one is set, logging how many newly seen PIDs were skipped
// rather than dropping them silently.
func (t *Tracker) applyTrackingLimit(discovered []Metadata) []Metadata {
	if t.maxTracked <= 0 {
		return discovered
	}

	budget := t.maxTracked - len(t.RunningPids())
	if budget < 0 {
		budget = 0
	}
	if len(discovered) <= budget {
		return discovered
	}

	log.Printf("process tracker: skipping %d newly discovered processes this iteration, "+
		"tracked-live budget of %d reached", len(discovered)-budget, t.maxTracked)
	return discovered[:budget]
}

func (t *Tracker) updateStatuses(runningPids []Pid) {
	running := make(map[Pid]bool, len(runningPids))
	for _, pid := range runningPids {
		running[pid] = true
	}

	for pid, pm := range t.processes {
		if pm.status != Running {
			continue
		}
		if running[pid] {
			pm.refreshRunningSpan(t.clock)
		} else {
			pm.markDead()
		}
		t.processes[pid] = pm
	}
}
