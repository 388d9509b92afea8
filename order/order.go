// Copyright (c) 2014 Square, Inc

// Package order sorts tracked processes for display, always keeping running
// processes ahead of dead ones regardless of the chosen criterion.
package order

import (
	"sort"

	"github.com/square/spv/collect"
	"github.com/square/spv/core/process"
)

// ProcessOrdering is one of the criteria a user can sort the process list by.
type ProcessOrdering int

const (
	// CurrentMetric orders by the active collector's last sample, descending.
	CurrentMetric ProcessOrdering = iota
	// Pid orders by Pid, ascending.
	Pid
	// Command orders by command, ascending lexicographic.
	Command
)

// Criteria lists every ProcessOrdering value, in the order the sorting
// prompt cycles through them.
var Criteria = [...]ProcessOrdering{CurrentMetric, Pid, Command}

func (o ProcessOrdering) String() string {
	switch o {
	case CurrentMetric:
		return "current metric"
	case Pid:
		return "pid"
	case Command:
		return "command"
	default:
		return "unknown"
	}
}

// SortProcesses reorders processes in place: running processes always sort
// before dead ones; within each group, criterion breaks ties.
func SortProcesses(processes []process.Metadata, criterion ProcessOrdering, current collect.Collector) {
	sort.SliceStable(processes, func(i, j int) bool {
		pi, pj := processes[i], processes[j]
		if pi.Status() != pj.Status() {
			return pi.Status() == process.Running
		}
		return less(pi, pj, criterion, current)
	})
}

func less(pi, pj process.Metadata, criterion ProcessOrdering, current collect.Collector) bool {
	switch criterion {
	case CurrentMetric:
		return current.CompareLast(pi.Pid(), pj.Pid()) > 0
	case Pid:
		return pi.Pid() < pj.Pid()
	case Command:
		return pi.Command() < pj.Command()
	default:
		return false
	}
}
