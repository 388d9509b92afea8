// Copyright (c) 2014 Square, Inc

package ctrl

import (
	"github.com/square/spv/core/process"
	"github.com/square/spv/order"
)

// ProcessSelection tracks which process is selected across re-sorts. It
// remembers the selected Pid rather than an index, since sorting can move a
// process to a different position in the list.
type ProcessSelection struct {
	sorted      []process.Metadata
	selectedPid *process.Pid
}

// SetProcesses replaces the tracked (already-sorted) process list. The
// previously selected Pid, if still present, stays selected.
func (s *ProcessSelection) SetProcesses(processes []process.Metadata) {
	s.sorted = processes
}

// Selected returns the currently selected process, or false if there are no
// tracked processes.
func (s *ProcessSelection) Selected() (process.Metadata, bool) {
	idx, ok := s.selectedIndex()
	if !ok {
		return process.Metadata{}, false
	}
	return s.sorted[idx], true
}

// Next advances the selection by one, saturating at the last process.
func (s *ProcessSelection) Next() {
	idx, ok := s.selectedIndex()
	if !ok {
		return
	}
	next := idx + 1
	if next > len(s.sorted)-1 {
		next = len(s.sorted) - 1
	}
	s.setSelectedIndex(next)
}

// Previous moves the selection back by one, saturating at the first process.
func (s *ProcessSelection) Previous() {
	idx, ok := s.selectedIndex()
	if !ok {
		return
	}
	prev := idx - 1
	if prev < 0 {
		prev = 0
	}
	s.setSelectedIndex(prev)
}

// selectedIndex returns the index of the selected Pid within sorted. If the
// selected Pid is unset or no longer present, it falls back to index 0.
func (s *ProcessSelection) selectedIndex() (int, bool) {
	if len(s.sorted) == 0 {
		return 0, false
	}
	if s.selectedPid != nil {
		for i, pm := range s.sorted {
			if pm.Pid() == *s.selectedPid {
				return i, true
			}
		}
	}
	return 0, true
}

func (s *ProcessSelection) setSelectedIndex(idx int) {
	pid := s.sorted[idx].Pid()
	s.selectedPid = &pid
}

// SortCriteriaSelector lets the sorting prompt cycle through the candidate
// criteria independently of the one currently applied to the process list.
type SortCriteriaSelector struct {
	applied     order.ProcessOrdering
	selectedIdx int
}

// NewSortCriteriaSelector returns a selector defaulting to CurrentMetric,
// matching CollectorSet and ProcessSelection's own zero-value defaults.
func NewSortCriteriaSelector() *SortCriteriaSelector {
	return &SortCriteriaSelector{applied: order.CurrentMetric}
}

// Applied returns the criterion currently in effect on the process list.
func (s *SortCriteriaSelector) Applied() order.ProcessOrdering { return s.applied }

// Selected returns the criterion currently highlighted in the prompt, which
// may differ from Applied until Apply is called.
func (s *SortCriteriaSelector) Selected() order.ProcessOrdering {
	return order.Criteria[s.selectedIdx]
}

// Next highlights the next candidate criterion, wrapping.
func (s *SortCriteriaSelector) Next() {
	s.selectedIdx = (s.selectedIdx + 1) % len(order.Criteria)
}

// Previous highlights the previous candidate criterion, wrapping.
func (s *SortCriteriaSelector) Previous() {
	s.selectedIdx = (s.selectedIdx - 1 + len(order.Criteria)) % len(order.Criteria)
}

// Apply commits the highlighted criterion as the one applied to the process
// list.
func (s *SortCriteriaSelector) Apply() {
	s.applied = s.Selected()
}
