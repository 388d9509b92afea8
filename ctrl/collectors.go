// Copyright (c) 2014 Square, Inc

package ctrl

import "github.com/square/spv/collect"

// CollectorSet holds every metric collector the application drives each
// iteration, plus a cursor selecting which one feeds the chart.
type CollectorSet struct {
	collectors []collect.Collector
	selected   int
}

// NewCollectorSet returns a set wrapping collectors, selecting the first one.
// Panics if collectors is empty: an application with nothing to measure is a
// construction bug, not a runtime condition to recover from.
func NewCollectorSet(collectors []collect.Collector) *CollectorSet {
	if len(collectors) == 0 {
		panic("ctrl: no collectors given")
	}
	return &CollectorSet{collectors: collectors}
}

// Next selects the next collector, wrapping after the last.
func (c *CollectorSet) Next() {
	c.selected = (c.selected + 1) % len(c.collectors)
}

// Previous selects the previous collector, wrapping before the first.
func (c *CollectorSet) Previous() {
	c.selected = (c.selected - 1 + len(c.collectors)) % len(c.collectors)
}

// Current returns the currently selected collector.
func (c *CollectorSet) Current() collect.Collector {
	return c.collectors[c.selected]
}

// All returns every collector in the set, in order.
func (c *CollectorSet) All() []collect.Collector {
	return c.collectors
}

// Names returns every collector's name, in order, for a tab bar.
func (c *CollectorSet) Names() []string {
	names := make([]string, len(c.collectors))
	for i, col := range c.collectors {
		names[i] = col.Name()
	}
	return names
}

// SelectedIndex returns the index of the currently selected collector.
func (c *CollectorSet) SelectedIndex() int { return c.selected }
