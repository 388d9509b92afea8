// Copyright (c) 2014 Square, Inc

// Package metric defines the closed set of concrete metric kinds a probe can
// produce (percentages, I/O byte rates, ...) behind one common vtable so that
// collectors, sorters and the renderer can handle any kind without knowing
// its concrete shape.
package metric

import "fmt"

// Metric is implemented by every concrete measurement kind a probe produces.
// A metric may carry more than one scalar component (disk I/O has input and
// output); Cardinality reports how many.
type Metric interface {
	fmt.Stringer

	// Cardinality returns the number of scalar components this metric
	// carries.
	Cardinality() int
	// Component returns the i-th scalar component as a float64, used for
	// sorting and charting.
	Component(i int) float64
	// MaxComponent returns a plausible upper bound for component i, used to
	// scale a chart's axis.
	MaxComponent(i int) float64
	// Unit returns the physical unit component values are expressed in.
	Unit() string
	// ConciseRepr renders a short label suitable for a process list row.
	ConciseRepr() string
	// ExplicitRepr renders a fuller label for component i, suitable for a
	// chart legend or axis.
	ExplicitRepr(i int) string
}

// Magnitude returns the scalar used to compare two samples of the same kind,
// per the "current metric" sort criterion: the first (and for single
// component kinds, only) component.
func Magnitude(m Metric) float64 {
	if m.Cardinality() == 0 {
		return 0
	}
	return m.Component(0)
}
