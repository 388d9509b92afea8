// Copyright (c) 2014 Square, Inc

package collect

import (
	"time"

	"github.com/square/spv/core/process"
	"github.com/square/spv/metric"
)

// View is an immutable, borrowed-in-spirit projection over one Pid's full
// series, sliced on demand by the caller's requested span.
type View struct {
	samples    []metric.Metric
	resolution time.Duration
	def        metric.Metric
}

func newView(samples []metric.Metric, resolution time.Duration, def metric.Metric) View {
	return View{samples: samples, resolution: resolution, def: def}
}

// Extract returns the trailing slice of samples covering spanDuration at
// this view's resolution, capped by however much history is actually
// retained.
func (v View) Extract(spanDuration time.Duration) []metric.Metric {
	expected := v.expectedSamples(spanDuration)
	skip := len(v.samples) - expected
	if skip < 0 {
		skip = 0
	}
	return v.samples[skip:]
}

// expectedSamples is not a guarantee on Extract's return length: history may
// simply not go back that far yet.
func (v View) expectedSamples(spanDuration time.Duration) int {
	if v.resolution <= 0 {
		return len(v.samples)
	}
	return int(spanDuration / v.resolution)
}

// Step returns the expected interval between consecutive samples.
func (v View) Step() time.Duration { return v.resolution }

func (v View) Unit() string { return v.def.Unit() }

// LastOrDefault returns the most recent sample, or the collector's default
// metric if the series is empty.
func (v View) LastOrDefault() metric.Metric {
	if len(v.samples) == 0 {
		return v.def
	}
	return v.samples[len(v.samples)-1]
}

func (v View) AsSlice() []metric.Metric { return v.samples }

// Overview maps every known Pid to its last sample, defaulted when a Pid has
// never produced one.
type Overview struct {
	last map[process.Pid]metric.Metric
	def  metric.Metric
}

func newOverview(last map[process.Pid]metric.Metric, def metric.Metric) Overview {
	return Overview{last: last, def: def}
}

func (o Overview) LastOrDefault(pid process.Pid) metric.Metric {
	if m, ok := o.last[pid]; ok {
		return m
	}
	return o.def
}

func (o Overview) Unit() string { return o.def.Unit() }
