// Copyright (c) 2014 Square, Inc

package metrics

import "time"

// historySamples bounds how many past iteration durations CollectDuration
// keeps around for its percentile computation.
const historySamples = 256

// AppMetrics is spv's self-observability surface: one MetricContext
// pre-registered with the counters, gauge and timer the main loop updates
// every iteration, exposed as JSON when --server is set.
type AppMetrics struct {
	*MetricContext

	// Iterations counts completed collect+sort cycles and, via
	// ComputeRate, how many the loop is completing per second -- useful to
	// compare against the configured --step when iterations start lagging.
	Iterations *Counter
	// ProbeErrors counts, across iterations, the collectors whose Collect
	// returned an error. Per-Pid probe failures are logged and replaced by
	// the default metric; they are not counted here.
	ProbeErrors *BasicCounter
	// CollectDuration holds a rolling window of iteration wall times, in
	// milliseconds, so --server callers can read out latency percentiles
	// rather than just the last value.
	CollectDuration *StatsTimer
	// TrackedProcesses is the number of processes (running + dead, not
	// yet pruned) the tracker currently knows about.
	TrackedProcesses *Gauge
}

// NewAppMetrics registers spv's metrics under the given namespace.
func NewAppMetrics(namespace string) *AppMetrics {
	ctx := NewMetricContext(namespace)

	a := &AppMetrics{
		MetricContext:    ctx,
		Iterations:       NewCounter(),
		ProbeErrors:      NewBasicCounter(),
		CollectDuration:  NewStatsTimer(time.Millisecond, historySamples),
		TrackedProcesses: NewGauge(),
	}
	ctx.Register(a.Iterations, "iterations")
	ctx.Register(a.ProbeErrors, "probe_errors")
	ctx.Register(a.CollectDuration, "collect_duration_ms")
	ctx.Register(a.TrackedProcesses, "tracked_processes")
	return a
}

// BeginIteration starts timing one collect+sort cycle. Pass the returned
// Timer to ObserveIteration once the cycle completes.
func (a *AppMetrics) BeginIteration() *Timer {
	return a.CollectDuration.Start()
}

// ObserveIteration records the outcome of one completed collect+sort
// cycle: how long it took (timed since the matching BeginIteration), how
// many processes are tracked, and how many collectors failed during it.
func (a *AppMetrics) ObserveIteration(t *Timer, trackedProcesses int, probeErrors int) {
	a.Iterations.Add(1)
	a.CollectDuration.Stop(t)
	a.TrackedProcesses.Set(float64(trackedProcesses))
	if probeErrors > 0 {
		a.ProbeErrors.Add(uint64(probeErrors))
	}
}
