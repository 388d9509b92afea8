// Copyright (c) 2014 Square, Inc

package metrics

import (
	"testing"
	"time"
)

func TestObserveIterationUpdatesAllFields(t *testing.T) {
	a := NewAppMetrics("spv_test")

	timer := a.BeginIteration()
	time.Sleep(time.Millisecond)
	a.ObserveIteration(timer, 7, 2)

	if got := a.Iterations.Get(); got != 1 {
		t.Errorf("Iterations.Get() = %d, want 1", got)
	}
	if _, err := a.CollectDuration.Percentile(50); err != nil {
		t.Errorf("CollectDuration.Percentile(50) returned %v, want a sample recorded", err)
	}
	if got := a.TrackedProcesses.Get(); got != 7 {
		t.Errorf("TrackedProcesses.Get() = %v, want 7", got)
	}
	if got := a.ProbeErrors.Get(); got != 2 {
		t.Errorf("ProbeErrors.Get() = %d, want 2", got)
	}
}

func TestObserveIterationLeavesProbeErrorsUnchangedWhenZero(t *testing.T) {
	a := NewAppMetrics("spv_test_2")

	timer := a.BeginIteration()
	a.ObserveIteration(timer, 1, 0)

	if got := a.ProbeErrors.Get(); got != 0 {
		t.Errorf("ProbeErrors.Get() = %d, want 0", got)
	}
}

func TestNewAppMetricsRegistersUnderNamespace(t *testing.T) {
	a := NewAppMetrics("spv_test_3")

	if _, ok := a.Counters["iterations"]; !ok {
		t.Error("iterations counter not registered with MetricContext")
	}
	if _, ok := a.StatsTimers["collect_duration_ms"]; !ok {
		t.Error("collect_duration_ms stats timer not registered with MetricContext")
	}
	if _, ok := a.BasicCounters["probe_errors"]; !ok {
		t.Error("probe_errors counter not registered with MetricContext")
	}
	if _, ok := a.Gauges["tracked_processes"]; !ok {
		t.Error("tracked_processes gauge not registered with MetricContext")
	}
}
