// Copyright (c) 2014 Square, Inc

// Package rate turns monotonically increasing counters (bytes read, bytes
// written, ...) into per-second rates, retaining only the samples needed to
// cover a configurable window.
package rate

import (
	"fmt"
	"time"

	"github.com/square/spv/core/clock"
	"github.com/square/spv/core/errs"
	"github.com/square/spv/core/process"
)

// Key identifies one accumulative counter stream. It pairs a Pid with the
// process's spawn timestamp, so that a recycled Pid
// starts a fresh FIFO instead of mixing samples from an unrelated process.
type Key struct {
	Pid     process.Pid
	Spawned time.Time
}

type datedValue struct {
	date  time.Time
	value uint64
}

// Engine tracks dated accumulative values per Key and computes the rate of
// change over the trailing retention window.
type Engine struct {
	clock     *clock.Clock
	retention time.Duration
	values    map[Key][]datedValue
}

// NewEngine returns an Engine that computes rates from samples covered by
// the given retention window.
func NewEngine(clk *clock.Clock, retention time.Duration) *Engine {
	return &Engine{
		clock:     clk,
		retention: retention,
		values:    make(map[Key][]datedValue),
	}
}

// Push appends value, timestamped with the engine's clock, to key's FIFO.
func (e *Engine) Push(key Key, value uint64) {
	e.values[key] = append(e.values[key], datedValue{date: e.clock.Now(), value: value})
}

// Rate returns the per-second rate of change of key's accumulative value
// over the trailing retention window. It returns 0 when fewer than two
// samples remain in the window, and an error if key has never been pushed.
func (e *Engine) Rate(key Key) (float64, error) {
	values, ok := e.values[key]
	if !ok {
		return 0, fmt.Errorf("%w: %v", errs.ErrInvalidPid, key.Pid)
	}

	values = e.pruneOutdated(values)
	e.values[key] = values

	if len(values) < 2 {
		return 0, nil
	}

	front, back := values[0], values[len(values)-1]
	increase := back.value - front.value
	span := back.date.Sub(front.date)

	return float64(increase) / span.Seconds(), nil
}

func (e *Engine) pruneOutdated(values []datedValue) []datedValue {
	now := e.clock.Now()
	cutoff := 0
	for cutoff < len(values) && now.Sub(values[cutoff].date) > e.retention {
		cutoff++
	}
	return values[cutoff:]
}
