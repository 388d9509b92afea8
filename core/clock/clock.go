// Copyright (c) 2014 Square, Inc

// Package clock provides the single source of truth for "now" used by one
// collection iteration. Every probe, process-span update and span mutation
// performed while handling the same trigger must observe the exact same
// instant; that invariant lives here instead of being reconstructed ad hoc at
// every call site.
package clock

import (
	"sync"
	"time"
)

// Source supplies the monotonic instant backing a Clock. The default
// implementation wraps time.Now; tests substitute a fake so that iterations
// can be advanced deterministically.
type Source interface {
	Now() time.Time
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() time.Time

// Now implements Source.
func (f SourceFunc) Now() time.Time { return f() }

type realSource struct{}

func (realSource) Now() time.Time { return time.Now() }

// Clock caches the timestamp of the current iteration. Repeated calls to
// Now() within one iteration return a bitwise-equal value; Refresh must be
// called exactly once per iteration, at the head of the trigger loop, to
// advance it.
type Clock struct {
	mu      sync.RWMutex
	src     Source
	initial time.Time
	current time.Time
}

// New builds a Clock backed by the real monotonic clock.
func New() *Clock {
	return NewWithSource(realSource{})
}

// NewWithSource builds a Clock backed by the given Source. Used by tests to
// inject a fake source that can be advanced on demand.
func NewWithSource(src Source) *Clock {
	now := src.Now()
	return &Clock{src: src, initial: now, current: now}
}

// Now returns the timestamp captured by the last Refresh call.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Initial returns the timestamp captured when the Clock was created. It is
// the lower clamp used when scrolling a Span into the past.
func (c *Clock) Initial() time.Time {
	return c.initial
}

// Refresh captures a fresh instant from the underlying Source. Must only be
// called by the trigger loop, once per iteration, before any probing.
func (c *Clock) Refresh() {
	now := c.src.Now()
	c.mu.Lock()
	c.current = now
	c.mu.Unlock()
}
