// Copyright (c) 2014 Square, Inc

// Package ctrl wires together the collector set, process selection and
// rendering span into the small UI state machine the trigger loop drives.
package ctrl

import (
	"time"

	"github.com/square/spv/core/clock"
)

// RenderingSpanController owns the span rendered by the chart and the
// "follow" mode that keeps it pinned to now.
type RenderingSpanController struct {
	clock     *clock.Clock
	span      clock.Span
	tolerance time.Duration
	follow    bool
}

// NewRenderingSpanController returns a controller spanning the last
// `initial` duration, in follow mode. tolerance widens "fully right" to
// "within tolerance of now", so a refresh period racing the UI redraw
// doesn't cause a one-tick follow/not-follow flicker.
func NewRenderingSpanController(clk *clock.Clock, initial, tolerance time.Duration) *RenderingSpanController {
	return &RenderingSpanController{
		clock:     clk,
		span:      clock.FromDuration(clk, initial),
		tolerance: tolerance,
		follow:    true,
	}
}

// Refresh shifts the span's end to now, but only while following.
func (c *RenderingSpanController) Refresh() {
	if c.follow {
		c.span.Shift(c.clock.Now())
		c.refreshFollow()
	}
}

// ScrollLeft moves the span one second further into the past, clamped at
// the clock's initial instant.
func (c *RenderingSpanController) ScrollLeft() {
	c.span.ScrollLeft(time.Second)
	c.refreshFollow()
}

// ScrollRight moves the span one second closer to now, clamped at now.
func (c *RenderingSpanController) ScrollRight() {
	c.span.ScrollRight(time.Second)
	c.refreshFollow()
}

// ResetScroll shifts the span back to ending at now and re-enables follow.
func (c *RenderingSpanController) ResetScroll() {
	c.span.Shift(c.clock.Now())
	c.refreshFollow()
}

func (c *RenderingSpanController) refreshFollow() {
	c.follow = c.clock.Now().Sub(c.span.End()) <= c.tolerance
}

// Span returns the span to render.
func (c *RenderingSpanController) Span() clock.Span { return c.span }

// Following reports whether the span is currently tracking now.
func (c *RenderingSpanController) Following() bool { return c.follow }
