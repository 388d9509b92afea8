// Copyright (c) 2014 Square, Inc

package ctrl

import (
	"time"

	"github.com/square/spv/collect"
	"github.com/square/spv/core/clock"
	"github.com/square/spv/core/process"
	"github.com/square/spv/order"
)

// Key identifies one user keystroke, already normalized from whatever raw
// terminal encoding the input listener read. Keys with no meaning in either
// application state are delivered as KeyOther and ignored.
type Key int

const (
	KeyOther Key = iota
	KeyP
	KeyN
	KeyUp
	KeyDown
	KeyG
	KeyLeft
	KeyRight
	KeyS
	KeyEnter
	KeyEsc
)

// State is the small UI mode the control surface is in; only the modal sort
// prompt changes how keys are interpreted.
type State int

const (
	StateSpv State = iota
	StateSortingPrompt
)

// Effect reports a side effect of interpreting one keystroke that the
// caller (the render step) needs to react to beyond normal state mutation.
type Effect struct {
	ProcessesSorted bool
	Criterion       order.ProcessOrdering
}

// Controls wraps every piece of UI-facing state the trigger loop mutates:
// which collector is active, which process is selected, which span is
// rendered, and the small Spv/SortingPrompt state machine.
type Controls struct {
	collectors   *CollectorSet
	span         *RenderingSpanController
	processes    ProcessSelection
	sortCriteria *SortCriteriaSelector
	state        State
}

// NewControls wires a Controls around the given collectors, with a
// rendering span covering the last initialSpan (tolerant of drift up to
// spanTolerance, typically one iteration step).
func NewControls(clk *clock.Clock, collectors []collect.Collector, initialSpan, spanTolerance time.Duration) *Controls {
	return &Controls{
		collectors:   NewCollectorSet(collectors),
		span:         NewRenderingSpanController(clk, initialSpan, spanTolerance),
		sortCriteria: NewSortCriteriaSelector(),
		state:        StateSpv,
	}
}

// InterpretInput dispatches a keystroke according to the current state and
// returns the effect it caused, if any.
func (c *Controls) InterpretInput(key Key) Effect {
	if c.state == StateSortingPrompt {
		return c.interpretSortingPromptInput(key)
	}
	return c.interpretSpvInput(key)
}

func (c *Controls) interpretSpvInput(key Key) Effect {
	switch key {
	case KeyP:
		c.collectors.Previous()
	case KeyN:
		c.collectors.Next()
	case KeyUp:
		c.processes.Previous()
	case KeyDown:
		c.processes.Next()
	case KeyG:
		c.span.ResetScroll()
	case KeyLeft:
		c.span.ScrollLeft()
	case KeyRight:
		c.span.ScrollRight()
	case KeyS:
		c.state = StateSortingPrompt
	}
	return Effect{}
}

func (c *Controls) interpretSortingPromptInput(key Key) Effect {
	switch key {
	case KeyS, KeyEsc:
		c.state = StateSpv
	case KeyDown:
		c.sortCriteria.Next()
	case KeyUp:
		c.sortCriteria.Previous()
	case KeyEnter:
		c.sortCriteria.Apply()
		c.state = StateSpv
		return Effect{ProcessesSorted: true, Criterion: c.sortCriteria.Applied()}
	}
	return Effect{}
}

// RefreshSpan advances the rendering span; called once per iteration before
// sorting and rendering.
func (c *Controls) RefreshSpan() { c.span.Refresh() }

// Span returns the span currently to be rendered.
func (c *Controls) Span() clock.Span { return c.span.Span() }

// Following reports whether the rendered span is currently tracking now,
// for the renderer's status line.
func (c *Controls) Following() bool { return c.span.Following() }

// SetProcesses replaces the tracked, already-sorted process list.
func (c *Controls) SetProcesses(processes []process.Metadata) {
	c.processes.SetProcesses(processes)
}

// SelectedProcess returns the currently selected process, if any.
func (c *Controls) SelectedProcess() (process.Metadata, bool) {
	return c.processes.Selected()
}

// Collectors exposes the collector set, e.g. so the trigger loop can call
// Collect/Calibrate on every collector each iteration.
func (c *Controls) Collectors() *CollectorSet { return c.collectors }

// State returns the current UI mode.
func (c *Controls) State() State { return c.state }

// ProcessOrderingCriteria returns the criterion currently applied to the
// process list.
func (c *Controls) ProcessOrderingCriteria() order.ProcessOrdering {
	return c.sortCriteria.Applied()
}

// SortCriteriaPromptSelection returns the criterion currently highlighted in
// the sort prompt, for the renderer to display.
func (c *Controls) SortCriteriaPromptSelection() order.ProcessOrdering {
	return c.sortCriteria.Selected()
}
