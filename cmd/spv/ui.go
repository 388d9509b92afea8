// Copyright (c) 2014 Square, Inc

package main

import (
	"fmt"

	"github.com/gizak/termui"

	"github.com/square/spv/core/process"
	"github.com/square/spv/ctrl"
	"github.com/square/spv/order"
)

// widgets holds every termui widget the interactive UI redraws each
// iteration: the process list, the selected process's metric history chart,
// the sort-criterion prompt, and the status/help lines.
type widgets struct {
	processList *termui.List
	history     *termui.LineChart
	status      *termui.Par
	help        *termui.Par
	prompt      *termui.List
}

const helpLine = "p/n: collector  up/down: process  left/right: scroll  g: reset scroll  s: sort  ctrl-c: quit"

func newWidgets() *widgets {
	w := &widgets{
		processList: termui.NewList(),
		history:     termui.NewLineChart(),
		status:      termui.NewPar("gathering statistics..."),
		help:        termui.NewPar(helpLine),
		prompt:      termui.NewList(),
	}

	w.processList.Border.Label = "Processes"
	w.processList.Height = 15

	w.history.Border.Label = "History"
	w.history.Height = 12
	w.history.Mode = "dot"

	w.status.Height = 3
	w.help.Height = 1

	w.prompt.Border.Label = "Sort by (up/down to choose, enter to apply, esc to cancel)"

	return w
}

func body(w *widgets) *termui.Grid {
	grid := termui.NewGrid()
	grid.AddRows(
		termui.NewRow(termui.NewCol(12, 0, w.status)),
		termui.NewRow(termui.NewCol(7, 0, w.processList), termui.NewCol(5, 0, w.history)),
		termui.NewRow(termui.NewCol(12, 0, w.help)))
	return grid
}

func promptBody(w *widgets) *termui.Grid {
	grid := termui.NewGrid()
	grid.AddRows(
		termui.NewRow(termui.NewCol(12, 0, w.status)),
		termui.NewRow(termui.NewCol(12, 0, w.prompt)))
	return grid
}

// render refreshes every widget from the app's current state and redraws
// whichever grid matches the controls' current State.
func (a *app) render(w *widgets) {
	current := a.controls.Collectors().Current()

	a.renderStatus(w, current.Name())
	a.renderProcessList(w)
	a.renderHistory(w)

	var grid *termui.Grid
	if a.controls.State() == ctrl.StateSortingPrompt {
		a.renderSortPrompt(w)
		grid = promptBody(w)
	} else {
		grid = body(w)
	}

	grid.Width = termui.TermWidth()
	grid.Align()
	termui.Render(grid)
}

func (a *app) renderStatus(w *widgets, collectorName string) {
	span := a.controls.Span()
	following := "following"
	if !a.controls.Following() {
		following = "scrolled"
	}
	w.status.Text = fmt.Sprintf("collector: %s (p/n)  span: %s (%s)  tracked: %d",
		collectorName, span.Duration(), following, len(a.tracker.Processes()))
}

func (a *app) renderProcessList(w *widgets) {
	overview := a.controls.Collectors().Current().Overview()
	selected, hasSelection := a.controls.SelectedProcess()

	rows := make([]string, 0, len(a.sorted))
	for _, pm := range a.sorted {
		value := overview.LastOrDefault(pm.Pid()).String()
		isSelected := hasSelection && pm.Pid() == selected.Pid()
		rows = append(rows, processRow(pm, value, isSelected))
	}
	w.processList.Items = rows
}

func (a *app) renderHistory(w *widgets) {
	selected, ok := a.controls.SelectedProcess()
	if !ok {
		w.history.Data = nil
		w.history.Border.Label = "History"
		return
	}

	view := a.controls.Collectors().Current().View(selected.Pid(), a.step)
	samples := view.Extract(a.controls.Span().Duration())

	data := make([]float64, len(samples))
	for i, m := range samples {
		data[i] = m.Component(0)
	}
	w.history.Data = data
	w.history.Border.Label = fmt.Sprintf("History: %s (pid %d)", selected.Command(), selected.Pid())
}

func (a *app) renderSortPrompt(w *widgets) {
	selected := a.controls.SortCriteriaPromptSelection()
	items := make([]string, 0, len(order.Criteria))
	for _, criterion := range order.Criteria {
		marker := "  "
		if criterion == selected {
			marker = "> "
		}
		items = append(items, marker+criterion.String())
	}
	w.prompt.Items = items
}

func processRow(pm process.Metadata, value string, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}
	status := ""
	if pm.Status() != process.Running {
		status = " (dead)"
	}
	return fmt.Sprintf("%s%-8d %-24s %s%s", marker, pm.Pid(), truncate(pm.Command(), 24), value, status)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// renderBatch writes a plain-text summary of the current iteration to
// stdout, mirroring the teacher's -batchmode output: no terminal control
// codes, suitable for piping into another tool.
func (a *app) renderBatch() {
	current := a.controls.Collectors().Current()
	overview := current.Overview()

	fmt.Printf("=== %s (%d processes tracked) ===\n", current.Name(), len(a.sorted))
	for _, pm := range a.sorted {
		if pm.Status() != process.Running {
			continue
		}
		fmt.Printf("%-8d %-24s %s\n", pm.Pid(), truncate(pm.Command(), 24),
			overview.LastOrDefault(pm.Pid()).String())
	}
}
