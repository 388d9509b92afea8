// Copyright (c) 2014 Square, Inc

package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gizak/termui"

	"github.com/square/spv/core/clock"
	"github.com/square/spv/metrics"
	"github.com/square/spv/procfs"
	"github.com/square/spv/trigger"
)

func main() {
	opts := &options{}
	cmd := newRootCommand(opts, run)
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(opts *options) error {
	if opts.server {
		opts.batch = true
	}

	openFileLimit := opts.maxOpenFiles
	limit, err := procfs.RaiseOpenFileLimit(opts.maxOpenFiles)
	if err != nil {
		log.Printf("could not raise RLIMIT_NOFILE to %d: %v", opts.maxOpenFiles, err)
	} else if limit < opts.maxOpenFiles {
		log.Printf("RLIMIT_NOFILE raised to %d, short of the requested %d", limit, opts.maxOpenFiles)
	}
	if limit > 0 && limit < openFileLimit {
		openFileLimit = limit
	}

	appMetrics := metrics.NewAppMetrics("spv")
	if opts.server {
		go serveMetrics(appMetrics, opts.address)
	}

	clk := clock.New()
	scanner, err := procfs.NewScanner(clk)
	if err != nil {
		return fmt.Errorf("could not create process scanner: %w", err)
	}

	a, err := newApp(clk, scanner, opts, appMetrics)
	if err != nil {
		return err
	}
	a.tracker.SetMaxTrackedProcesses(trackingBudget(openFileLimit))

	if err := a.warmUp(); err != nil {
		return fmt.Errorf("could not complete startup calibration pass: %w", err)
	}

	if opts.batch {
		return runBatch(a)
	}
	return runInteractive(a)
}

// trackingBudget reserves a handful of descriptors for the process's own
// stdio, the metrics HTTP listener and incidental file opens, and allows one
// tracked process per remaining descriptor. The CPU and disk I/O probes each
// keep one descriptor open per tracked process, so this budget alone does not
// keep their combined use under RLIMIT_NOFILE.
func trackingBudget(maxOpenFiles uint64) int {
	const reserved = 32
	if maxOpenFiles <= reserved {
		return 1
	}
	return int(maxOpenFiles - reserved)
}

func serveMetrics(m *metrics.AppMetrics, address string) {
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {})
	http.HandleFunc("/api/v1/metrics.json", m.HttpJsonHandler)
	log.Fatal(http.ListenAndServe(address, nil))
}

// runBatch drives the collect/calibrate loop with no terminal UI, dumping a
// plain-text summary every iteration; stdin is never read, so it works
// unattended or piped.
func runBatch(a *app) error {
	loop := trigger.NewLoop(a.step, nil)
	for event := range loop.Events() {
		switch event.Kind {
		case trigger.Exit:
			return nil
		case trigger.Impulse:
			a.iterate()
			a.renderBatch()
		}
	}
	return nil
}

// runInteractive switches the terminal to raw mode, initializes termui, and
// drives the trigger loop's events into the app's controls and renderer
// until Exit.
func runInteractive(a *app) error {
	restore, err := trigger.EnterRawMode(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("could not switch terminal to raw mode: %w", err)
	}
	defer restore()

	if err := termui.Init(); err != nil {
		return fmt.Errorf("could not initialize terminal UI: %w", err)
	}
	defer termui.Close()

	w := newWidgets()
	a.render(w)

	loop := trigger.NewLoop(a.step, os.Stdin)
	for event := range loop.Events() {
		switch event.Kind {
		case trigger.Exit:
			return nil
		case trigger.Impulse:
			a.iterate()
			a.render(w)
		case trigger.Resize:
			a.render(w)
		case trigger.Input:
			effect := a.controls.InterpretInput(event.Key)
			if effect.ProcessesSorted {
				a.sortProcesses()
			}
			a.render(w)
		}
	}
	return nil
}
