// Copyright (c) 2014 Square, Inc

package main

import (
	"time"

	"github.com/spf13/cobra"
)

// options holds every flag the root command accepts.
type options struct {
	step         time.Duration
	span         time.Duration
	retention    time.Duration
	batch        bool
	server       bool
	address      string
	maxOpenFiles uint64
}

func newRootCommand(opts *options, run func(*options) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spv",
		Short: "spv supervises running processes, tracking per-process CPU and disk I/O over time",
		Long: "spv is an interactive terminal process monitor: it tracks every process's CPU usage\n" +
			"and disk I/O rate across iterations, lets you sort and scroll through the tracked\n" +
			"history, and can optionally run headless with its own metrics exposed over HTTP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&opts.step, "step", 2*time.Second, "how often metrics are collected")
	flags.DurationVar(&opts.span, "span", 60*time.Second, "initial duration covered by the rendered chart")
	flags.DurationVar(&opts.retention, "retention", time.Second, "retention window for the disk I/O rate engine")
	flags.BoolVar(&opts.batch, "batch", false, "run without a terminal UI, dumping a text summary every step")
	flags.BoolVar(&opts.server, "server", false, "expose collected app-level metrics as JSON over HTTP (implies --batch)")
	flags.StringVar(&opts.address, "address", ":19999", "address to listen on when --server is set")
	flags.Uint64Var(&opts.maxOpenFiles, "max-open-files", 4096, "RLIMIT_NOFILE to request at startup; caps how many processes are tracked concurrently")

	return cmd
}
