// Copyright (c) 2014 Square, Inc

// Package errs defines the sentinel error values shared across spv's core
// packages. Call sites wrap them with fmt.Errorf("...: %w", ErrX) so that
// errors.Is still matches while the message carries call-specific detail.
package errs

import "errors"

var (
	// ErrScanProcesses is returned when the /proc directory listing itself
	// fails, independent of any single process.
	ErrScanProcesses = errors.New("failed to scan running processes")

	// ErrReadMetadata is returned when the command name or spawn information
	// of a specific process could not be read.
	ErrReadMetadata = errors.New("failed to read process metadata")

	// ErrInvalidPid is returned when an operation targets a Pid that does not
	// (or does no longer) identify a process known to spv.
	ErrInvalidPid = errors.New("invalid pid")

	// ErrProbing is returned when a probe fails to collect a metric for one
	// or more processes during an iteration.
	ErrProbing = errors.New("failed to probe metric")

	// ErrInput is returned by the input trigger when the terminal cannot be
	// read from.
	ErrInput = errors.New("failed to read input")

	// ErrSignal classifies a failure to receive OS signals. SignalListener
	// has no error result and does not return it.
	ErrSignal = errors.New("failed to receive signal")

	// ErrUI classifies a failure to render the terminal interface. The
	// renderer in cmd/spv has no error result and does not return it.
	ErrUI = errors.New("failed to render ui")

	// ErrChannelClosed classifies a trigger producer's upstream source closing
	// before the application requested a shutdown. No trigger producer
	// returns it.
	ErrChannelClosed = errors.New("trigger channel closed")
)
