// Copyright (c) 2014 Square, Inc

//go:build linux

package procfs

import (
	"github.com/tklauser/go-sysconf"
	"golang.org/x/sys/unix"
)

// ClockTicks returns the number of clock ticks per second the kernel uses
// to express process start-ticks and jiffy counters. Used to convert
// PidStat.Starttime and RunningTime into real time.
func ClockTicks() (uint64, error) {
	ticks, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return 0, newError(Sysconf, "sysconf(_SC_CLK_TCK) failed", err)
	}
	return uint64(ticks), nil
}

// OpenFileLimit returns the current process's soft limit on open file
// descriptors (RLIMIT_NOFILE).
func OpenFileLimit() (uint64, error) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		return 0, newError(IO, "getrlimit(RLIMIT_NOFILE) failed", err)
	}
	return rlimit.Cur, nil
}

// RaiseOpenFileLimit attempts to raise the process's soft RLIMIT_NOFILE to
// want, capped at the hard limit, and returns the limit actually in effect
// afterward. Raising past the hard limit without CAP_SYS_RESOURCE fails, so
// callers should treat the returned value, not want, as authoritative.
func RaiseOpenFileLimit(want uint64) (uint64, error) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		return 0, newError(IO, "getrlimit(RLIMIT_NOFILE) failed", err)
	}

	if want <= rlimit.Cur {
		return rlimit.Cur, nil
	}

	target := want
	if target > rlimit.Max {
		target = rlimit.Max
	}

	raised := unix.Rlimit{Cur: target, Max: rlimit.Max}
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &raised); err != nil {
		return rlimit.Cur, newError(IO, "setrlimit(RLIMIT_NOFILE) failed", err)
	}
	return target, nil
}
