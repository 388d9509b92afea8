// Copyright (c) 2014 Square, Inc

package procfs

import (
	"fmt"
	"strings"

	"github.com/square/spv/core/process"
)

// Comm holds the command a process was started with, as read from
// /proc/[pid]/comm.
type Comm struct {
	Command string
}

func parseComm(tp *TokenParser) (Comm, error) {
	if _, err := tp.String(0, 0); err != nil {
		return Comm{}, err
	}
	return Comm{Command: strings.Join(tp.lines[0], " ")}, nil
}

func commPath(pid process.Pid) string {
	return fmt.Sprintf("/proc/%d/comm", pid)
}

// NewCommReader returns a per-Pid reader for /proc/[pid]/comm.
func NewCommReader() *ProcessDataReader[Comm] {
	return NewProcessDataReader(commPath, parseComm)
}

// PidStat holds the per-process CPU jiffy counters and start-ticks read
// from /proc/[pid]/stat.
type PidStat struct {
	Utime, Stime   uint32
	Cutime, Cstime int32
	Starttime      uint64
}

// RunningTime sums the jiffies the CPU probe attributes to this process,
// including time spent by its waited-for children.
func (s PidStat) RunningTime() int64 {
	return int64(s.Utime) + int64(s.Stime) + int64(s.Cutime) + int64(s.Cstime)
}

func parsePidStat(tp *TokenParser) (PidStat, error) {
	var s PidStat
	var err error

	if s.Utime, err = tp.Uint32(0, 12); err != nil {
		return PidStat{}, err
	}
	if s.Stime, err = tp.Uint32(0, 13); err != nil {
		return PidStat{}, err
	}
	if s.Cutime, err = tp.Int32(0, 14); err != nil {
		return PidStat{}, err
	}
	if s.Cstime, err = tp.Int32(0, 15); err != nil {
		return PidStat{}, err
	}
	if s.Starttime, err = tp.Uint64(0, 21); err != nil {
		return PidStat{}, err
	}
	return s, nil
}

func pidStatPath(pid process.Pid) string {
	return fmt.Sprintf("/proc/%d/stat", pid)
}

// NewPidStatReader returns a per-Pid reader for /proc/[pid]/stat.
func NewPidStatReader() *ProcessDataReader[PidStat] {
	return NewProcessDataReader(pidStatPath, parsePidStat)
}

// PidIO holds the per-process cumulative byte counters read from
// /proc/[pid]/io.
type PidIO struct {
	ReadBytes           uint64
	WriteBytes          uint64
	CancelledWriteBytes uint64
}

// WrittenBytes is WriteBytes net of bytes the kernel later cancelled (e.g.
// truncated dirty pages), saturating at zero.
func (io PidIO) WrittenBytes() uint64 {
	if io.CancelledWriteBytes > io.WriteBytes {
		return 0
	}
	return io.WriteBytes - io.CancelledWriteBytes
}

func parsePidIO(tp *TokenParser) (PidIO, error) {
	var io PidIO
	var err error

	if io.ReadBytes, err = tp.Uint64(4, 1); err != nil {
		return PidIO{}, err
	}
	if io.WriteBytes, err = tp.Uint64(5, 1); err != nil {
		return PidIO{}, err
	}
	if io.CancelledWriteBytes, err = tp.Uint64(6, 1); err != nil {
		return PidIO{}, err
	}
	return io, nil
}

func pidIOPath(pid process.Pid) string {
	return fmt.Sprintf("/proc/%d/io", pid)
}

// NewPidIOReader returns a per-Pid reader for /proc/[pid]/io.
func NewPidIOReader() *ProcessDataReader[PidIO] {
	return NewProcessDataReader(pidIOPath, parsePidIO)
}
