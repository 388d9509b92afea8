// Copyright (c) 2014 Square, Inc

package procfs

import (
	"time"
)

// Stat holds the system-wide CPU jiffy counters read from /proc/stat's
// first line.
type Stat struct {
	User, Nice, System, Idle, Guest, GuestNice uint64
}

// RunningTime sums every jiffy counter the CPU probe treats as "busy or
// idle but accounted for".
func (s Stat) RunningTime() uint64 {
	return s.User + s.Nice + s.System + s.Idle + s.Guest + s.GuestNice
}

func parseStat(tp *TokenParser) (Stat, error) {
	var s Stat
	var err error

	if s.User, err = tp.Uint64(0, 1); err != nil {
		return Stat{}, err
	}
	if s.Nice, err = tp.Uint64(0, 2); err != nil {
		return Stat{}, err
	}
	if s.System, err = tp.Uint64(0, 3); err != nil {
		return Stat{}, err
	}
	if s.Idle, err = tp.Uint64(0, 4); err != nil {
		return Stat{}, err
	}
	if s.Guest, err = tp.Uint64(0, 9); err != nil {
		return Stat{}, err
	}
	if s.GuestNice, err = tp.Uint64(0, 10); err != nil {
		return Stat{}, err
	}
	return s, nil
}

// NewStatReader opens /proc/stat for repeated reads of system-wide CPU time.
func NewStatReader() (*SystemDataReader[Stat], error) {
	return NewSystemDataReader("/proc/stat", parseStat)
}

// Uptime holds the number of seconds elapsed since boot, as read from
// /proc/uptime's first token.
type Uptime struct {
	Seconds uint64
}

func parseUptime(tp *TokenParser) (Uptime, error) {
	seconds, err := tp.Float64(0, 0)
	if err != nil {
		return Uptime{}, err
	}
	return Uptime{Seconds: uint64(seconds)}, nil
}

// BootTime returns the wall-clock instant the system booted, computed as
// now minus the uptime. now is passed in rather than read internally so the
// computation stays reproducible in tests.
func (u Uptime) BootTime(now time.Time) time.Time {
	return now.Add(-time.Duration(u.Seconds) * time.Second)
}

// NewUptimeReader opens /proc/uptime for a one-shot read of system uptime.
func NewUptimeReader() (*SystemDataReader[Uptime], error) {
	return NewSystemDataReader("/proc/uptime", parseUptime)
}
