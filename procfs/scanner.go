// Copyright (c) 2014 Square, Inc

package procfs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/square/spv/core/clock"
	"github.com/square/spv/core/errs"
	"github.com/square/spv/core/process"
)

// Scanner implements process.Scanner by listing /proc and parsing each
// numbered entry's comm and stat files.
type Scanner struct {
	clock      *clock.Clock
	procDir    string
	commReader *ProcessDataReader[Comm]
	statReader *ProcessDataReader[PidStat]
	clockTicks uint64
	bootTime   time.Time
}

// NewScanner returns a Scanner rooted at /proc. It reads /proc/uptime and
// sysconf(_SC_CLK_TCK) once at construction time to derive the boot time and
// the tick-to-second conversion factor used by FetchMetadata. Its per-Pid
// readers close each file after reading it, since FetchMetadata reads a
// given Pid only when it is first discovered.
func NewScanner(clk *clock.Clock) (*Scanner, error) {
	uptimeReader, err := NewUptimeReader()
	if err != nil {
		return nil, err
	}
	defer uptimeReader.Close()

	uptime, err := uptimeReader.Read()
	if err != nil {
		return nil, err
	}

	ticks, err := ClockTicks()
	if err != nil {
		return nil, err
	}

	commReader := NewCommReader()
	commReader.CloseFileAfterRead()
	statReader := NewPidStatReader()
	statReader.CloseFileAfterRead()

	return &Scanner{
		clock:      clk,
		procDir:    "/proc",
		commReader: commReader,
		statReader: statReader,
		clockTicks: ticks,
		bootTime:   uptime.BootTime(clk.Now()),
	}, nil
}

// Scan lists /proc and returns the Pid of every numerically-named entry.
func (s *Scanner) Scan() ([]process.Pid, error) {
	entries, err := os.ReadDir(s.procDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrScanProcesses, err)
	}

	var pids []process.Pid
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		n, err := strconv.ParseUint(entry.Name(), 10, 32)
		if err != nil {
			continue
		}
		pids = append(pids, process.Pid(n))
	}
	return pids, nil
}

// FetchMetadata reads pid's comm and start-ticks and returns its metadata,
// with a running span that begins at its actual spawn time.
func (s *Scanner) FetchMetadata(pid process.Pid) (process.Metadata, error) {
	comm, err := s.commReader.Read(pid)
	if err != nil {
		return process.Metadata{}, fmt.Errorf("%w: %v", errs.ErrReadMetadata, err)
	}

	stat, err := s.statReader.Read(pid)
	if err != nil {
		return process.Metadata{}, fmt.Errorf("%w: %v", errs.ErrReadMetadata, err)
	}

	spawnTime := s.bootTime.Add(time.Duration(stat.Starttime/s.clockTicks) * time.Second)

	return process.NewMetadata(s.clock, pid, comm.Command, spawnTime), nil
}

// Cleanup releases any per-Pid file handles cached for pid.
func (s *Scanner) Cleanup(pid process.Pid) {
	s.commReader.Cleanup(pid)
	s.statReader.Cleanup(pid)
}

// OpenFileCount returns the number of per-Pid file handles currently held
// open across this scanner's readers.
func (s *Scanner) OpenFileCount() int {
	return s.commReader.OpenFileCount() + s.statReader.OpenFileCount()
}
