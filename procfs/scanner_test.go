// Copyright (c) 2014 Square, Inc

package procfs

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/square/spv/core/clock"
	"github.com/square/spv/core/process"
)

func TestScanOnlyReturnsNumericDirs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"123", "456", "abc", "1ec", "1.2"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatalf("Mkdir(%s) error = %v", name, err)
		}
	}
	for _, name := range []string{"987", "46a"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
	}

	s := &Scanner{clock: clock.New(), procDir: dir}

	pids, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	want := []process.Pid{123, 456}
	if len(pids) != len(want) || pids[0] != want[0] || pids[1] != want[1] {
		t.Errorf("Scan() = %v, want %v", pids, want)
	}
}

func TestScanErrorsWhenDirUnreadable(t *testing.T) {
	s := &Scanner{clock: clock.New(), procDir: filepath.Join(t.TempDir(), "does-not-exist")}

	if _, err := s.Scan(); err == nil {
		t.Error("Scan() should fail when the proc dir cannot be read")
	}
}

func TestFetchMetadataUsesBootTimeAndStartTicks(t *testing.T) {
	dir := t.TempDir()
	pidDir := filepath.Join(dir, "123")
	if err := os.Mkdir(pidDir, 0o755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	statLine := "123 (test_cmd) S 1 123 123 0 -1 4194304 0 0 0 0 0 0 0 0 20 0 1 0 1000 0 0 " +
		"0 0 0 0 0 0 0 0 0 0 0 0 0 17 0 0 0 0 0 0 0 0 0 0 0 0 0"
	if err := os.WriteFile(filepath.Join(pidDir, "stat"), []byte(statLine), 0o644); err != nil {
		t.Fatalf("WriteFile(stat) error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(pidDir, "comm"), []byte("test_cmd\n"), 0o644); err != nil {
		t.Fatalf("WriteFile(comm) error = %v", err)
	}

	clk := clock.NewWithSource(clock.SourceFunc(func() time.Time { return time.Unix(2_000_000, 0) }))
	boot := time.Unix(1_000_000, 0)

	s := &Scanner{
		clock:      clk,
		commReader: NewCommReader(),
		statReader: NewPidStatReader(),
		clockTicks: 100,
		bootTime:   boot,
	}
	s.commReader = NewProcessDataReader(func(pid process.Pid) string {
		return filepath.Join(dir, "123", "comm")
	}, parseComm)
	s.statReader = NewProcessDataReader(func(pid process.Pid) string {
		return filepath.Join(dir, "123", "stat")
	}, parsePidStat)

	md, err := s.FetchMetadata(123)
	if err != nil {
		t.Fatalf("FetchMetadata() error = %v", err)
	}
	if md.Command() != "test_cmd" {
		t.Errorf("Command() = %q, want test_cmd", md.Command())
	}

	wantSpawn := boot.Add(10 * time.Second)
	if !md.RunningSpan().Begin().Equal(wantSpawn) {
		t.Errorf("RunningSpan().Begin() = %v, want %v", md.RunningSpan().Begin(), wantSpawn)
	}
}
