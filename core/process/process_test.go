// Copyright (c) 2014 Square, Inc

package process

import (
	"errors"
	"testing"
	"time"

	"github.com/square/spv/core/clock"
)

type fakeSource struct{ now time.Time }

func (f *fakeSource) Now() time.Time         { return f.now }
func (f *fakeSource) advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestClock() (*clock.Clock, *fakeSource) {
	src := &fakeSource{now: time.Unix(1_000_000, 0)}
	return clock.NewWithSource(src), src
}

type scannerStub struct {
	scanCount  int
	sequence   [][]Pid
	failing    map[Pid]bool
	clk        *clock.Clock
}

func newScannerStub(pids []Pid) *scannerStub {
	return &scannerStub{sequence: [][]Pid{pids}}
}

func newScannerStubWithFailures(pids []Pid, failing []Pid) *scannerStub {
	f := make(map[Pid]bool, len(failing))
	for _, p := range failing {
		f[p] = true
	}
	return &scannerStub{sequence: [][]Pid{pids}, failing: f}
}

func (s *scannerStub) pushNext(pids []Pid) {
	s.sequence = append(s.sequence, pids)
}

func (s *scannerStub) Scan() ([]Pid, error) {
	pids := s.sequence[s.scanCount]
	s.scanCount++
	return pids, nil
}

func (s *scannerStub) FetchMetadata(pid Pid) (Metadata, error) {
	if s.failing[pid] {
		return Metadata{}, errors.New("invalid pid")
	}
	if s.clk != nil {
		return NewMetadata(s.clk, pid, "command", s.clk.Now()), nil
	}
	return Metadata{pid: pid, command: "command", status: Running}, nil
}

func TestCollectNoProcessesWhenNoneScanned(t *testing.T) {
	clk, _ := newTestClock()
	tr := NewTracker(clk, newScannerStub(nil))

	if err := tr.Collect(); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if got := tr.RunningProcesses(); len(got) != 0 {
		t.Errorf("RunningProcesses() = %v, want empty", got)
	}
}

func TestCollectRegistersScannedPids(t *testing.T) {
	clk, _ := newTestClock()
	tr := NewTracker(clk, newScannerStub([]Pid{1, 2, 3}))

	if err := tr.Collect(); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if got := len(tr.RunningProcesses()); got != 3 {
		t.Errorf("len(RunningProcesses()) = %d, want 3", got)
	}
}

func TestCollectIgnoresProcessesThatFailToFetch(t *testing.T) {
	clk, _ := newTestClock()
	tr := NewTracker(clk, newScannerStubWithFailures([]Pid{1, 2, 3}, []Pid{2}))

	if err := tr.Collect(); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	running := tr.RunningProcesses()
	if len(running) != 2 {
		t.Errorf("len(RunningProcesses()) = %d, want 2", len(running))
	}
	for _, pm := range running {
		if pm.Pid() == 2 {
			t.Error("pid 2 should have been skipped")
		}
	}
}

func TestNewlyCollectedProcessIsRunning(t *testing.T) {
	clk, _ := newTestClock()
	tr := NewTracker(clk, newScannerStub([]Pid{1}))

	if err := tr.Collect(); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if got := tr.RunningProcesses()[0].Status(); got != Running {
		t.Errorf("Status() = %v, want Running", got)
	}
}

func TestProcessIsMarkedDeadOnceItDisappears(t *testing.T) {
	clk, _ := newTestClock()
	scanner := newScannerStub([]Pid{3})
	scanner.pushNext(nil)
	tr := NewTracker(clk, scanner)

	if err := tr.Collect(); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if err := tr.Collect(); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	processes := tr.Processes()
	if len(processes) != 1 {
		t.Fatalf("len(Processes()) = %d, want 1", len(processes))
	}
	if got := processes[0].Status(); got != Dead {
		t.Errorf("Status() = %v, want Dead", got)
	}
}

func TestDeadProcessesAreNotRunning(t *testing.T) {
	clk, _ := newTestClock()
	scanner := newScannerStub([]Pid{3})
	scanner.pushNext(nil)
	tr := NewTracker(clk, scanner)

	tr.Collect()
	tr.Collect()

	if got := len(tr.RunningProcesses()); got != 0 {
		t.Errorf("len(RunningProcesses()) = %d, want 0", got)
	}
	if got := len(tr.Processes()); got != 1 {
		t.Errorf("len(Processes()) = %d, want 1", got)
	}
}

func TestRunningProcessesOnlyReturnsRunningOnes(t *testing.T) {
	clk, _ := newTestClock()
	scanner := newScannerStub([]Pid{1, 2, 3})
	scanner.pushNext([]Pid{1})
	tr := NewTracker(clk, scanner)

	tr.Collect()
	tr.Collect()

	running := tr.RunningProcesses()
	if len(running) != 1 {
		t.Fatalf("len(RunningProcesses()) = %d, want 1", len(running))
	}
	if running[0].Pid() != 1 {
		t.Errorf("Pid() = %d, want 1", running[0].Pid())
	}
}

func TestRunningPidsOnlyReturnsRunningOnes(t *testing.T) {
	clk, _ := newTestClock()
	scanner := newScannerStub([]Pid{1, 2, 3})
	scanner.pushNext([]Pid{1})
	tr := NewTracker(clk, scanner)

	tr.Collect()
	tr.Collect()

	pids := tr.RunningPids()
	if len(pids) != 1 || pids[0] != 1 {
		t.Errorf("RunningPids() = %v, want [1]", pids)
	}
}

func TestRunningSpanExtendsAcrossIterations(t *testing.T) {
	clk, src := newTestClock()
	scanner := newScannerStub([]Pid{1})
	scanner.pushNext([]Pid{1})
	scanner.clk = clk
	tr := NewTracker(clk, scanner)
	begin := clk.Now()

	tr.Collect()
	running := tr.RunningProcesses()[0]
	if !running.RunningSpan().Begin().Equal(begin) || !running.RunningSpan().End().Equal(begin) {
		t.Errorf("RunningSpan() = [%v,%v], want [%v,%v]",
			running.RunningSpan().Begin(), running.RunningSpan().End(), begin, begin)
	}

	src.advance(time.Second)
	clk.Refresh()

	tr.Collect()
	running = tr.RunningProcesses()[0]
	want := begin.Add(time.Second)
	if !running.RunningSpan().Begin().Equal(begin) || !running.RunningSpan().End().Equal(want) {
		t.Errorf("RunningSpan() = [%v,%v], want [%v,%v]",
			running.RunningSpan().Begin(), running.RunningSpan().End(), begin, want)
	}
}

func TestTrackingLimitTruncatesNewlyDiscoveredProcesses(t *testing.T) {
	clk, _ := newTestClock()
	tr := NewTracker(clk, newScannerStub([]Pid{1, 2, 3}))
	tr.SetMaxTrackedProcesses(2)

	if err := tr.Collect(); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if got := len(tr.Processes()); got != 2 {
		t.Errorf("len(Processes()) = %d, want 2", got)
	}
}

func TestTrackingLimitLeavesRoomForAlreadyTrackedProcesses(t *testing.T) {
	clk, _ := newTestClock()
	scanner := newScannerStub([]Pid{1, 2})
	scanner.pushNext([]Pid{1, 2, 3, 4})
	tr := NewTracker(clk, scanner)
	tr.SetMaxTrackedProcesses(3)

	tr.Collect()
	tr.Collect()

	if got := len(tr.Processes()); got != 3 {
		t.Errorf("len(Processes()) = %d, want 3 (2 already tracked + budget for 1 more)", got)
	}
}

func TestZeroTrackingLimitMeansUnbounded(t *testing.T) {
	clk, _ := newTestClock()
	tr := NewTracker(clk, newScannerStub([]Pid{1, 2, 3}))
	tr.SetMaxTrackedProcesses(0)

	tr.Collect()

	if got := len(tr.Processes()); got != 3 {
		t.Errorf("len(Processes()) = %d, want 3", got)
	}
}
