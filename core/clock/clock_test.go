// Copyright (c) 2014 Square, Inc

package clock

import (
	"testing"
	"time"
)

// fakeSource is a manually-advanced Source used to make iteration timing
// deterministic in tests.
type fakeSource struct {
	now time.Time
}

func (f *fakeSource) Now() time.Time { return f.now }

func (f *fakeSource) advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestClock() (*Clock, *fakeSource) {
	src := &fakeSource{now: time.Unix(1_000_000, 0)}
	return NewWithSource(src), src
}

func TestNowIsStableWithinOneIteration(t *testing.T) {
	c, src := newTestClock()
	t1 := c.Now()
	src.advance(time.Second)
	t2 := c.Now()

	if !t1.Equal(t2) {
		t.Errorf("Now() changed without a Refresh(): %v != %v", t1, t2)
	}
}

func TestRefreshAdvancesNow(t *testing.T) {
	c, src := newTestClock()
	t1 := c.Now()
	src.advance(time.Second)
	c.Refresh()
	t2 := c.Now()

	if !t2.After(t1) {
		t.Errorf("Now() did not advance after Refresh(): %v -> %v", t1, t2)
	}
}

func TestInitialNeverChanges(t *testing.T) {
	c, src := newTestClock()
	initial := c.Initial()
	src.advance(10 * time.Second)
	c.Refresh()

	if !c.Initial().Equal(initial) {
		t.Errorf("Initial() changed after Refresh(): %v != %v", c.Initial(), initial)
	}
}
