// Copyright (c) 2014 Square, Inc

package trigger

import (
	"testing"
	"time"
)

func TestPulseWaitBlocksForRemainingPeriod(t *testing.T) {
	p := NewPulse(30 * time.Millisecond)

	start := time.Now()
	p.Wait()
	elapsed := time.Since(start)

	if elapsed < 25*time.Millisecond {
		t.Errorf("Wait() returned after %v, want at least ~30ms", elapsed)
	}
}

func TestPulseWaitDoesNotAccumulateDriftAfterALateTick(t *testing.T) {
	p := NewPulse(20 * time.Millisecond)
	p.lastTick = p.lastTick.Add(-100 * time.Millisecond) // simulate a tick arriving very late

	start := time.Now()
	p.Wait()
	elapsed := time.Since(start)

	if elapsed > 5*time.Millisecond {
		t.Errorf("Wait() after a late tick took %v, want it to return immediately", elapsed)
	}
}
