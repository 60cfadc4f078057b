package button

import (
	"testing"
	"time"

	"github.com/strikeworks/strike-core/internal/device"
)

func countResetEvents(q *device.Queue) int {
	n := 0
	for {
		select {
		case e := <-q.Events():
			if e.Kind == device.EventFactoryResetRequested {
				n++
			}
		default:
			return n
		}
	}
}

func TestShortPressEmitsNothing(t *testing.T) {
	q := device.NewQueue(4)
	m := NewMonitor(q, 5*time.Second)
	now := time.Now()

	m.Tick(true, now)
	m.Tick(true, now.Add(2*time.Second))
	m.Tick(true, now.Add(4*time.Second))
	m.Tick(false, now.Add(4500*time.Millisecond))

	if n := countResetEvents(q); n != 0 {
		t.Errorf("short press emitted %d events, want 0", n)
	}
}

func TestThresholdEmitsExactlyOnce(t *testing.T) {
	q := device.NewQueue(4)
	m := NewMonitor(q, 5*time.Second)
	now := time.Now()

	m.Tick(true, now)
	m.Tick(true, now.Add(5*time.Second))

	if n := countResetEvents(q); n != 1 {
		t.Fatalf("threshold crossing emitted %d events, want 1", n)
	}

	// Continuing to hold emits no duplicates.
	m.Tick(true, now.Add(6*time.Second))
	m.Tick(true, now.Add(60*time.Second))

	if n := countResetEvents(q); n != 0 {
		t.Errorf("continued hold emitted %d events, want 0", n)
	}
}

func TestReleaseAfterFireHasNoEffect(t *testing.T) {
	q := device.NewQueue(4)
	m := NewMonitor(q, 5*time.Second)
	now := time.Now()

	m.Tick(true, now)
	m.Tick(true, now.Add(5*time.Second))
	countResetEvents(q)

	m.Tick(false, now.Add(7*time.Second))

	if n := countResetEvents(q); n != 0 {
		t.Errorf("release after fire emitted %d events, want 0", n)
	}
}

func TestRepressRearms(t *testing.T) {
	q := device.NewQueue(4)
	m := NewMonitor(q, 5*time.Second)
	now := time.Now()

	m.Tick(true, now)
	m.Tick(true, now.Add(5*time.Second))
	m.Tick(false, now.Add(6*time.Second))

	m.Tick(true, now.Add(10*time.Second))
	m.Tick(true, now.Add(15*time.Second))

	if n := countResetEvents(q); n != 2 {
		t.Errorf("two full presses emitted %d events, want 2", n)
	}
}

func TestReleaseResetsAccumulation(t *testing.T) {
	q := device.NewQueue(4)
	m := NewMonitor(q, 5*time.Second)
	now := time.Now()

	// Two 3-second presses separated by a release never accumulate to 5s.
	m.Tick(true, now)
	m.Tick(true, now.Add(3*time.Second))
	m.Tick(false, now.Add(3100*time.Millisecond))
	m.Tick(true, now.Add(4*time.Second))
	m.Tick(true, now.Add(7*time.Second))

	if n := countResetEvents(q); n != 0 {
		t.Errorf("interrupted presses emitted %d events, want 0", n)
	}
}

func TestIrregularSamplingUsesWallTime(t *testing.T) {
	q := device.NewQueue(4)
	m := NewMonitor(q, 5*time.Second)
	now := time.Now()

	// Only two samples, far apart: still fires on elapsed time.
	m.Tick(true, now)
	m.Tick(true, now.Add(9*time.Second))

	if n := countResetEvents(q); n != 1 {
		t.Errorf("sparse sampling emitted %d events, want 1", n)
	}
}

func TestDefaultHold(t *testing.T) {
	q := device.NewQueue(4)
	m := NewMonitor(q, 0)

	if m.hold != defaultHold {
		t.Errorf("hold = %v, want %v", m.hold, defaultHold)
	}
}
