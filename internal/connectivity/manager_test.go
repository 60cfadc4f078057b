package connectivity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/strikeworks/strike-core/internal/device"
)

// fakeDriver scripts association outcomes. Each Connect consumes one
// entry from results; nil means success.
type fakeDriver struct {
	mu       sync.Mutex
	results  []error
	attempts int
	apSSID   string
	stopped  bool

	// linkDrop is closed by the test to simulate link loss.
	linkDrop chan struct{}
}

func newFakeDriver(results ...error) *fakeDriver {
	return &fakeDriver{
		results:  results,
		linkDrop: make(chan struct{}),
	}
}

func (d *fakeDriver) StartAccessPoint(ssid, password string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.apSSID = ssid
	return nil
}

func (d *fakeDriver) Connect(ctx context.Context, ssid, password string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.attempts < len(d.results) {
		err := d.results[d.attempts]
		d.attempts++
		return err
	}
	d.attempts++
	return nil
}

func (d *fakeDriver) WaitDisconnect(ctx context.Context) error {
	d.mu.Lock()
	drop := d.linkDrop
	d.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-drop:
		return nil
	}
}

// dropLink simulates link loss and re-arms for the next wait.
func (d *fakeDriver) dropLink() {
	d.mu.Lock()
	defer d.mu.Unlock()
	close(d.linkDrop)
	d.linkDrop = make(chan struct{})
}

func (d *fakeDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	return nil
}

func (d *fakeDriver) connectAttempts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attempts
}

// waitForState polls the event queue until the wanted connectivity state
// arrives or the deadline passes.
func waitForState(t *testing.T, q *device.Queue, want device.ConnectivityState) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-q.Events():
			if e.Kind == device.EventConnectivityChanged && e.Connectivity == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for connectivity state %v", want)
		}
	}
}

func TestStartSetup(t *testing.T) {
	d := newFakeDriver()
	q := device.NewQueue(16)
	m := NewManager(d, q, Options{})

	if err := m.StartSetup("DoorControl", "new_door_control"); err != nil {
		t.Fatalf("StartSetup() error = %v", err)
	}

	if m.State() != device.ConnSetupMode {
		t.Errorf("State() = %v, want SetupMode", m.State())
	}
	if d.apSSID != "DoorControl" {
		t.Errorf("access point ssid = %q", d.apSSID)
	}
	waitForState(t, q, device.ConnSetupMode)
}

func TestModeIsExclusive(t *testing.T) {
	d := newFakeDriver()
	q := device.NewQueue(16)
	m := NewManager(d, q, Options{})

	if err := m.StartSetup("DoorControl", "new_door_control"); err != nil {
		t.Fatalf("StartSetup() error = %v", err)
	}

	if err := m.StartStation("homenet", "pass"); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("StartStation() after StartSetup error = %v, want ErrAlreadyStarted", err)
	}
}

func TestStationConnects(t *testing.T) {
	d := newFakeDriver(nil)
	q := device.NewQueue(16)
	m := NewManager(d, q, Options{InitialDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond})

	if err := m.StartStation("homenet", "pass"); err != nil {
		t.Fatalf("StartStation() error = %v", err)
	}
	defer m.Stop()

	waitForState(t, q, device.ConnConnecting)
	waitForState(t, q, device.ConnConnected)
}

func TestStationRetriesAfterFailure(t *testing.T) {
	d := newFakeDriver(errors.New("no ap"), errors.New("auth failed"), nil)
	q := device.NewQueue(32)
	m := NewManager(d, q, Options{InitialDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond})

	if err := m.StartStation("homenet", "pass"); err != nil {
		t.Fatalf("StartStation() error = %v", err)
	}
	defer m.Stop()

	waitForState(t, q, device.ConnDisconnected)
	waitForState(t, q, device.ConnConnected)

	if got := d.connectAttempts(); got != 3 {
		t.Errorf("connect attempts = %d, want 3", got)
	}
}

func TestLinkLossReentersConnectCycle(t *testing.T) {
	d := newFakeDriver(nil)
	q := device.NewQueue(32)
	m := NewManager(d, q, Options{InitialDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond})

	if err := m.StartStation("homenet", "pass"); err != nil {
		t.Fatalf("StartStation() error = %v", err)
	}
	defer m.Stop()

	waitForState(t, q, device.ConnConnected)

	d.dropLink()

	waitForState(t, q, device.ConnDisconnected)
	waitForState(t, q, device.ConnConnected)
}

func TestStopCancelsLoop(t *testing.T) {
	// Driver that always fails keeps the loop in backoff.
	d := newFakeDriver(
		errors.New("x"), errors.New("x"), errors.New("x"), errors.New("x"),
		errors.New("x"), errors.New("x"), errors.New("x"), errors.New("x"),
	)
	q := device.NewQueue(64)
	m := NewManager(d, q, Options{InitialDelay: 10 * time.Millisecond, MaxDelay: 100 * time.Millisecond})

	if err := m.StartStation("homenet", "pass"); err != nil {
		t.Fatalf("StartStation() error = %v", err)
	}
	waitForState(t, q, device.ConnDisconnected)

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return")
	}

	if !d.stopped {
		t.Error("driver was not stopped")
	}
}

func TestBackoffDelay(t *testing.T) {
	base := time.Second
	max := 60 * time.Second

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: time.Second},
		{attempt: 1, want: 2 * time.Second},
		{attempt: 2, want: 4 * time.Second},
		{attempt: 5, want: 32 * time.Second},
		{attempt: 6, want: 60 * time.Second},
		{attempt: 20, want: 60 * time.Second},
		{attempt: 100, want: 60 * time.Second},
	}

	for _, tt := range tests {
		if got := backoffDelay(base, max, tt.attempt); got != tt.want {
			t.Errorf("backoffDelay(attempt=%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
