package button

import (
	"sync"
	"time"

	"github.com/strikeworks/strike-core/internal/device"
)

// defaultHold is the press duration that triggers a factory reset.
const defaultHold = 5 * time.Second

// Monitor converts a sustained reset-button press into a single
// factory-reset event.
//
// Accumulation uses elapsed wall time between samples, not call count, so
// an irregular sampling rate does not change the trigger timing. Crossing
// the threshold emits exactly one event; holding longer emits nothing
// further until the button is released and pressed again.
type Monitor struct {
	sink device.Sink
	hold time.Duration

	mu       sync.Mutex
	pressing bool
	since    time.Time
	fired    bool
}

// NewMonitor creates a Monitor emitting to sink. A hold of zero selects
// the 5 second default.
func NewMonitor(sink device.Sink, hold time.Duration) *Monitor {
	if hold <= 0 {
		hold = defaultHold
	}
	return &Monitor{
		sink: sink,
		hold: hold,
	}
}

// Tick feeds one raw button sample. pressed is the current signal level,
// now the sample time.
func (m *Monitor) Tick(pressed bool, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !pressed {
		// Release resets accumulation and re-arms after a fired press.
		m.pressing = false
		m.fired = false
		return
	}

	if !m.pressing {
		m.pressing = true
		m.since = now
		return
	}

	if m.fired || now.Sub(m.since) < m.hold {
		return
	}

	m.fired = true
	m.sink.Enqueue(device.Event{Kind: device.EventFactoryResetRequested})
}

// Pressing reports whether a press is currently being accumulated, and
// for how long.
func (m *Monitor) Pressing() (bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.pressing {
		return false, 0
	}
	return true, time.Since(m.since)
}
