package lock

import (
	"fmt"
	"sync"
	"time"

	"github.com/strikeworks/strike-core/internal/device"
)

// TriggerPin drives the strike trigger output. Implemented by the GPIO
// layer; level true means the pin is driven high.
type TriggerPin interface {
	Set(high bool) error
}

// DoorSensor reads the door-reed input. Closed reports true while the
// reed circuit is made, i.e. the door is physically closed.
type DoorSensor interface {
	Closed() (bool, error)
}

// Logger defines the logging interface used by the Controller.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// defaultDebounce is the door-sensor settle window used when none is
// configured.
const defaultDebounce = 50 * time.Millisecond

// Options configures a Controller.
type Options struct {
	// ActiveLowTrigger selects polarity: when true, the strike locks
	// with the trigger driven low.
	ActiveLowTrigger bool

	// DebounceInterval is how long a raw sensor reading must hold before
	// it is accepted as a real door transition.
	DebounceInterval time.Duration
}

// Controller owns the two hardware-facing door signals: the strike
// trigger output and the reed sensor input. It tracks the commanded lock
// state (authoritative, Locked at boot) and the debounced door state
// (Unknown until the first reading settles).
//
// Sampling is driven externally through Tick; reads never block.
//
// Thread Safety:
//   - All methods are safe for concurrent use. Tick runs on the sampling
//     timer while SetLock arrives from the orchestrator.
type Controller struct {
	trigger TriggerPin
	sensor  DoorSensor
	sink    device.Sink
	opts    Options
	logger  Logger

	mu   sync.Mutex
	lock device.LockState
	door device.DoorState

	// Raw-sample debounce tracking.
	pendingRaw   bool
	pendingSince time.Time
	havePending  bool
}

// New creates a Controller and drives the trigger to the fail-safe Locked
// state. Accepted door transitions and every SetLock call are emitted to
// sink for the orchestrator to publish.
func New(trigger TriggerPin, sensor DoorSensor, sink device.Sink, opts Options) (*Controller, error) {
	if opts.DebounceInterval <= 0 {
		opts.DebounceInterval = defaultDebounce
	}

	c := &Controller{
		trigger: trigger,
		sensor:  sensor,
		sink:    sink,
		opts:    opts,
		logger:  noopLogger{},
		lock:    device.Locked,
		door:    device.DoorUnknown,
	}

	if err := trigger.Set(c.levelFor(device.Locked)); err != nil {
		return nil, fmt.Errorf("driving trigger to locked: %w", err)
	}

	return c, nil
}

// SetLogger sets the logger for the controller.
func (c *Controller) SetLogger(logger Logger) {
	c.logger = logger
}

// SetLock drives the strike trigger to the requested state. The call is
// idempotent: repeating a state re-asserts the signal but has no further
// hardware effect. Every call emits a lock-changed event.
func (c *Controller) SetLock(state device.LockState) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.trigger.Set(c.levelFor(state)); err != nil {
		return fmt.Errorf("driving trigger to %s: %w", state, err)
	}
	c.lock = state

	c.sink.Enqueue(device.Event{Kind: device.EventLockChanged, Lock: state})
	return nil
}

// Lock returns the commanded lock state.
func (c *Controller) Lock() device.LockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lock
}

// Door returns the last debounced door state. Never blocks.
func (c *Controller) Door() device.DoorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.door
}

// Tick samples the door sensor. A raw transition is accepted only after
// holding stable for the full debounce interval; contact bounce shorter
// than the window never surfaces. The first settled reading replaces
// DoorUnknown.
func (c *Controller) Tick(now time.Time) {
	raw, err := c.sensor.Closed()
	if err != nil {
		c.logger.Warn("door sensor read failed", "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.havePending || raw != c.pendingRaw {
		c.pendingRaw = raw
		c.pendingSince = now
		c.havePending = true
		return
	}

	if now.Sub(c.pendingSince) < c.opts.DebounceInterval {
		return
	}

	settled := device.DoorClosed
	if !raw {
		settled = device.DoorOpen
	}
	if settled == c.door {
		return
	}

	c.door = settled
	c.logger.Debug("door state settled", "door", settled)
	c.sink.Enqueue(device.Event{Kind: device.EventDoorChanged, Door: settled})
}

// levelFor maps a lock state onto a trigger level according to polarity.
func (c *Controller) levelFor(state device.LockState) bool {
	locked := state == device.Locked
	if c.opts.ActiveLowTrigger {
		return !locked
	}
	return locked
}
