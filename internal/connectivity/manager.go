package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/strikeworks/strike-core/internal/device"
)

// Driver is the boundary to the wireless interface. Implementations own
// the radio; the manager owns the mode decision and retry policy.
type Driver interface {
	// StartAccessPoint brings the interface up as a local access point
	// with the given credentials.
	StartAccessPoint(ssid, password string) error

	// Connect attempts station association with the given credentials,
	// blocking until the link is up or the attempt fails. Cancelling ctx
	// abandons the attempt.
	Connect(ctx context.Context, ssid, password string) error

	// WaitDisconnect blocks until an established link drops or ctx is
	// cancelled. It returns nil on link loss and ctx.Err() on cancel.
	WaitDisconnect(ctx context.Context) error

	// Stop shuts the interface down in either role.
	Stop() error
}

// Logger defines the logging interface used by the Manager.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Default station retry policy.
const (
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 60 * time.Second
)

// Options configures the Manager's retry policy.
type Options struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Manager owns the wireless interface mode. The interface is either an
// access point (setup mode, terminal until reboot) or a station running a
// connect/retry loop, never both. The mode is chosen exactly once per
// boot by the orchestrator; factory reset and configuration submission
// switch modes by rebooting.
//
// Every state transition is emitted as an event.
type Manager struct {
	driver Driver
	sink   device.Sink
	opts   Options
	logger Logger

	mu      sync.Mutex
	state   device.ConnectivityState
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewManager creates a Manager in the Uninitialized state.
func NewManager(driver Driver, sink device.Sink, opts Options) *Manager {
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = defaultInitialDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = defaultMaxDelay
	}
	return &Manager{
		driver: driver,
		sink:   sink,
		opts:   opts,
		logger: noopLogger{},
		state:  device.ConnUninitialized,
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// State returns the current connectivity state.
func (m *Manager) State() device.ConnectivityState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// StartSetup brings the interface up as an access point. SetupMode is
// terminal: the only way back out is a reboot after configuration has
// been submitted.
func (m *Manager) StartSetup(ssid, password string) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.mu.Unlock()

	if err := m.driver.StartAccessPoint(ssid, password); err != nil {
		return err
	}

	m.setState(device.ConnSetupMode)
	m.logger.Info("setup access point started", "ssid", ssid)
	return nil
}

// StartStation begins the station connect/retry loop with the configured
// credentials. The loop retries failed associations on a capped
// exponential backoff indefinitely; nothing on this path is fatal while a
// configuration exists.
func (m *Manager) StartStation(ssid, password string) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.run(ctx, ssid, password)
	return nil
}

// Stop cancels any in-flight connect attempt or backoff timer and shuts
// the interface down. Used by factory reset before rebooting.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	if err := m.driver.Stop(); err != nil {
		m.logger.Warn("stopping wireless interface", "error", err)
	}
}

// run is the station connect loop.
func (m *Manager) run(ctx context.Context, ssid, password string) {
	defer close(m.done)

	attempt := 0
	for {
		if ctx.Err() != nil {
			return
		}

		m.setState(device.ConnConnecting)
		err := m.driver.Connect(ctx, ssid, password)
		if ctx.Err() != nil {
			return
		}

		if err != nil {
			m.setState(device.ConnDisconnected)
			delay := backoffDelay(m.opts.InitialDelay, m.opts.MaxDelay, attempt)
			attempt++
			m.logger.Warn("wireless association failed",
				"ssid", ssid,
				"attempt", attempt,
				"retry_in", delay,
				"error", err,
			)
			if !sleepCtx(ctx, delay) {
				return
			}
			continue
		}

		m.setState(device.ConnConnected)
		m.logger.Info("wireless associated", "ssid", ssid)
		attempt = 0

		if err := m.driver.WaitDisconnect(ctx); err != nil {
			// Cancelled; leave state alone for the reboot path.
			return
		}

		m.setState(device.ConnDisconnected)
		m.logger.Warn("wireless link lost", "ssid", ssid)
	}
}

// setState updates the state and emits an event when it changed.
func (m *Manager) setState(s device.ConnectivityState) {
	m.mu.Lock()
	changed := m.state != s
	m.state = s
	m.mu.Unlock()

	if changed {
		m.sink.Enqueue(device.Event{Kind: device.EventConnectivityChanged, Connectivity: s})
	}
}

// backoffDelay computes min(max, initial * 2^attempt) without overflow.
func backoffDelay(initial, max time.Duration, attempt int) time.Duration {
	delay := initial
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}

// sleepCtx waits for d, returning false if ctx was cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
