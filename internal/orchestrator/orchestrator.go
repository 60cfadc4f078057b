package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/strikeworks/strike-core/internal/button"
	"github.com/strikeworks/strike-core/internal/connectivity"
	"github.com/strikeworks/strike-core/internal/device"
	"github.com/strikeworks/strike-core/internal/indicator"
	"github.com/strikeworks/strike-core/internal/lock"
	"github.com/strikeworks/strike-core/internal/session"
)

// eraseRetries bounds the factory-reset erase attempts. The device
// reboots afterward either way: a reboot with a stale record is
// recoverable (reset can be pressed again), a device wedged mid-reset
// is not.
const eraseRetries = 3

// Store is the configuration persistence boundary. *store.Store
// satisfies it.
type Store interface {
	Load() (*device.Config, error)
	Save(cfg *device.Config) error
	Erase() error
}

// BusSession is the broker session lifecycle as the orchestrator drives
// it. *session.Session satisfies it.
type BusSession interface {
	Start() error
	Stop()
	PublishState(lock device.LockState, door device.DoorState) error
}

// SessionFactory builds the broker session once a device configuration
// is known. Events flow back through sink.
type SessionFactory func(cfg device.Config, sink device.Sink) (BusSession, error)

// ButtonInput is the boundary to the reset button.
type ButtonInput interface {
	Pressed() (bool, error)
}

// Rebooter performs the controlled reboot that ends factory reset and
// configuration submission. Production wiring restarts the process or
// power-cycles the board; tests record the call.
type Rebooter interface {
	Reboot()
}

// Logger defines the logging interface used by the Orchestrator.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures the Orchestrator.
type Options struct {
	// SetupSSID and SetupPass are the access-point credentials used
	// when no device configuration exists.
	SetupSSID string
	SetupPass string
}

// State is a snapshot of the orchestrator-owned device state.
type State struct {
	Lock         device.LockState
	Door         device.DoorState
	Connectivity device.ConnectivityState
	Session      device.SessionState
}

// Orchestrator is the single writer of device state. Every component
// pushes events onto one bounded queue; Run drains it strictly in order
// and applies each event to the owned sub-components. No business logic
// executes in sampling or network callbacks.
type Orchestrator struct {
	queue      *device.Queue
	store      Store
	lock       *lock.Controller
	button     *button.Monitor
	buttonIn   ButtonInput
	conn       *connectivity.Manager
	newSession SessionFactory
	indicator  *indicator.Indicator
	rebooter   Rebooter
	opts       Options
	logger     Logger

	session BusSession

	// state is read by GetState from other goroutines.
	stateMu sync.Mutex
	state   State
}

// New assembles an Orchestrator over already-constructed components.
// The queue passed here must be the sink the components were built with.
func New(
	queue *device.Queue,
	store Store,
	lockCtl *lock.Controller,
	btn *button.Monitor,
	buttonIn ButtonInput,
	conn *connectivity.Manager,
	newSession SessionFactory,
	ind *indicator.Indicator,
	rebooter Rebooter,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		queue:      queue,
		store:      store,
		lock:       lockCtl,
		button:     btn,
		buttonIn:   buttonIn,
		conn:       conn,
		newSession: newSession,
		indicator:  ind,
		rebooter:   rebooter,
		opts:       opts,
		logger:     noopLogger{},
		state: State{
			Lock:         device.Locked,
			Door:         device.DoorUnknown,
			Connectivity: device.ConnUninitialized,
			Session:      device.SessionIdle,
		},
	}
}

// SetLogger sets the logger for the orchestrator.
func (o *Orchestrator) SetLogger(logger Logger) {
	o.logger = logger
}

// Start decides the boot mode. An absent configuration brings the
// device up as a setup access point; a present one starts the station
// connect loop and prepares the broker session. The session itself is
// started only once connectivity reports Connected.
func (o *Orchestrator) Start() error {
	cfg, err := o.store.Load()
	if err != nil {
		return err
	}

	if cfg == nil {
		o.logger.Info("no device configuration, entering setup mode",
			"ssid", o.opts.SetupSSID,
		)
		return o.conn.StartSetup(o.opts.SetupSSID, o.opts.SetupPass)
	}

	sess, err := o.newSession(*cfg, o.queue)
	if err != nil {
		return err
	}
	o.session = sess

	o.logger.Info("device configuration loaded",
		"device_id", cfg.DeviceID,
		"device_name", cfg.DeviceName,
	)
	return o.conn.StartStation(cfg.WifiSSID, cfg.WifiPass)
}

// Run drains the event queue until ctx is cancelled or an event forces a
// reboot (factory reset, configuration submission). Events queued behind
// a reboot are deliberately discarded; the device comes back with a
// clean slate.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			o.shutdown()
			return ctx.Err()
		case e := <-o.queue.Events():
			if rebooted := o.handle(e); rebooted {
				return nil
			}
		}
	}
}

// RunSampler polls the hardware inputs on the given interval until ctx
// is cancelled. Sampling only enqueues events; all decisions happen on
// the Run goroutine.
func (o *Orchestrator) RunSampler(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			o.Tick(now)
		}
	}
}

// Tick samples the door sensor and reset button once.
func (o *Orchestrator) Tick(now time.Time) {
	o.lock.Tick(now)

	pressed, err := o.buttonIn.Pressed()
	if err != nil {
		o.logger.Warn("reset button read failed", "error", err)
		return
	}
	o.button.Tick(pressed, now)
}

// GetState returns a snapshot of the device state. Safe to call from
// any goroutine.
func (o *Orchestrator) GetState() State {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()
	return o.state
}

// SetLock enqueues a lock command from the local command surface. It
// returns false if the queue was full and the command dropped.
func (o *Orchestrator) SetLock(state device.LockState) bool {
	return o.queue.Enqueue(device.Event{Kind: device.EventExternalLockCommand, Lock: state})
}

// SubmitConfig enqueues a candidate device configuration from the setup
// flow. Validation happens on the Run goroutine.
func (o *Orchestrator) SubmitConfig(cfg device.Config) bool {
	return o.queue.Enqueue(device.Event{Kind: device.EventExternalConfigSubmitted, Config: &cfg})
}

// FactoryReset enqueues a factory-reset request.
func (o *Orchestrator) FactoryReset() bool {
	return o.queue.Enqueue(device.Event{Kind: device.EventFactoryResetRequested})
}

// handle applies one event. It returns true when the event ended in a
// reboot and the drain loop must stop.
func (o *Orchestrator) handle(e device.Event) bool {
	switch e.Kind {
	case device.EventLockChanged:
		o.setLockState(e.Lock)
		o.publishState()

	case device.EventDoorChanged:
		o.setDoorState(e.Door)
		o.publishState()

	case device.EventLockCommand, device.EventExternalLockCommand:
		if err := o.lock.SetLock(e.Lock); err != nil {
			o.logger.Error("lock command failed", "state", e.Lock, "error", err)
		}

	case device.EventConnectivityChanged:
		o.handleConnectivity(e.Connectivity)

	case device.EventSessionChanged:
		o.setSessionState(e.Session)
		o.updateIndicator()

	case device.EventFactoryResetRequested:
		o.factoryReset()
		return true

	case device.EventExternalConfigSubmitted:
		return o.applyConfig(e.Config)

	default:
		o.logger.Warn("unhandled event", "kind", e.Kind)
	}
	return false
}

// handleConnectivity starts and stops the broker session as the
// wireless link comes and goes.
func (o *Orchestrator) handleConnectivity(state device.ConnectivityState) {
	o.setConnectivityState(state)

	switch state {
	case device.ConnConnected:
		if o.session != nil {
			if err := o.session.Start(); err != nil && !errors.Is(err, session.ErrAlreadyStarted) {
				o.logger.Error("broker session start failed", "error", err)
			}
		}
	case device.ConnDisconnected:
		if o.session != nil {
			o.session.Stop()
			o.setSessionState(device.SessionIdle)
		}
	}

	o.updateIndicator()
}

// publishState forwards lock and door state to the session. The session
// records it even while not subscribed so a later reconnect announces
// the latest values.
func (o *Orchestrator) publishState() {
	if o.session == nil {
		return
	}
	st := o.GetState()
	if err := o.session.PublishState(st.Lock, st.Door); err != nil {
		o.logger.Warn("state publish failed", "error", err)
	}
}

// factoryReset stops the network layers, erases the configuration with
// bounded retries, and reboots. The reboot happens even when every
// erase attempt failed: the device must never sit in a half-reset
// limbo, and a surviving record just means reset can be pressed again.
func (o *Orchestrator) factoryReset() {
	o.logger.Info("factory reset requested")

	if o.session != nil {
		o.session.Stop()
	}
	o.conn.Stop()

	var err error
	for i := 0; i < eraseRetries; i++ {
		if err = o.store.Erase(); err == nil {
			break
		}
		o.logger.Warn("configuration erase failed", "attempt", i+1, "error", err)
	}
	if err != nil {
		o.logger.Error("configuration erase exhausted retries, rebooting anyway", "error", err)
	}

	o.logger.Info("rebooting after factory reset")
	o.rebooter.Reboot()
}

// applyConfig validates and persists a submitted configuration, then
// reboots into station mode. Rejected or unpersistable submissions
// leave the device in setup mode for another attempt.
func (o *Orchestrator) applyConfig(cfg *device.Config) bool {
	if cfg == nil || !cfg.Complete() {
		o.logger.Error("rejected incomplete configuration submission")
		return false
	}

	if err := o.store.Save(cfg); err != nil {
		o.logger.Error("configuration save failed", "error", err)
		return false
	}

	o.logger.Info("configuration saved, rebooting",
		"device_id", cfg.DeviceID,
		"device_name", cfg.DeviceName,
	)

	if o.session != nil {
		o.session.Stop()
	}
	o.conn.Stop()
	o.rebooter.Reboot()
	return true
}

// shutdown is the graceful exit path on context cancellation.
func (o *Orchestrator) shutdown() {
	if o.session != nil {
		o.session.Stop()
	}
	o.conn.Stop()
}

func (o *Orchestrator) setLockState(s device.LockState) {
	o.stateMu.Lock()
	o.state.Lock = s
	o.stateMu.Unlock()
}

func (o *Orchestrator) setDoorState(s device.DoorState) {
	o.stateMu.Lock()
	o.state.Door = s
	o.stateMu.Unlock()
}

func (o *Orchestrator) setConnectivityState(s device.ConnectivityState) {
	o.stateMu.Lock()
	o.state.Connectivity = s
	o.stateMu.Unlock()
}

func (o *Orchestrator) setSessionState(s device.SessionState) {
	o.stateMu.Lock()
	o.state.Session = s
	o.stateMu.Unlock()
}

func (o *Orchestrator) updateIndicator() {
	st := o.GetState()
	o.indicator.Update(st.Connectivity, st.Session)
}
