package session

import (
	"context"
	"sync"
	"time"

	"github.com/strikeworks/strike-core/internal/device"
	"github.com/strikeworks/strike-core/internal/hass"
	"github.com/strikeworks/strike-core/internal/infrastructure/mqtt"
)

// Broker is the transport boundary. *mqtt.Client satisfies it; tests use
// a fake.
type Broker interface {
	Connect(ctx context.Context) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Close() error
	SetOnDisconnect(callback func(err error))
}

// Logger defines the logging interface used by the Session.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Default session retry policy.
const (
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 60 * time.Second
	defaultQoS          = 1
)

// Options configures the Session.
type Options struct {
	// QoS is the delivery level for all session publishes and the
	// command subscription.
	QoS byte

	// InitialDelay and MaxDelay bound the reconnect backoff:
	// delay = min(MaxDelay, InitialDelay << attempt).
	InitialDelay time.Duration
	MaxDelay     time.Duration

	// Version is the firmware version reported in the discovery origin
	// block.
	Version string
}

// Session owns the broker connection lifecycle. Once started it cycles
// Connecting -> Connected -> Subscribed, falling back to Backoff(n) on any
// failure and redialing indefinitely; the attempt counter resets when the
// command subscription lands. A transport drop after a successful cycle
// re-enters the loop at Backoff(0).
//
// The orchestrator starts the session only while wireless connectivity is
// up and stops it when the link is lost; the session itself never inspects
// connectivity.
//
// Every state transition is emitted as an event.
type Session struct {
	broker    Broker
	topics    hass.Topics
	discovery []byte
	sink      device.Sink
	opts      Options
	logger    Logger

	// drop receives transport-loss notifications from the broker
	// callback. Buffered so the callback never blocks.
	drop chan struct{}

	mu      sync.Mutex
	state   device.SessionState
	attempt int
	lock    device.LockState
	door    device.DoorState
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a Session for the provisioned device. The discovery
// descriptor is built once up front; a marshal failure is a programming
// error surfaced immediately.
func New(broker Broker, cfg device.Config, sink device.Sink, opts Options) (*Session, error) {
	if opts.QoS == 0 {
		opts.QoS = defaultQoS
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = defaultInitialDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = defaultMaxDelay
	}

	descriptor := hass.NewDiscovery(cfg.DeviceID, cfg.DeviceName, opts.Version, int(opts.QoS))
	payload, err := descriptor.JSON()
	if err != nil {
		return nil, err
	}

	return &Session{
		broker:    broker,
		topics:    hass.Topics{DeviceID: cfg.DeviceID},
		discovery: payload,
		sink:      sink,
		opts:      opts,
		logger:    noopLogger{},
		drop:      make(chan struct{}, 1),
		state:     device.SessionIdle,
		lock:      device.Locked,
		door:      device.DoorUnknown,
	}, nil
}

// SetLogger sets the logger for the session.
func (s *Session) SetLogger(logger Logger) {
	s.logger = logger
}

// State returns the current session state.
func (s *Session) State() device.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins the connect loop. It returns ErrAlreadyStarted if the loop
// is already running; a stopped session may be started again.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	s.broker.SetOnDisconnect(func(err error) {
		s.logger.Warn("broker connection lost", "error", err)
		select {
		case s.drop <- struct{}{}:
		default:
		}
	})

	go func() {
		defer close(done)
		s.run(ctx)
	}()

	return nil
}

// Stop cancels the connect loop, closes the broker connection, and waits
// for the loop to exit. The session returns to Idle and may be started
// again.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	s.setState(device.SessionIdle, 0)
}

// PublishState records the latest lock and door state and, while
// Subscribed, publishes them retained. The recorded state is also what a
// later reconnect publishes, so callers invoke this on every change
// regardless of session state.
//
// An unknown door state is never published.
func (s *Session) PublishState(lock device.LockState, door device.DoorState) error {
	s.mu.Lock()
	s.lock = lock
	s.door = door
	subscribed := s.state == device.SessionSubscribed
	s.mu.Unlock()

	if !subscribed {
		return nil
	}
	return s.publishCurrentState()
}

// run is the connect loop. It exits only on context cancellation.
func (s *Session) run(ctx context.Context) {
	attempt := 0
	for {
		if ctx.Err() != nil {
			s.broker.Close()
			return
		}

		// Discard any drop notification left over from a previous
		// connection so it cannot bounce the new one.
		select {
		case <-s.drop:
		default:
		}

		s.setState(device.SessionConnecting, attempt)

		if err := s.establish(ctx); err != nil {
			if ctx.Err() != nil {
				s.broker.Close()
				return
			}
			// Reset the half-open connection before redialing.
			s.broker.Close()

			delay := backoffDelay(s.opts.InitialDelay, s.opts.MaxDelay, attempt)
			s.setState(device.SessionBackoff, attempt)
			s.logger.Warn("broker session failed",
				"attempt", attempt,
				"retry_in", delay,
				"error", err,
			)
			attempt++
			if !sleepCtx(ctx, delay) {
				return
			}
			continue
		}

		attempt = 0
		s.logger.Info("broker session established")

		select {
		case <-ctx.Done():
			s.broker.Close()
			return
		case <-s.drop:
			s.setState(device.SessionBackoff, 0)
			if !sleepCtx(ctx, s.opts.InitialDelay) {
				return
			}
		}
	}
}

// establish performs one full connect cycle: dial, announce, publish
// current state, subscribe for commands.
func (s *Session) establish(ctx context.Context) error {
	if err := s.broker.Connect(ctx); err != nil {
		return err
	}
	s.setState(device.SessionConnected, 0)

	if err := s.broker.Publish(s.topics.Discovery(), s.discovery, s.opts.QoS, true); err != nil {
		return err
	}
	if err := s.broker.Publish(s.topics.Availability(), []byte(hass.PayloadAvailable), s.opts.QoS, true); err != nil {
		return err
	}
	if err := s.publishCurrentState(); err != nil {
		return err
	}
	if err := s.broker.Subscribe(s.topics.LockCommand(), s.opts.QoS, s.handleCommand); err != nil {
		return err
	}

	s.setState(device.SessionSubscribed, 0)
	return nil
}

// publishCurrentState publishes the recorded lock and door state retained.
func (s *Session) publishCurrentState() error {
	s.mu.Lock()
	lock := s.lock
	door := s.door
	s.mu.Unlock()

	payload := hass.LockStatePayload(lock)
	if err := s.broker.Publish(s.topics.LockState(), []byte(payload), s.opts.QoS, true); err != nil {
		return err
	}

	if doorPayload, ok := hass.DoorStatePayload(door); ok {
		if err := s.broker.Publish(s.topics.SensorState(), []byte(doorPayload), s.opts.QoS, true); err != nil {
			return err
		}
	}
	return nil
}

// handleCommand decodes an inbound command-topic payload and forwards it
// to the orchestrator queue. Unknown payloads are logged and dropped.
func (s *Session) handleCommand(topic string, payload []byte) error {
	state, ok := hass.ParseLockCommand(payload)
	if !ok {
		s.logger.Warn("unknown command payload", "topic", topic, "payload", string(payload))
		return nil
	}

	if !s.sink.Enqueue(device.Event{Kind: device.EventLockCommand, Lock: state}) {
		s.logger.Warn("lock command dropped, queue full", "state", state)
	}
	return nil
}

// setState updates the state and emits an event when the state or the
// backoff attempt changed.
func (s *Session) setState(state device.SessionState, attempt int) {
	s.mu.Lock()
	if s.state == state && s.attempt == attempt {
		s.mu.Unlock()
		return
	}
	s.state = state
	s.attempt = attempt
	s.mu.Unlock()

	if !s.sink.Enqueue(device.Event{Kind: device.EventSessionChanged, Session: state, Attempt: attempt}) {
		s.logger.Warn("session event dropped, queue full", "state", state)
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
