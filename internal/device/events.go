package device

// EventKind identifies the source and meaning of an Event.
type EventKind string

const (
	// EventDoorChanged is emitted by the lock controller when a debounced
	// door-sensor transition is accepted.
	EventDoorChanged EventKind = "door_changed"

	// EventLockChanged is emitted by the lock controller whenever the
	// strike trigger is driven.
	EventLockChanged EventKind = "lock_changed"

	// EventFactoryResetRequested is emitted by the button monitor once
	// per sustained reset-button press.
	EventFactoryResetRequested EventKind = "factory_reset_requested"

	// EventConnectivityChanged is emitted by the connectivity manager on
	// every wireless state transition.
	EventConnectivityChanged EventKind = "connectivity_changed"

	// EventSessionChanged is emitted by the message-bus session on every
	// connection state transition.
	EventSessionChanged EventKind = "session_changed"

	// EventLockCommand is emitted by the message-bus session when a
	// lock/unlock command arrives on the command topic.
	EventLockCommand EventKind = "lock_command"

	// EventExternalLockCommand is enqueued by the web layer's command
	// surface.
	EventExternalLockCommand EventKind = "external_lock_command"

	// EventExternalConfigSubmitted is enqueued by the setup web flow with
	// a candidate device configuration.
	EventExternalConfigSubmitted EventKind = "external_config_submitted"
)

// Event is a single entry on the orchestrator queue. Only the fields
// relevant to its Kind are populated.
type Event struct {
	Kind EventKind

	Door         DoorState
	Lock         LockState
	Connectivity ConnectivityState
	Session      SessionState

	// Attempt is the retry attempt count accompanying SessionBackoff.
	Attempt int

	// Config accompanies EventExternalConfigSubmitted.
	Config *Config
}

// Sink accepts events from hardware, timer, and network contexts. Enqueue
// must never block; it reports false when the event was dropped.
type Sink interface {
	Enqueue(Event) bool
}
