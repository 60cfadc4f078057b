package device

// LockState is the commanded strike state. It is authoritative and always
// known: the controller boots Locked, matching the fail-safe hardware
// default.
type LockState string

const (
	Locked   LockState = "locked"
	Unlocked LockState = "unlocked"
)

// DoorState is the sensed door position. Unknown only before the first
// debounced reading is available.
type DoorState string

const (
	DoorUnknown DoorState = "unknown"
	DoorOpen    DoorState = "open"
	DoorClosed  DoorState = "closed"
)

// ConnectivityState is the wireless interface state. SetupMode and the
// station states (Connecting/Connected/Disconnected) are mutually
// exclusive: the interface is never in both access-point and station
// roles at once.
type ConnectivityState string

const (
	ConnUninitialized ConnectivityState = "uninitialized"
	ConnSetupMode     ConnectivityState = "setup_mode"
	ConnConnecting    ConnectivityState = "connecting"
	ConnConnected     ConnectivityState = "connected"
	ConnDisconnected  ConnectivityState = "disconnected"
)

// SessionState is the message-bus connection state. SessionBackoff carries
// a retry attempt count alongside it in events (Event.Attempt).
type SessionState string

const (
	SessionIdle       SessionState = "idle"
	SessionConnecting SessionState = "connecting"
	SessionConnected  SessionState = "connected"
	SessionSubscribed SessionState = "subscribed"
	SessionBackoff    SessionState = "backoff"
)
