package hass

import "github.com/strikeworks/strike-core/internal/device"

// Wire payloads of the Home Assistant MQTT lock and binary_sensor
// platforms.
const (
	PayloadAvailable    = "online"
	PayloadNotAvailable = "offline"

	PayloadLock   = "LOCK"
	PayloadUnlock = "UNLOCK"

	StateLocked   = "LOCKED"
	StateUnlocked = "UNLOCKED"

	// Door binary sensor: ON means open (problem state for device_class
	// "door").
	StateOn  = "ON"
	StateOff = "OFF"
)

// LockStatePayload maps a lock state onto its wire payload.
func LockStatePayload(s device.LockState) string {
	if s == device.Unlocked {
		return StateUnlocked
	}
	return StateLocked
}

// DoorStatePayload maps a door state onto its wire payload. ok is false
// for DoorUnknown, which is never published.
func DoorStatePayload(s device.DoorState) (payload string, ok bool) {
	switch s {
	case device.DoorOpen:
		return StateOn, true
	case device.DoorClosed:
		return StateOff, true
	default:
		return "", false
	}
}

// ParseLockCommand decodes an inbound command-topic payload. ok is false
// for anything other than the two defined commands.
func ParseLockCommand(payload []byte) (state device.LockState, ok bool) {
	switch string(payload) {
	case PayloadLock:
		return device.Locked, true
	case PayloadUnlock:
		return device.Unlocked, true
	default:
		return "", false
	}
}
