package hass

import "fmt"

// Topic scheme for one device instance:
//
//	doorctl/{device_id}/avail        availability (retained, LWT offline)
//	doorctl/{device_id}/lock/state   lock state (retained)
//	doorctl/{device_id}/lock/cmd     lock commands (subscribed)
//	doorctl/{device_id}/reed/state   door sensor state (retained)
//
// The discovery descriptor is published under the hub's device discovery
// prefix.
const (
	// TopicPrefix is the base for all device topics.
	TopicPrefix = "doorctl"

	// DiscoveryPrefix is the hub's device-discovery base.
	DiscoveryPrefix = "homeassistant/device"
)

// Topics builds the topic set for a device. Using these helpers keeps the
// discovery descriptor and the session's publishes on identical strings.
type Topics struct {
	DeviceID string
}

// Availability returns the availability topic.
//
// Example: doorctl/a0b1c2d3e4f5/avail
func (t Topics) Availability() string {
	return fmt.Sprintf("%s/%s/avail", TopicPrefix, t.DeviceID)
}

// LockState returns the retained lock state topic.
//
// Example: doorctl/a0b1c2d3e4f5/lock/state
func (t Topics) LockState() string {
	return fmt.Sprintf("%s/%s/lock/state", TopicPrefix, t.DeviceID)
}

// LockCommand returns the command topic the device subscribes to.
//
// Example: doorctl/a0b1c2d3e4f5/lock/cmd
func (t Topics) LockCommand() string {
	return fmt.Sprintf("%s/%s/lock/cmd", TopicPrefix, t.DeviceID)
}

// SensorState returns the retained door-sensor state topic.
//
// Example: doorctl/a0b1c2d3e4f5/reed/state
func (t Topics) SensorState() string {
	return fmt.Sprintf("%s/%s/reed/state", TopicPrefix, t.DeviceID)
}

// Discovery returns the retained discovery descriptor topic.
//
// Example: homeassistant/device/a0b1c2d3e4f5/config
func (t Topics) Discovery() string {
	return fmt.Sprintf("%s/%s/config", DiscoveryPrefix, t.DeviceID)
}
