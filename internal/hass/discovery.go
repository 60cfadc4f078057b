package hass

import "encoding/json"

// Origin identification published with every discovery descriptor.
const (
	originName       = "strikectl"
	originSupportURL = "https://github.com/strikeworks/strike-core"

	availabilityMode = "latest"

	platformLock         = "lock"
	platformBinarySensor = "binary_sensor"
	deviceClassDoor      = "door"
)

// discoveryDevice is the "device" block of a discovery descriptor: how
// the hub groups the lock and door-sensor entities into one device.
type discoveryDevice struct {
	Identifiers []string `json:"identifiers"`
	Name        string   `json:"name"`
}

// discoveryOrigin identifies the publishing firmware.
type discoveryOrigin struct {
	Name       string `json:"name"`
	SWVersion  string `json:"sw_version"`
	SupportURL string `json:"support_url"`
}

// componentLock describes the lock entity.
type componentLock struct {
	UniqueID         string `json:"unique_id"`
	Platform         string `json:"platform"`
	Name             string `json:"name"`
	EnabledByDefault bool   `json:"enabled_by_default"`
	StateTopic       string `json:"state_topic"`
	CommandTopic     string `json:"command_topic"`
	PayloadLock      string `json:"payload_lock"`
	PayloadUnlock    string `json:"payload_unlock"`
	StateLocked      string `json:"state_locked"`
	StateUnlocked    string `json:"state_unlocked"`
	Optimistic       bool   `json:"optimistic"`
	Retain           bool   `json:"retain"`
}

// componentBinarySensor describes the door-reed entity.
type componentBinarySensor struct {
	UniqueID         string `json:"unique_id"`
	Platform         string `json:"platform"`
	DeviceClass      string `json:"device_class"`
	Name             string `json:"name"`
	EnabledByDefault bool   `json:"enabled_by_default"`
	StateTopic       string `json:"state_topic"`
	PayloadOn        string `json:"payload_on"`
	PayloadOff       string `json:"payload_off"`
	Optimistic       bool   `json:"optimistic"`
	Retain           bool   `json:"retain"`
}

type discoveryComponents struct {
	Lock componentLock         `json:"lock"`
	Reed componentBinarySensor `json:"reed"`
}

// Discovery is the device discovery descriptor, published retained once
// per session so a listening hub auto-registers the device without manual
// wiring.
type Discovery struct {
	Device            discoveryDevice     `json:"device"`
	Origin            discoveryOrigin     `json:"origin"`
	Components        discoveryComponents `json:"components"`
	AvailabilityTopic string              `json:"availability_topic"`
	AvailabilityMode  string              `json:"availability_mode"`
	QoS               int                 `json:"qos"`
}

// NewDiscovery builds the descriptor for a device. version is the
// firmware version reported in the origin block.
func NewDiscovery(deviceID, deviceName, version string, qos int) Discovery {
	t := Topics{DeviceID: deviceID}

	return Discovery{
		Device: discoveryDevice{
			Identifiers: []string{deviceID},
			Name:        deviceName,
		},
		Origin: discoveryOrigin{
			Name:       originName,
			SWVersion:  version,
			SupportURL: originSupportURL,
		},
		Components: discoveryComponents{
			Lock: componentLock{
				UniqueID:         deviceID + "_lock",
				Platform:         platformLock,
				Name:             "Lock",
				EnabledByDefault: true,
				StateTopic:       t.LockState(),
				CommandTopic:     t.LockCommand(),
				PayloadLock:      PayloadLock,
				PayloadUnlock:    PayloadUnlock,
				StateLocked:      StateLocked,
				StateUnlocked:    StateUnlocked,
			},
			Reed: componentBinarySensor{
				UniqueID:         deviceID + "_door",
				Platform:         platformBinarySensor,
				DeviceClass:      deviceClassDoor,
				Name:             "Door",
				EnabledByDefault: true,
				StateTopic:       t.SensorState(),
				PayloadOn:        StateOn,
				PayloadOff:       StateOff,
			},
		},
		AvailabilityTopic: t.Availability(),
		AvailabilityMode:  availabilityMode,
		QoS:               qos,
	}
}

// JSON serialises the descriptor for publishing.
func (d Discovery) JSON() ([]byte, error) {
	return json.Marshal(d)
}
