package device

// Config is the persisted device configuration, created by the setup flow
// and replaced only as a whole record. A device either has a complete
// Config or none at all; partial records are never surfaced.
//
// Persistence (encoding, checksumming, atomic replace) is owned by the
// store package.
type Config struct {
	// Identity
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`

	// Wireless network credentials
	WifiSSID string `json:"wifi_ssid"`
	WifiPass string `json:"-"`

	// Message-bus connection parameters
	MQTTHost string `json:"mqtt_host"`
	MQTTPort uint16 `json:"mqtt_port"`
	MQTTTLS  bool   `json:"mqtt_tls"`
	// MQTTTLSVerifyCert disables certificate validation when false.
	// Encrypted-but-unauthenticated transport is a supported mode for
	// brokers with self-signed certificates; do not silently upgrade.
	MQTTTLSVerifyCert bool   `json:"mqtt_tls_verify_cert"`
	MQTTUser          string `json:"mqtt_user"`
	MQTTPass          string `json:"-"`

	// ActiveLowTrigger selects lock polarity: when true, driving the
	// strike trigger low locks the door.
	ActiveLowTrigger bool `json:"active_low_trigger"`
}

// Complete reports whether every required field is present. An incomplete
// Config is never persisted.
func (c *Config) Complete() bool {
	if c == nil {
		return false
	}
	if c.DeviceID == "" || c.DeviceName == "" {
		return false
	}
	if c.WifiSSID == "" || c.WifiPass == "" {
		return false
	}
	if c.MQTTHost == "" || c.MQTTPort == 0 {
		return false
	}
	return true
}
