package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root bootstrap configuration for the strike controller.
//
// This covers everything the process needs before a device configuration
// exists: storage location, hardware timings, setup access-point identity,
// retry policy, and logging. The device configuration itself (network
// credentials, broker, identity, polarity) is persisted separately by the
// store package and created through the setup flow.
//
// All configuration is loaded from YAML and can be overridden by
// environment variables.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Setup    SetupConfig    `yaml:"setup"`
	Hardware HardwareConfig `yaml:"hardware"`
	Wireless WirelessConfig `yaml:"wireless"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Queue    QueueConfig    `yaml:"queue"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig contains settings for the persisted configuration store.
type StorageConfig struct {
	// Path is the location of the key-value store file backing the
	// device configuration record.
	Path string `yaml:"path"`
}

// SetupConfig contains the access point identity used in setup mode.
//
// When no device configuration exists the controller brings up its own
// wireless network with these credentials so an operator can submit the
// initial configuration.
type SetupConfig struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`
}

// HardwareConfig contains timings for hardware signal handling.
type HardwareConfig struct {
	// DebounceMillis is the settle window for the door-reed sensor.
	// Raw transitions shorter than this never change the door state.
	DebounceMillis int `yaml:"debounce_millis"`

	// SampleMillis is the period of the hardware sampling tick.
	SampleMillis int `yaml:"sample_millis"`

	// ResetHoldSeconds is how long the reset button must be held to
	// trigger a factory reset.
	ResetHoldSeconds int `yaml:"reset_hold_seconds"`
}

// WirelessConfig contains the station-mode reconnect policy.
type WirelessConfig struct {
	// InitialDelay is the first retry delay in seconds after a failed
	// association attempt.
	InitialDelay int `yaml:"initial_delay"`

	// MaxDelay caps the exponential retry delay in seconds.
	MaxDelay int `yaml:"max_delay"`
}

// MQTTConfig contains message-bus session settings that are not part of
// the persisted device configuration.
type MQTTConfig struct {
	QoS int `yaml:"qos"`

	// ConnectTimeoutSeconds bounds a single broker connection attempt.
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds"`

	// KeepAliveSeconds is the MQTT keepalive interval.
	KeepAliveSeconds int `yaml:"keep_alive_seconds"`

	// Reconnect is the session retry policy after a failed connect,
	// publish, or subscribe.
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTReconnectConfig contains the session backoff settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// QueueConfig contains event queue settings.
type QueueConfig struct {
	// Size is the capacity of the orchestrator event queue. Producers
	// never block: events beyond this capacity are dropped and logged.
	Size int `yaml:"size"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: STRIKECTL_SECTION_KEY
// For example: STRIKECTL_STORAGE_PATH, STRIKECTL_SETUP_SSID
//
// Returns the loaded and validated configuration, or an error if the
// file cannot be read, parsed, or validation fails.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration with environment overrides
// applied, without reading any file. Used when no config file is present;
// the defaults are sufficient for a factory-fresh device.
func Default() *Config {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	return cfg
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: "./data/strikectl.db",
		},
		Setup: SetupConfig{
			SSID:     "DoorControl",
			Password: "new_door_control",
		},
		Hardware: HardwareConfig{
			DebounceMillis:   50,
			SampleMillis:     10,
			ResetHoldSeconds: 5,
		},
		Wireless: WirelessConfig{
			InitialDelay: 1,
			MaxDelay:     60,
		},
		MQTT: MQTTConfig{
			QoS:                   1,
			ConnectTimeoutSeconds: 10,
			KeepAliveSeconds:      60,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Queue: QueueConfig{
			Size: 32,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: STRIKECTL_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STRIKECTL_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}

	if v := os.Getenv("STRIKECTL_SETUP_SSID"); v != "" {
		cfg.Setup.SSID = v
	}
	if v := os.Getenv("STRIKECTL_SETUP_PASSWORD"); v != "" {
		cfg.Setup.Password = v
	}

	if v := os.Getenv("STRIKECTL_QUEUE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Queue.Size = n
		}
	}

	if v := os.Getenv("STRIKECTL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns a description of the validation failure, or nil if valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Storage.Path == "" {
		errs = append(errs, "storage.path is required")
	}

	if c.Setup.SSID == "" {
		errs = append(errs, "setup.ssid is required")
	}
	// WPA2 requires a passphrase of 8-63 characters.
	const minSetupPasswordLength = 8
	if len(c.Setup.Password) < minSetupPasswordLength {
		errs = append(errs, "setup.password must be at least 8 characters")
	}

	if c.Hardware.DebounceMillis <= 0 {
		errs = append(errs, "hardware.debounce_millis must be positive")
	}
	if c.Hardware.SampleMillis <= 0 {
		errs = append(errs, "hardware.sample_millis must be positive")
	}
	if c.Hardware.ResetHoldSeconds <= 0 {
		errs = append(errs, "hardware.reset_hold_seconds must be positive")
	}

	if c.Wireless.InitialDelay <= 0 {
		errs = append(errs, "wireless.initial_delay must be positive")
	}
	if c.Wireless.MaxDelay < c.Wireless.InitialDelay {
		errs = append(errs, "wireless.max_delay must be >= wireless.initial_delay")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Reconnect.InitialDelay <= 0 {
		errs = append(errs, "mqtt.reconnect.initial_delay must be positive")
	}
	if c.MQTT.Reconnect.MaxDelay < c.MQTT.Reconnect.InitialDelay {
		errs = append(errs, "mqtt.reconnect.max_delay must be >= mqtt.reconnect.initial_delay")
	}

	if c.Queue.Size <= 0 {
		errs = append(errs, "queue.size must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// DebounceInterval returns the door-sensor settle window as a Duration.
func (c *Config) DebounceInterval() time.Duration {
	return time.Duration(c.Hardware.DebounceMillis) * time.Millisecond
}

// SampleInterval returns the hardware sampling period as a Duration.
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.Hardware.SampleMillis) * time.Millisecond
}

// ResetHold returns the factory-reset hold threshold as a Duration.
func (c *Config) ResetHold() time.Duration {
	return time.Duration(c.Hardware.ResetHoldSeconds) * time.Second
}
