package mqtt

import (
	"crypto/tls"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/strikeworks/strike-core/internal/device"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for a connection attempt.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second

	// maxQoS is the maximum QoS level supported.
	maxQoS = 2

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12

	// clientIDPrefix is prepended to the device ID to form the broker client ID.
	clientIDPrefix = "strikectl-"
)

// Will describes the Last Will and Testament registered with the broker.
//
// The broker publishes the will if the client disconnects unexpectedly
// (crash, power loss, network failure). Close publishes the same message
// on graceful shutdown so subscribers see the device go offline either way.
type Will struct {
	Topic    string
	Payload  string
	QoS      byte
	Retained bool
}

// ClientOptions configures a Client beyond the provisioned device config.
// Zero values fall back to the package defaults.
type ClientOptions struct {
	// QoS is the default delivery level used by PublishRetained.
	QoS byte

	// ConnectTimeout bounds a single broker connection attempt.
	ConnectTimeout time.Duration

	// KeepAlive is the MQTT keepalive interval.
	KeepAlive time.Duration

	// Will is registered with the broker on every Connect.
	Will Will
}

// buildClientOptions creates paho MQTT options from the provisioned device
// configuration.
//
// This configures:
//   - Broker URL (tcp:// or ssl:// based on the TLS setting)
//   - Client ID derived from the device ID
//   - Authentication credentials (if provided)
//   - TLS, optionally without certificate verification
//   - Clean session mode
//
// Automatic reconnection is deliberately disabled: the session layer owns
// the reconnect cycle and its backoff, and redials through Connect.
func buildClientOptions(cfg device.Config, clientOpts ClientOptions) *pahomqtt.ClientOptions {
	if clientOpts.ConnectTimeout <= 0 {
		clientOpts.ConnectTimeout = defaultConnectTimeout
	}
	if clientOpts.KeepAlive <= 0 {
		clientOpts.KeepAlive = defaultKeepAlive
	}

	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if cfg.MQTTTLS {
		scheme = "ssl"
	}
	brokerURL := fmt.Sprintf("%s://%s:%d", scheme, cfg.MQTTHost, cfg.MQTTPort)
	opts.AddBroker(brokerURL)

	opts.SetClientID(clientIDPrefix + cfg.DeviceID)

	if cfg.MQTTUser != "" {
		opts.SetUsername(cfg.MQTTUser)
		opts.SetPassword(cfg.MQTTPass)
	}

	// Start fresh on every connect; retained topics carry the state.
	opts.SetCleanSession(true)

	// The session layer redials with its own backoff schedule.
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)

	opts.SetConnectTimeout(clientOpts.ConnectTimeout)
	opts.SetKeepAlive(clientOpts.KeepAlive)

	if cfg.MQTTTLS {
		tlsConfig := &tls.Config{
			MinVersion: tlsMinVersion,
			// Self-signed broker certificates are a supported deployment
			// mode; verification is opt-in via mqtt_tls_verify_cert.
			InsecureSkipVerify: !cfg.MQTTTLSVerifyCert, //nolint:gosec
		}
		opts.SetTLSConfig(tlsConfig)
	}

	if will := clientOpts.Will; will.Topic != "" {
		opts.SetWill(will.Topic, will.Payload, will.QoS, will.Retained)
	}

	return opts
}
